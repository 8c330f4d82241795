// Package model defines the Graph/Node/Tensor arena: the in-memory
// representation the compiler walks. Graph owns its Nodes; each Node
// owns its Tensors. Back-references (Node.Graph, Tensor.Node) are
// plain, non-owning pointers valid only for the duration of a single
// compile pass — the spec's single-threaded invariant is the caller's
// responsibility, not something this package enforces with locks.
package model

import (
	"github.com/tgecore/tge/internal/graphdef"
)

// Graph is the topologically ordered node arena plus a name→index map.
type Graph struct {
	Nodes []*Node
	index map[string]int
}

// Build constructs a Graph from a slice of operator definitions using
// the admission work-queue algorithm: a node is admitted once every
// data-input producer it names is already admitted; nodes that are not
// yet ready are deferred to the tail of the queue. maxAdmitRetries
// bounds the number of times a single definition may be re-enqueued
// before the pass gives up and reports ErrCyclicGraph — without this
// cap, a truly cyclic (or input-incomplete) graph would loop forever.
func Build(defs []graphdef.Node, maxAdmitRetries int) (*Graph, error) {
	g := &Graph{
		Nodes: make([]*Node, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}

	type pending struct {
		def     graphdef.Node
		retries int
	}

	queue := make([]pending, 0, len(defs))
	for _, d := range defs {
		queue = append(queue, pending{def: d})
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		ready := true
		for _, raw := range p.def.Input {
			ref := graphdef.ParseInput(raw)
			if _, ok := g.index[ref.Name]; !ok {
				ready = false
				break
			}
		}

		if !ready {
			if p.retries >= maxAdmitRetries {
				return nil, ErrCyclicGraph
			}
			p.retries++
			queue = append(queue, p)
			continue
		}

		node, err := newNode(g, p.def)
		if err != nil {
			return nil, err
		}
		g.index[p.def.Name] = len(g.Nodes)
		g.Nodes = append(g.Nodes, node)
	}

	return g, nil
}

// IndexOf returns the position of a named node in topological order.
func (g *Graph) IndexOf(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// NodeByName looks up a node by name.
func (g *Graph) NodeByName(name string) (*Node, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.Nodes[i], true
}

// RequireNode looks up a node by name, returning ErrNodeNotFound
// instead of a bare ok=false for callers that want an error to wrap or
// propagate rather than a lookup they have to branch on themselves.
func (g *Graph) RequireNode(name string) (*Node, error) {
	n, ok := g.NodeByName(name)
	if !ok {
		return nil, ErrNodeNotFound
	}
	return n, nil
}
