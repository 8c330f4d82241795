package model

import (
	"fmt"

	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
)

// DataInput is one resolved data-input triple: the producer's index in
// the enclosing Graph, the output port requested, and the form kind
// the consumer wants that input in (defaults to form.Full).
type DataInput struct {
	ProducerIndex int
	Port          int
	Kind          form.Kind
}

// Node is one graph vertex: the original operator definition plus the
// bookkeeping the compiler needs to replicate it and rewrite its inputs.
type Node struct {
	Graph    *Graph
	Raw      graphdef.Node
	Controls []int // indices of control-dependency producers
	Inputs   []DataInput
	Form     form.Form // zero value until PutOnDevices is called

	outputs map[int]*Tensor

	// Ext is an opaque extension slot for external strategy code; the
	// core engine never reads or writes it.
	Ext interface{}
}

func newNode(g *Graph, def graphdef.Node) (*Node, error) {
	n := &Node{Graph: g, Raw: def, outputs: make(map[int]*Tensor)}

	for _, raw := range def.Input {
		ref := graphdef.ParseInput(raw)
		idx, ok := g.index[ref.Name]
		if !ok {
			return nil, fmt.Errorf("model: node %q references undefined input %q", def.Name, raw)
		}
		if ref.Control {
			n.Controls = append(n.Controls, idx)
		} else {
			n.Inputs = append(n.Inputs, DataInput{ProducerIndex: idx, Port: ref.Port, Kind: form.Full})
		}
	}

	return n, nil
}

// PutOnDevices assigns the node's form device list exactly once.
// Calling it a second time is a programmer error (double placement,
// per the fatal-error taxonomy) and returns ErrAlreadyPlaced.
func (n *Node) PutOnDevices(kind form.Kind, devices []int) error {
	if n.Form.Valid() {
		return ErrAlreadyPlaced
	}
	n.Form = form.New(kind, devices)
	return nil
}

// Replicated reports whether the node's form, once assigned, spans more
// than one device. It returns (false, false) if the form is not yet set.
func (n *Node) Replicated() (replicated bool, known bool) {
	switch n.Form.Ndev() {
	case 0:
		return false, false
	case 1:
		return false, true
	default:
		return true, true
	}
}

// Replica formats the per-device replica name for replica index i.
func (n *Node) Replica(i int) string {
	return fmt.Sprintf("%s/replica_%d", n.Raw.Name, i)
}

// Output returns the Tensor for output port i, creating it lazily (a
// map populated on first reference rather than a growable slice,
// sidestepping the mutable-through-shared-reference pattern the
// original implementation used).
func (n *Node) Output(port int) *Tensor {
	if t, ok := n.outputs[port]; ok {
		return t
	}
	t := newTensor(n, port)
	n.outputs[port] = t
	return t
}

// MakeAux starts a new auxiliary operator definition that belongs to
// this node: a fresh Node with the given op, named after the original,
// tagged with _tge_belong_to, ready for the caller to set
// Name-suffix/Device/Input.
func (n *Node) MakeAux(op string) graphdef.Node {
	aux := graphdef.Node{Op: op, Name: n.Raw.Name}
	aux.SetAttr("_tge_belong_to", graphdef.StrAttr(n.Raw.Name))
	return aux
}
