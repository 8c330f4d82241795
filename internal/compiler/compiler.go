// Package compiler implements the node compiler: the pass that walks a
// placed model.Graph in topological order and, for every node, emits one
// cloned-and-redeviced operator definition per (replica, device) pair in
// that node's form, rewriting each input reference through the
// transition package so that producer and consumer forms are reconciled.
package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
	"github.com/tgecore/tge/internal/transition"
	"github.com/tgecore/tge/pkg/middleware"
	"github.com/tgecore/tge/pkg/observer"
)

// Compiler runs the compile pass over a single placed graph.
type Compiler struct {
	graph     *model.Graph
	target    *target.Target
	opts      transition.Options
	chain     *middleware.Chain
	observers *observer.Manager

	// Observe is called after each node is compiled, for integrations
	// that want a plain callback instead of registering an
	// observer.Observer; nil disables the hook.
	Observe func(nodeName string, replicas int)
}

// New builds a Compiler over an already-placed graph and an output sink.
// chain may be nil, in which case nodes compile with no middleware.
func New(g *model.Graph, tgt *target.Target, opts transition.Options, chain *middleware.Chain) *Compiler {
	if chain == nil {
		chain = middleware.NewChain()
	}
	return &Compiler{graph: g, target: tgt, opts: opts, chain: chain, observers: observer.NewManager()}
}

// Observers returns the compiler's observer.Manager, for registering
// Observer implementations before calling Run.
func (c *Compiler) Observers() *observer.Manager { return c.observers }

// Run compiles every node in the graph's topological order into tgt.
// Every node must already have a valid form (see model.Node.PutOnDevices)
// before calling Run.
func (c *Compiler) Run() error {
	ctx := context.Background()
	start := time.Now()

	c.observers.Notify(ctx, observer.Event{
		Type:       observer.EventPassStart,
		Status:     observer.StatusStarted,
		Timestamp:  start,
		RunID:      c.target.RunID,
		GraphNodes: len(c.graph.Nodes),
	})

	if err := c.run(); err != nil {
		c.observers.Notify(ctx, observer.Event{
			Type:       observer.EventPassComplete,
			Status:     observer.StatusFailure,
			Timestamp:  time.Now(),
			RunID:      c.target.RunID,
			GraphNodes: len(c.graph.Nodes),
			Elapsed:    time.Since(start),
			Error:      err,
		})
		return err
	}

	c.observers.Notify(ctx, observer.Event{
		Type:       observer.EventPassComplete,
		Status:     observer.StatusSuccess,
		Timestamp:  time.Now(),
		RunID:      c.target.RunID,
		GraphNodes: len(c.graph.Nodes),
		Elapsed:    time.Since(start),
	})
	return nil
}

func (c *Compiler) run() error {
	if len(c.graph.Nodes) == 0 {
		return model.ErrEmptyGraph
	}

	ctx := context.Background()
	for _, n := range c.graph.Nodes {
		if !n.Form.Valid() {
			return fmt.Errorf("compiler: node %q has no assigned form", n.Raw.Name)
		}

		ops, err := c.chain.Execute(n, c.compileNode)
		if err != nil {
			return fmt.Errorf("compiler: node %q: %w", n.Raw.Name, err)
		}
		for _, op := range ops {
			if err := c.target.Emit(op); err != nil {
				return fmt.Errorf("compiler: node %q: %w", n.Raw.Name, err)
			}
		}

		c.observers.Notify(ctx, observer.Event{
			Type:      observer.EventNodeCompiled,
			Status:    observer.StatusCompleted,
			Timestamp: time.Now(),
			RunID:     c.target.RunID,
			NodeName:  n.Raw.Name,
			Replicas:  n.Form.Ndev(),
		})

		if c.Observe != nil {
			c.Observe(n.Raw.Name, n.Form.Ndev())
		}
	}
	return nil
}

// compileNode is the chain's terminal Handler: it produces one
// operator definition per (replica, device) in n's form, with inputs
// rewritten through the transition package and control deps fanned out
// across every producer replica.
func (c *Compiler) compileNode(n *model.Node) ([]graphdef.Node, error) {
	ops := make([]graphdef.Node, 0, n.Form.Ndev())

	for replicaIndex, deviceID := range n.Form.Devices {
		out := n.Raw.Clone()
		out.Name = n.Replica(replicaIndex)

		device, ok := c.target.DeviceString(deviceID)
		if !ok {
			return nil, fmt.Errorf("device index %d out of range", deviceID)
		}
		out.Device = device
		out.SetOrigin(n.Raw.Name)
		out.SetForm(n.Form.Code())

		inputs := make([]string, len(n.Inputs))
		for i, in := range n.Inputs {
			producer := c.graph.Nodes[in.ProducerIndex]
			tensor := producer.Output(in.Port)

			opts := c.opts
			opts.OnAux = func(builderKind string, auxCount int) {
				if auxCount == 0 {
					return
				}
				c.observers.Notify(context.Background(), observer.Event{
					Type:        observer.EventAuxEmitted,
					Status:      observer.StatusCompleted,
					Timestamp:   time.Now(),
					RunID:       c.target.RunID,
					BuilderKind: builderKind,
					AuxCount:    auxCount,
				})
			}

			requested := form.New(in.Kind, n.Form.Devices)
			names, err := transition.Realize(tensor, requested, c.target, opts)
			if err != nil {
				return nil, fmt.Errorf("resolving input %d: %w", i, err)
			}

			size := tensor.Size(c.opts.ElementSizeBytes)
			if n.Form.IsPart() {
				size /= int64(n.Form.Ndev())
			}
			out.SetInputSize(i, size)

			inputs[i] = names[replicaIndex]
		}

		for _, ctrlIdx := range n.Controls {
			dep := c.graph.Nodes[ctrlIdx]
			for i := 0; i < dep.Form.Ndev(); i++ {
				inputs = append(inputs, "^"+dep.Replica(i))
			}
		}
		out.Input = inputs

		ops = append(ops, out)
	}
	return ops, nil
}
