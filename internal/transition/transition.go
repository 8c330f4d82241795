// Package transition implements the six form-transition builders: the
// auxiliary-operator recipes that reconcile a producer's actual form
// with a consumer's requested form. The dispatch table and naming
// convention are grounded directly on the reference compiler's
// Tensor::as_form method and its aggregate_*/replicate_*/resplit/
// all_reduce_* editing methods.
package transition

import (
	"fmt"

	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

// Reduction selects which alternative realizes a Part->Full transition
// when more than one is applicable.
type Reduction string

const (
	ReductionConcat Reduction = "concat"
	ReductionSum    Reduction = "sum"
	ReductionNCCL   Reduction = "nccl"
	ReductionRing   Reduction = "ring"
)

// Options carries the knobs the node compiler threads through to every
// builder invocation: the element-size assumption used to annotate
// transferred byte counts, which reduction alternative to prefer for a
// Part->Full transition, and the replica count at or above which ring
// all-reduce is preferred over NCCL when both are applicable (same
// device set on both sides).
type Options struct {
	ElementSizeBytes       int64
	Reduction              Reduction
	RingAllReduceThreshold int

	// OnAux, if set, is called after a builder runs with the builder's
	// name and the number of auxiliary operators it emitted into tgt
	// (0 for Broadcast, which never emits). Used by callers that want
	// an observer.EventAuxEmitted without this package depending on
	// the observer package.
	OnAux func(builderKind string, auxCount int)
}

// DefaultOptions mirrors the reference compiler's behavior: plain
// concat aggregation, no special-casing for same-device-set transfers.
func DefaultOptions() Options {
	return Options{ElementSizeBytes: 4, Reduction: ReductionConcat}
}

// Realize returns the per-replica names that realize tensor t in form
// to, building and emitting whatever auxiliary operators are needed and
// caching the result on t. It is the one entry point the node compiler
// calls in place of the reference implementation's Tensor::as_form,
// kept out of the model package to avoid a model<->transition import
// cycle (transition depends on model, never the reverse).
func Realize(t *model.Tensor, to form.Form, tgt *target.Target, opts Options) ([]string, error) {
	if names, ok := t.Lookup(to); ok {
		return names, nil
	}

	var (
		names []string
		err   error
	)

	if form.Equal(to, t.Node.Form) {
		names = t.IdentityNames()
	} else {
		from := t.Node.Form
		before := tgt.Len()
		var builderKind string

		switch {
		case to.IsFull() && from.IsFull():
			builderKind = "broadcast"
			names, err = Broadcast(t, from, to, tgt, opts)
		case to.IsPart() && from.IsFull():
			builderKind = "split"
			names, err = Split(t, from, to, tgt, opts)
		case to.IsFull() && from.IsPart():
			builderKind, names, err = realizePartToFull(t, from, to, tgt, opts)
		case to.IsPart() && from.IsPart():
			builderKind = "resplit"
			names, err = Resplit(t, from, to, tgt, opts)
		default:
			err = fmt.Errorf("transition: unreachable form pair %s -> %s", from.Code(), to.Code())
		}

		if err == nil && opts.OnAux != nil {
			opts.OnAux(builderKind, tgt.Len()-before)
		}
	}

	if err != nil {
		return nil, err
	}

	t.Store(to, names)
	return names, nil
}

// realizePartToFull picks among the four Part->Full alternatives: NCCL
// and ring all-reduce require the producer and consumer to sit on
// exactly the same device set (they reduce in place); otherwise the
// transition falls back to the configured default (concat or sum).
func realizePartToFull(t *model.Tensor, from, to form.Form, tgt *target.Target, opts Options) (string, []string, error) {
	sameDevices := sameDeviceList(from.Devices, to.Devices)

	reduction := opts.Reduction
	if sameDevices {
		switch {
		case reduction == ReductionRing, opts.RingAllReduceThreshold > 0 && from.Ndev() >= opts.RingAllReduceThreshold:
			names, err := AllReduceRing(t, from, to, tgt, opts)
			return "allreduce_ring", names, err
		case reduction == ReductionNCCL:
			names, err := AllReduceNCCL(t, from, to, tgt, opts)
			return "allreduce_nccl", names, err
		}
	}

	if reduction == ReductionSum {
		names, err := AggregateSum(t, from, to, tgt, opts)
		return "aggregate_sum", names, err
	}
	names, err := AggregateConcat(t, from, to, tgt, opts)
	return "aggregate_concat", names, err
}

func unknownDevice(idx int) error {
	return fmt.Errorf("transition: device index %d out of range", idx)
}

func sameDeviceList(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
