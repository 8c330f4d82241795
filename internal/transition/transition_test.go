package transition

import (
	"testing"

	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

func buildTensor(t *testing.T, def graphdef.Node, f form.Form) (*model.Tensor, *target.Target) {
	t.Helper()
	g, err := model.Build([]graphdef.Node{def}, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n := g.Nodes[0]
	if err := n.PutOnDevices(f.Kind, f.Devices); err != nil {
		t.Fatalf("PutOnDevices: %v", err)
	}
	devices := make([]string, 4)
	for i := range devices {
		devices[i] = "/device:GPU:" + string(rune('0'+i))
	}
	tgt := target.New(devices)
	return n.Output(0), tgt
}

func TestRealizeIdentityShortCircuit(t *testing.T) {
	tensor, tgt := buildTensor(t, graphdef.Node{Name: "foo", Op: "Const"}, form.New(form.Full, []int{0, 1}))
	names, err := Realize(tensor, form.New(form.Full, []int{0, 1}), tgt, DefaultOptions())
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	want := []string{"foo/replica_0", "foo/replica_1"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("Realize(identity) = %v, want %v", names, want)
	}
	if tgt.Len() != 0 {
		t.Errorf("identity transition emitted %d aux ops, want 0", tgt.Len())
	}
}

func TestRealizeCachesResult(t *testing.T) {
	tensor, tgt := buildTensor(t, constDef("foo"), form.New(form.Full, []int{0}))
	to := form.New(form.Part, []int{0, 1})

	names1, err := Realize(tensor, to, tgt, DefaultOptions())
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	emittedAfterFirst := tgt.Len()

	names2, err := Realize(tensor, to, tgt, DefaultOptions())
	if err != nil {
		t.Fatalf("Realize (cached): %v", err)
	}
	if tgt.Len() != emittedAfterFirst {
		t.Errorf("second Realize call emitted more ops: %d -> %d", emittedAfterFirst, tgt.Len())
	}
	if len(names1) != len(names2) || names1[0] != names2[0] {
		t.Errorf("cached Realize returned different names: %v vs %v", names1, names2)
	}
}

func TestRealizeInvokesOnAux(t *testing.T) {
	tensor, tgt := buildTensor(t, constDef("foo"), form.New(form.Full, []int{0}))
	to := form.New(form.Part, []int{0, 1})

	var gotKind string
	var gotCount int
	opts := DefaultOptions()
	opts.OnAux = func(builderKind string, auxCount int) {
		gotKind = builderKind
		gotCount = auxCount
	}

	if _, err := Realize(tensor, to, tgt, opts); err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if gotKind != "split" {
		t.Errorf("OnAux builderKind = %q, want %q", gotKind, "split")
	}
	if gotCount != 2 {
		t.Errorf("OnAux auxCount = %d, want 2 (one Const + one Split)", gotCount)
	}
}

func TestRealizeOnAuxNotCalledOnIdentity(t *testing.T) {
	tensor, tgt := buildTensor(t, graphdef.Node{Name: "foo", Op: "Const"}, form.New(form.Full, []int{0, 1}))
	called := false
	opts := DefaultOptions()
	opts.OnAux = func(string, int) { called = true }

	if _, err := Realize(tensor, form.New(form.Full, []int{0, 1}), tgt, opts); err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if called {
		t.Error("OnAux was called for an identity transition")
	}
}

func TestRealizePartToFullDispatchesByReduction(t *testing.T) {
	cases := []struct {
		name      string
		reduction Reduction
		sameDev   bool
		wantKind  string
	}{
		{"default concat", "", false, "aggregate_concat"},
		{"sum preference", ReductionSum, false, "aggregate_sum"},
		{"nccl same devices", ReductionNCCL, true, "allreduce_nccl"},
		{"ring same devices", ReductionRing, true, "allreduce_ring"},
		{"nccl ignored cross devices", ReductionNCCL, false, "aggregate_concat"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			from := form.New(form.Part, []int{0, 1})
			var to form.Form
			if c.sameDev {
				to = form.New(form.Full, []int{0, 1})
			} else {
				to = form.New(form.Full, []int{2, 3})
			}

			tensor, tgt := buildTensor(t, constDef("foo"), from)
			var gotKind string
			opts := DefaultOptions()
			opts.Reduction = c.reduction
			opts.OnAux = func(builderKind string, _ int) { gotKind = builderKind }

			if _, err := Realize(tensor, to, tgt, opts); err != nil {
				t.Fatalf("Realize: %v", err)
			}
			if gotKind != c.wantKind {
				t.Errorf("builder kind = %q, want %q", gotKind, c.wantKind)
			}
		})
	}
}

func TestRealizeRingAllReduceThreshold(t *testing.T) {
	from := form.New(form.Part, []int{0, 1, 2})
	to := form.New(form.Full, []int{0, 1, 2})
	tensor, tgt := buildTensor(t, constDef("foo"), from)

	var gotKind string
	opts := DefaultOptions()
	opts.RingAllReduceThreshold = 3
	opts.OnAux = func(builderKind string, _ int) { gotKind = builderKind }

	if _, err := Realize(tensor, to, tgt, opts); err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if gotKind != "allreduce_ring" {
		t.Errorf("builder kind = %q, want %q (threshold met)", gotKind, "allreduce_ring")
	}
}
