package transition

import (
	"testing"

	"github.com/tgecore/tge/internal/dtype"
	"github.com/tgecore/tge/internal/form"
)

func TestGCD(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{4, 2, 2}, {2, 4, 2}, {6, 9, 3}, {5, 5, 5}, {1, 7, 1},
	}
	for _, c := range cases {
		if got := gcd(c.a, c.b); got != c.want {
			t.Errorf("gcd(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestResplitGroupsByGCD(t *testing.T) {
	from := form.New(form.Part, []int{0, 1})
	to := form.New(form.Part, []int{0, 1, 2, 3})
	tensor, tgt := buildTensor(t, constDef("foo"), from)

	names, err := Resplit(tensor, from, to, tgt, DefaultOptions())
	if err != nil {
		t.Fatalf("Resplit: %v", err)
	}
	if len(names) != 4 {
		t.Fatalf("Resplit returned %d names, want 4", len(names))
	}

	base := "foo/0_part_0_1_2_3/aux_resplit_0"
	if names[0] != base+"/split" || names[1] != base+"/split:1" {
		t.Errorf("group 0 outputs = %v, want [%s/split %s/split:1]", names[:2], base, base)
	}

	if tgt.Len() != 8 {
		t.Fatalf("Resplit emitted %d ops, want 8 (2 groups x (axis+concat) then 2 groups x (dim+split))", tgt.Len())
	}

	nodes := tgt.Nodes()
	// All g concats (axis+concat each) are emitted before the g splits.
	axis0, concat0, dim0, split0 := nodes[0], nodes[1], nodes[4], nodes[5]
	if axis0.Name != base+"/concat_axis" {
		t.Errorf("axis0.Name = %q, want %q", axis0.Name, base+"/concat_axis")
	}
	if concat0.Op != "ConcatV2" || concat0.Name != base+"/concat" {
		t.Errorf("concat0 = %+v", concat0)
	}
	if len(concat0.Input) != 2 || concat0.Input[0] != "foo/replica_0" || concat0.Input[1] != axis0.Name {
		t.Errorf("concat0.Input = %v", concat0.Input)
	}
	if v, ok := concat0.GetAttr("Tidx"); !ok || v.DType != dtype.Int32 {
		t.Errorf("concat0 Tidx attr = %+v, want Int32 (Tidx is the concat axis operand's type, always int32)", v)
	}
	if dim0.Name != base+"/split_dim" {
		t.Errorf("dim0.Name = %q, want %q", dim0.Name, base+"/split_dim")
	}
	if split0.Op != "Split" || split0.Name != base+"/split" {
		t.Errorf("split0 = %+v", split0)
	}
	if v, ok := split0.GetAttr("num_split"); !ok || v.Int != 2 {
		t.Errorf("split0 num_split = %+v, want 2", v)
	}
}
