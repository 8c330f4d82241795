package transition

import (
	"testing"

	"github.com/tgecore/tge/internal/dtype"
	"github.com/tgecore/tge/internal/form"
)

func TestAggregateSumEmitsAddN(t *testing.T) {
	from := form.New(form.Part, []int{0, 1})
	to := form.New(form.Full, []int{0})
	tensor, tgt := buildTensor(t, constDef("foo"), from)

	names, err := AggregateSum(tensor, from, to, tgt, DefaultOptions())
	if err != nil {
		t.Fatalf("AggregateSum: %v", err)
	}
	if len(names) != 1 || names[0] != "foo/0_full_0/aux_sum" {
		t.Errorf("names = %v, want [foo/0_full_0/aux_sum]", names)
	}
	if tgt.Len() != 1 {
		t.Fatalf("AggregateSum emitted %d ops, want 1", tgt.Len())
	}

	addn := tgt.Nodes()[0]
	if addn.Op != "AddN" {
		t.Errorf("addn.Op = %q, want AddN", addn.Op)
	}
	if len(addn.Input) != 2 || addn.Input[0] != "foo/replica_0" || addn.Input[1] != "foo/replica_1" {
		t.Errorf("addn.Input = %v, want [foo/replica_0 foo/replica_1]", addn.Input)
	}
	if v, ok := addn.GetAttr("N"); !ok || v.Int != 2 {
		t.Errorf("N attr = %+v, want 2", v)
	}
	if v, ok := addn.GetAttr("T"); !ok || v.DType != dtype.Float32 {
		t.Errorf("T attr = %+v, want Float32", v)
	}
}
