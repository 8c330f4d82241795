package graphdef

import (
	"testing"

	"github.com/tgecore/tge/internal/dtype"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		raw  string
		want InputRef
	}{
		{"foo", InputRef{Name: "foo", Port: 0}},
		{"foo:2", InputRef{Name: "foo", Port: 2}},
		{"^bar", InputRef{Name: "bar", Control: true}},
	}
	for _, tc := range tests {
		got := ParseInput(tc.raw)
		if got != tc.want {
			t.Errorf("ParseInput(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseInputPanicsOnMalformedPort(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ParseInput did not panic on a non-numeric port suffix")
		}
	}()
	ParseInput("foo:bar")
}

func TestOutputRef(t *testing.T) {
	if got := OutputRef("foo", 0); got != "foo" {
		t.Errorf("OutputRef(foo, 0) = %q, want %q", got, "foo")
	}
	if got := OutputRef("foo", 3); got != "foo:3" {
		t.Errorf("OutputRef(foo, 3) = %q, want %q", got, "foo:3")
	}
}

func TestNodeCloneIsIndependent(t *testing.T) {
	n := Node{Name: "a", Op: "Const", Input: []string{"b"}}
	n.SetAttr("x", Int64Attr(1))

	c := n.Clone()
	c.Input[0] = "mutated"
	c.SetAttr("x", Int64Attr(2))
	c.SetAttr("y", Int64Attr(3))

	if n.Input[0] != "b" {
		t.Error("Clone shares the backing Input slice with the original")
	}
	if v, _ := n.GetAttr("x"); v.Int != 1 {
		t.Error("Clone shares the backing Attr map with the original")
	}
	if _, ok := n.GetAttr("y"); ok {
		t.Error("a new attr set on the clone leaked back into the original")
	}
}

func TestSetAttrAllocatesLazily(t *testing.T) {
	var n Node
	if n.Attr != nil {
		t.Fatal("zero-value Node should have a nil Attr map")
	}
	n.SetAttr("a", StrAttr("v"))
	if n.Attr == nil {
		t.Error("SetAttr did not allocate the Attr map on first use")
	}
}

func TestAttrValueJSONRoundTrip(t *testing.T) {
	values := []AttrValue{
		Int64Attr(7),
		StrAttr("hello"),
		IntsAttr([]int64{1, 2, 3}),
		DTypeAttr(dtype.Float32),
		TensorAttr(TensorConst{DType: dtype.Int32, Shape: []int{2, 3}, Int64: []int64{1, 2, 3, 4, 5, 6}}),
		ListAttr([]AttrValue{
			TensorAttr(TensorConst{DType: dtype.Float32, Shape: []int{2, 3}}),
			TensorAttr(TensorConst{DType: dtype.Int32, Shape: []int{5}}),
		}),
	}
	for _, v := range values {
		raw, err := v.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%+v): %v", v, err)
		}
		var got AttrValue
		if err := got.UnmarshalJSON(raw); err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", raw, err)
		}
		if got.Kind != v.Kind {
			t.Errorf("round-tripped kind = %q, want %q", got.Kind, v.Kind)
		}
	}
}

func TestAttrValueListRoundTripsNestedEntries(t *testing.T) {
	v := ListAttr([]AttrValue{
		TensorAttr(TensorConst{DType: dtype.Float32, Shape: []int{2, 3}}),
		TensorAttr(TensorConst{DType: dtype.Int32, Shape: []int{5}}),
	})
	raw, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var got AttrValue
	if err := got.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if len(got.List) != 2 {
		t.Fatalf("round-tripped List has %d entries, want 2", len(got.List))
	}
	if got.List[0].Kind != KindTensor || len(got.List[0].Tensor.Shape) != 2 {
		t.Errorf("List[0] = %+v, want a 2-dim Tensor entry", got.List[0])
	}
	if got.List[1].Kind != KindTensor || len(got.List[1].Tensor.Shape) != 1 {
		t.Errorf("List[1] = %+v, want a 1-dim Tensor entry", got.List[1])
	}
}
