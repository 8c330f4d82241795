package graphdef

import "testing"

func TestSetOriginBelongToForm(t *testing.T) {
	var n Node
	n.SetOrigin("orig")
	n.SetBelongTo("owner")
	n.SetForm("full_0_1")

	if v, _ := n.GetAttr("_tge_origin"); v.Str != "orig" {
		t.Errorf("_tge_origin = %q, want %q", v.Str, "orig")
	}
	if v, _ := n.GetAttr("_tge_belong_to"); v.Str != "owner" {
		t.Errorf("_tge_belong_to = %q, want %q", v.Str, "owner")
	}
	if v, _ := n.GetAttr("_tge_form"); v.Str != "full_0_1" {
		t.Errorf("_tge_form = %q, want %q", v.Str, "full_0_1")
	}
}

func TestSetInputSizeGrowsAndFillsInOrder(t *testing.T) {
	var n Node
	n.SetInputSize(0, 100)
	n.SetInputSize(1, 200)

	v, ok := n.GetAttr("_tge_input_sizes")
	if !ok {
		t.Fatal("_tge_input_sizes attr not set")
	}
	want := []int64{100, 200}
	if len(v.Ints) != len(want) {
		t.Fatalf("_tge_input_sizes = %v, want %v", v.Ints, want)
	}
	for i, w := range want {
		if v.Ints[i] != w {
			t.Errorf("_tge_input_sizes[%d] = %d, want %d", i, v.Ints[i], w)
		}
	}
}

func TestSetInputSizeOutOfOrderLeavesGapZero(t *testing.T) {
	var n Node
	n.SetInputSize(2, 50)

	v, _ := n.GetAttr("_tge_input_sizes")
	if len(v.Ints) != 3 {
		t.Fatalf("_tge_input_sizes has length %d, want 3", len(v.Ints))
	}
	if v.Ints[0] != 0 || v.Ints[1] != 0 {
		t.Errorf("gap entries = %v, want zero-filled", v.Ints[:2])
	}
	if v.Ints[2] != 50 {
		t.Errorf("_tge_input_sizes[2] = %d, want 50", v.Ints[2])
	}
}
