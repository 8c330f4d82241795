package graphdef

// SetOrigin tags a compiled replica with the name of the node it was
// cloned from.
func (n *Node) SetOrigin(origin string) {
	n.SetAttr("_tge_origin", StrAttr(origin))
}

// SetBelongTo tags an auxiliary operator with the name of the node
// whose input/output transition it exists to serve.
func (n *Node) SetBelongTo(owner string) {
	n.SetAttr("_tge_belong_to", StrAttr(owner))
}

// SetForm tags a compiled replica with the serialized form code it was
// placed under.
func (n *Node) SetForm(code string) {
	n.SetAttr("_tge_form", StrAttr(code))
}

// SetInputSize records the byte size transferred over input `index`,
// growing the backing _tge_input_sizes list as needed. Indices are
// filled in as they're set; gaps left by out-of-order calls default to 0.
func (n *Node) SetInputSize(index int, size int64) {
	v, ok := n.GetAttr("_tge_input_sizes")
	if !ok || v.Kind != KindInts {
		v = IntsAttr(nil)
	}
	if len(v.Ints) <= index {
		grown := make([]int64, index+1)
		copy(grown, v.Ints)
		v.Ints = grown
	}
	v.Ints[index] = size
	n.SetAttr("_tge_input_sizes", v)
}
