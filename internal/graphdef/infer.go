package graphdef

import (
	"fmt"

	"github.com/tgecore/tge/internal/dtype"
)

// InferDType implements the external-interface data-type inference
// rules: special-cased ops first, then the producer's own dtype/T
// attribute, falling back to a fatal error if neither is present.
func InferDType(producer Node) (dtype.Type, error) {
	switch producer.Op {
	case "Greater", "GreaterEqual":
		return dtype.Bool, nil
	case "Shape", "ShapeN":
		if v, ok := producer.GetAttr("out_type"); ok && v.Kind == KindDType {
			return v.DType, nil
		}
		return dtype.Int32, nil
	case "Cast":
		v, ok := producer.GetAttr("DstT")
		if !ok || v.Kind != KindDType {
			return dtype.Invalid, fmt.Errorf("graphdef: Cast node %q missing DstT attr", producer.Name)
		}
		return v.DType, nil
	default:
		if v, ok := producer.GetAttr("dtype"); ok && v.Kind == KindDType {
			return v.DType, nil
		}
		if v, ok := producer.GetAttr("T"); ok && v.Kind == KindDType {
			return v.DType, nil
		}
		return dtype.Invalid, fmt.Errorf("graphdef: cannot determine dtype for node %q (op %s): no dtype or T attr", producer.Name, producer.Op)
	}
}
