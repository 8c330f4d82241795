package transition

import (
	"github.com/tgecore/tge/internal/dtype"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
)

// scalarInt32Const builds a rank-0 int32 Const auxiliary operator owned
// by node, used throughout the builders for axis/dim arguments to
// Split/ConcatV2/Reshape.
func scalarInt32Const(node *model.Node, opSuffix string, device string, value int64) graphdef.Node {
	c := node.MakeAux("Const")
	c.Name += opSuffix
	c.Device = device
	c.SetAttr("dtype", graphdef.DTypeAttr(dtype.Int32))
	c.SetAttr("value", graphdef.TensorAttr(graphdef.TensorConst{
		DType: dtype.Int32,
		Shape: nil,
		Int64: []int64{value},
	}))
	return c
}
