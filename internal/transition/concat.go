package transition

import (
	"github.com/tgecore/tge/internal/dtype"
	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

// AggregateConcat realizes a Part->Full transition by concatenating the
// from.Ndev() chunks along axis 0 on the consumer's first device. This
// is the default aggregation for Part->Full transitions.
func AggregateConcat(t *model.Tensor, from, to form.Form, tgt *target.Target, opts Options) ([]string, error) {
	raw, err := Realize(t, from, tgt, opts)
	if err != nil {
		return nil, err
	}

	device, ok := tgt.DeviceString(to.Devices[0])
	if !ok {
		return nil, unknownDevice(to.Devices[0])
	}
	suffix := "/" + auxPrefix(t, to)

	axis := scalarInt32Const(t.Node, suffix+"/aux_concat/axis", device, 0)

	concat := t.Node.MakeAux("ConcatV2")
	concat.Name += suffix + "/aux_concat/concat"
	concat.Device = device
	concat.Input = append(append([]string(nil), raw...), axis.Name)
	dt, err := graphdef.InferDType(t.Node.Raw)
	if err != nil {
		return nil, err
	}
	concat.SetAttr("N", graphdef.Int64Attr(int64(from.Ndev())))
	concat.SetAttr("T", graphdef.DTypeAttr(dt))
	concat.SetAttr("Tidx", graphdef.DTypeAttr(dtype.Int32))
	chunkSize := t.Size(opts.ElementSizeBytes) / int64(from.Ndev())
	for i := 0; i < from.Ndev(); i++ {
		concat.SetInputSize(i, chunkSize)
	}

	if err := tgt.Emit(axis); err != nil {
		return nil, err
	}
	if err := tgt.Emit(concat); err != nil {
		return nil, err
	}

	out := make([]string, to.Ndev())
	for i := range out {
		out[i] = concat.Name
	}
	return out, nil
}
