package transition

import (
	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

// AggregateSum realizes a Part->Full transition with an AddN reduction
// instead of a concat — valid only when the partitioned chunks are
// summands of the same shape (e.g. partial gradients), selected by the
// caller's reduction preference rather than inferred from the op.
func AggregateSum(t *model.Tensor, from, to form.Form, tgt *target.Target, opts Options) ([]string, error) {
	raw, err := Realize(t, from, tgt, opts)
	if err != nil {
		return nil, err
	}

	device, ok := tgt.DeviceString(to.Devices[0])
	if !ok {
		return nil, unknownDevice(to.Devices[0])
	}

	addn := t.Node.MakeAux("AddN")
	addn.Name += "/" + auxPrefix(t, to) + "/aux_sum"
	addn.Device = device
	addn.Input = append([]string(nil), raw...)
	dt, err := graphdef.InferDType(t.Node.Raw)
	if err != nil {
		return nil, err
	}
	addn.SetAttr("N", graphdef.Int64Attr(int64(from.Ndev())))
	addn.SetAttr("T", graphdef.DTypeAttr(dt))
	chunkSize := t.Size(opts.ElementSizeBytes) / int64(from.Ndev())
	for i := 0; i < from.Ndev(); i++ {
		addn.SetInputSize(i, chunkSize)
	}

	if err := tgt.Emit(addn); err != nil {
		return nil, err
	}

	out := make([]string, to.Ndev())
	for i := range out {
		out[i] = addn.Name
	}
	return out, nil
}
