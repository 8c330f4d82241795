package transition

import (
	"strconv"

	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

// Split realizes a Full->Part transition: the producer's replica 0, on
// from's first device, is split along axis 0 into to.Ndev() chunks. Only
// the first full replica is read; splitting from every replica and
// reading the local copy is a possible future optimization, not
// implemented here.
func Split(t *model.Tensor, from, to form.Form, tgt *target.Target, opts Options) ([]string, error) {
	raw, err := Realize(t, from, tgt, opts)
	if err != nil {
		return nil, err
	}

	device, ok := tgt.DeviceString(from.Devices[0])
	if !ok {
		return nil, unknownDevice(from.Devices[0])
	}
	suffix := "/" + auxPrefix(t, to)

	dim := scalarInt32Const(t.Node, suffix+"/aux_split/dim", device, 0)

	split := t.Node.MakeAux("Split")
	split.Name += suffix + "/aux_split/split"
	split.Device = device
	split.Input = []string{dim.Name, raw[0]}
	dt, err := graphdef.InferDType(t.Node.Raw)
	if err != nil {
		return nil, err
	}
	split.SetAttr("T", graphdef.DTypeAttr(dt))
	split.SetAttr("num_split", graphdef.Int64Attr(int64(to.Ndev())))
	split.SetInputSize(1, t.Size(opts.ElementSizeBytes))

	if err := tgt.Emit(dim); err != nil {
		return nil, err
	}
	if err := tgt.Emit(split); err != nil {
		return nil, err
	}

	out := make([]string, to.Ndev())
	for i := range out {
		out[i] = graphdef.OutputRef(split.Name, i)
	}
	return out, nil
}

// auxPrefix is the "<port>_<toform>" segment shared by every auxiliary
// operator's name, e.g. "0_part_0_1".
func auxPrefix(t *model.Tensor, to form.Form) string {
	return strconv.Itoa(t.Port) + "_" + to.Code()
}
