package transition

import (
	"strconv"

	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

// AllReduceNCCL realizes a Part->Full transition in place, requiring
// from and to to share the same device set: one NcclAllReduce node per
// device, all tagged with the same shared_name so the runtime groups
// them into a single collective, each fed by the producer's local chunk.
func AllReduceNCCL(t *model.Tensor, from, to form.Form, tgt *target.Target, opts Options) ([]string, error) {
	raw, err := Realize(t, from, tgt, opts)
	if err != nil {
		return nil, err
	}
	dt, err := graphdef.InferDType(t.Node.Raw)
	if err != nil {
		return nil, err
	}

	names := make([]string, from.Ndev())
	for i, dev := range from.Devices {
		device, ok := tgt.DeviceString(dev)
		if !ok {
			return nil, unknownDevice(dev)
		}

		nccl := t.Node.MakeAux("NcclAllReduce")
		nccl.Name += "/" + auxPrefix(t, to) + "/aux_nccl_" + strconv.Itoa(i)
		nccl.Device = device
		nccl.SetAttr("reduction", graphdef.StrAttr("sum"))
		nccl.SetAttr("T", graphdef.DTypeAttr(dt))
		nccl.SetAttr("num_devices", graphdef.Int64Attr(int64(from.Ndev())))
		nccl.SetAttr("shared_name", graphdef.StrAttr(t.OriginalName()))
		nccl.Input = []string{raw[i]}

		if err := tgt.Emit(nccl); err != nil {
			return nil, err
		}
		names[i] = nccl.Name
	}
	return names, nil
}
