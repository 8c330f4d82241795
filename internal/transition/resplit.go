package transition

import (
	"strconv"

	"github.com/tgecore/tge/internal/dtype"
	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

func gcd(a, b int) int {
	for a != b {
		if a > b {
			a -= b
		} else {
			b -= a
		}
	}
	return a
}

// Resplit realizes a Part->Part transition between two device sets
// with possibly different replica counts. It groups the from.Ndev()
// source chunks into g := gcd(from.Ndev(), to.Ndev()) intermediate
// concatenations, one per group, then re-splits each intermediate
// result into the group's share of the to.Ndev() output chunks.
func Resplit(t *model.Tensor, from, to form.Form, tgt *target.Target, opts Options) ([]string, error) {
	raw, err := Realize(t, from, tgt, opts)
	if err != nil {
		return nil, err
	}

	g := gcd(from.Ndev(), to.Ndev())
	fromGroup := from.Ndev() / g
	toGroup := to.Ndev() / g

	dt, err := graphdef.InferDType(t.Node.Raw)
	if err != nil {
		return nil, err
	}
	elemSize := t.Size(opts.ElementSizeBytes) / int64(from.Ndev())

	concatenated := make([]string, g)
	concatDevice := make([]string, g)
	for i := 0; i < g; i++ {
		chunk := raw[i*fromGroup : (i+1)*fromGroup]
		dest := from.Devices[i*fromGroup]
		device, ok := tgt.DeviceString(dest)
		if !ok {
			return nil, unknownDevice(dest)
		}
		concatDevice[i] = device

		base := "/" + auxPrefix(t, to) + "/aux_resplit_" + strconv.Itoa(i)
		axis := scalarInt32Const(t.Node, base+"/concat_axis", device, 0)

		concat := t.Node.MakeAux("ConcatV2")
		concat.Name += base + "/concat"
		concat.Device = device
		concat.Input = append(append([]string(nil), chunk...), axis.Name)
		concat.SetAttr("N", graphdef.Int64Attr(int64(len(chunk))))
		concat.SetAttr("T", graphdef.DTypeAttr(dt))
		concat.SetAttr("Tidx", graphdef.DTypeAttr(dtype.Int32))
		for j := range chunk {
			concat.SetInputSize(j, elemSize)
		}

		if err := tgt.Emit(axis); err != nil {
			return nil, err
		}
		if err := tgt.Emit(concat); err != nil {
			return nil, err
		}
		concatenated[i] = concat.Name
	}

	out := make([]string, 0, to.Ndev())
	for i := 0; i < g; i++ {
		device := concatDevice[i]
		base := "/" + auxPrefix(t, to) + "/aux_resplit_" + strconv.Itoa(i)

		dim := scalarInt32Const(t.Node, base+"/split_dim", device, 0)

		split := t.Node.MakeAux("Split")
		split.Name += base + "/split"
		split.Device = device
		split.Input = []string{dim.Name, concatenated[i]}
		split.SetAttr("T", graphdef.DTypeAttr(dt))
		split.SetAttr("num_split", graphdef.Int64Attr(int64(toGroup)))
		split.SetInputSize(1, elemSize*int64(fromGroup))

		if err := tgt.Emit(dim); err != nil {
			return nil, err
		}
		if err := tgt.Emit(split); err != nil {
			return nil, err
		}

		for j := 0; j < toGroup; j++ {
			out = append(out, graphdef.OutputRef(split.Name, j))
		}
	}
	return out, nil
}
