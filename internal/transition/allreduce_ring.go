package transition

import (
	"strconv"

	"github.com/tgecore/tge/internal/dtype"
	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

// AllReduceRing realizes a Part->Full transition via a ring all-reduce:
// n-1 reduce-scatter rounds followed by n-1 all-gather rounds over n
// flattened, evenly chunked buffers, then reassembled to the original
// shape. Requires from and to to share the same device set.
func AllReduceRing(t *model.Tensor, from, to form.Form, tgt *target.Target, opts Options) ([]string, error) {
	raw, err := Realize(t, from, tgt, opts)
	if err != nil {
		return nil, err
	}

	n := from.Ndev()
	dt, err := graphdef.InferDType(t.Node.Raw)
	if err != nil {
		return nil, err
	}
	psize := t.Size(opts.ElementSizeBytes) / int64(n)

	devices := make([]string, n)
	for i, d := range from.Devices {
		dev, ok := tgt.DeviceString(d)
		if !ok {
			return nil, unknownDevice(d)
		}
		devices[i] = dev
	}

	base := "/" + auxPrefix(t, to) + "/aux_ring"

	// 1. record the pre-flatten shape so it can be restored at the end.
	shapes := make([]string, n)
	for i := 0; i < n; i++ {
		shape := t.Node.MakeAux("Shape")
		shape.Name += base + "/shape_" + strconv.Itoa(i)
		shape.Device = devices[i]
		shape.SetAttr("T", graphdef.DTypeAttr(dt))
		shape.Input = []string{raw[i]}
		shape.SetInputSize(0, psize)
		if err := tgt.Emit(shape); err != nil {
			return nil, err
		}
		shapes[i] = shape.Name
	}

	// 2. flatten each chunk to rank 1 so it can be evenly re-chunked.
	flats := make([]string, n)
	for i := 0; i < n; i++ {
		flatShape := t.Node.MakeAux("Const")
		flatShape.Name += base + "/flat_" + strconv.Itoa(i) + "/shape"
		flatShape.Device = devices[i]
		flatShape.SetAttr("dtype", graphdef.DTypeAttr(dtype.Int32))
		flatShape.SetAttr("value", graphdef.TensorAttr(graphdef.TensorConst{
			DType: dtype.Int32,
			Shape: []int{1},
			Int64: []int64{-1},
		}))

		flat := t.Node.MakeAux("Reshape")
		flat.Name += base + "/flat_" + strconv.Itoa(i) + "/flat"
		flat.Device = devices[i]
		flat.SetAttr("T", graphdef.DTypeAttr(dt))
		flat.Input = []string{raw[i], flatShape.Name}
		flat.SetInputSize(0, psize)

		if err := tgt.Emit(flatShape); err != nil {
			return nil, err
		}
		if err := tgt.Emit(flat); err != nil {
			return nil, err
		}
		flats[i] = flat.Name
	}

	// 3. chunk each flattened buffer into n pieces.
	chunks := make([][]string, n)
	for i := 0; i < n; i++ {
		dim := scalarInt32Const(t.Node, base+"/split_"+strconv.Itoa(i)+"/dim", devices[i], 0)

		split := t.Node.MakeAux("Split")
		split.Name += base + "/split_" + strconv.Itoa(i) + "/split"
		split.Device = devices[i]
		split.Input = []string{dim.Name, flats[i]}
		split.SetAttr("T", graphdef.DTypeAttr(dt))
		split.SetAttr("num_split", graphdef.Int64Attr(int64(n)))
		split.SetInputSize(1, psize)

		if err := tgt.Emit(dim); err != nil {
			return nil, err
		}
		if err := tgt.Emit(split); err != nil {
			return nil, err
		}

		row := make([]string, n)
		for x := 0; x < n; x++ {
			row[x] = graphdef.OutputRef(split.Name, x)
		}
		chunks[i] = row
	}

	// 4. n-1 reduce-scatter rounds: at round r, node i's (r+i)-th chunk
	// is replaced by the sum of its own and its right neighbor's.
	for round := 0; round < n-1; round++ {
		for i := 0; i < n; i++ {
			slot := (round + i) % n
			add := t.Node.MakeAux("Add")
			add.Name += base + "/add_" + strconv.Itoa(i) + "_" + strconv.Itoa(round)
			add.Device = devices[i]
			add.Input = []string{chunks[i][slot], chunks[(i+1)%n][slot]}
			add.SetAttr("T", graphdef.DTypeAttr(dt))
			add.SetInputSize(0, psize)
			add.SetInputSize(1, psize)
			if err := tgt.Emit(add); err != nil {
				return nil, err
			}
			chunks[i][slot] = add.Name
		}
	}

	// 5. n-1 all-gather rounds, propagating the fully-reduced chunks
	// around the ring.
	for round := 0; round < n-1; round++ {
		for i := 0; i < n; i++ {
			slot := (i + round + n - 1) % n
			identity := t.Node.MakeAux("Identity")
			identity.Name += base + "/identity_" + strconv.Itoa(i) + "_" + strconv.Itoa(round)
			identity.Device = devices[i]
			identity.SetAttr("T", graphdef.DTypeAttr(dt))
			identity.Input = []string{chunks[(i+1)%n][slot]}
			identity.SetInputSize(0, psize)
			if err := tgt.Emit(identity); err != nil {
				return nil, err
			}
			chunks[i][slot] = identity.Name
		}
	}

	// 6. concat each node's fully-reduced chunks back into one flat buffer.
	concatenated := make([]string, n)
	for i := 0; i < n; i++ {
		axis := scalarInt32Const(t.Node, base+"/concat_"+strconv.Itoa(i)+"/axis", devices[i], 0)

		concat := t.Node.MakeAux("ConcatV2")
		concat.Name += base + "/concat_" + strconv.Itoa(i) + "/concat"
		concat.Device = devices[i]
		concat.Input = append(append([]string(nil), chunks[i]...), axis.Name)
		concat.SetAttr("N", graphdef.Int64Attr(int64(n)))
		concat.SetAttr("T", graphdef.DTypeAttr(dt))
		concat.SetAttr("Tidx", graphdef.DTypeAttr(dtype.Int32))
		for j := 0; j < n; j++ {
			concat.SetInputSize(j, psize)
		}

		if err := tgt.Emit(axis); err != nil {
			return nil, err
		}
		if err := tgt.Emit(concat); err != nil {
			return nil, err
		}
		concatenated[i] = concat.Name
	}

	// 7. restore the original (pre-flatten) shape.
	out := make([]string, n)
	for i := 0; i < n; i++ {
		reshape := t.Node.MakeAux("Reshape")
		reshape.Name += base + "/reshape_" + strconv.Itoa(i)
		reshape.Device = devices[i]
		reshape.SetAttr("T", graphdef.DTypeAttr(dt))
		reshape.Input = []string{concatenated[i], shapes[i]}
		reshape.SetInputSize(0, psize)
		if err := tgt.Emit(reshape); err != nil {
			return nil, err
		}
		out[i] = reshape.Name
	}

	return out, nil
}
