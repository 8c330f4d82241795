package transition

import (
	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/internal/target"
)

// Broadcast realizes a Full->Full transition with no auxiliary
// operators: every device in to.Devices already holds (or can reuse) a
// replica from from.Devices. A device requested in `to` that isn't
// present in `from` falls back to replica 0 — the consumer's framework
// is responsible for an actual cross-device copy when it reads a name
// placed on a different device.
func Broadcast(t *model.Tensor, from, to form.Form, tgt *target.Target, opts Options) ([]string, error) {
	raw, err := Realize(t, from, tgt, opts)
	if err != nil {
		return nil, err
	}

	out := make([]string, to.Ndev())
	for i, dev := range to.Devices {
		idx := indexOf(from.Devices, dev)
		if idx < 0 {
			idx = 0
		}
		out[i] = raw[idx]
	}
	return out, nil
}

func indexOf(devices []int, dev int) int {
	for i, d := range devices {
		if d == dev {
			return i
		}
	}
	return -1
}
