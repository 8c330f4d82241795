// Package form defines the distribution algebra used throughout the
// tensor-graph engine: every tensor lives on a device set either fully
// replicated or partitioned along axis 0.
package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the distribution kind of a Form.
type Kind int

const (
	// Full means every listed device holds an identical copy of the tensor.
	Full Kind = iota
	// Part means each listed device holds a contiguous axis-0 chunk; the
	// chunks concatenated in device-list order reconstruct the full tensor.
	Part
)

func (k Kind) String() string {
	if k == Full {
		return "full"
	}
	return "part"
}

// Form is the distribution of a tensor: a kind plus an ordered device
// list. A duplicate device index is legal and means two replicas
// co-located on that device. Forms compare by (Kind, Devices)
// lexicographically (see Less); model.Tensor's cache is keyed by Code,
// which is one-to-one with the form.
type Form struct {
	Kind    Kind
	Devices []int
}

// New builds a Form, copying the device slice so the caller's slice can
// be reused or mutated afterward.
func New(kind Kind, devices []int) Form {
	d := make([]int, len(devices))
	copy(d, devices)
	return Form{Kind: kind, Devices: d}
}

// IsFull reports whether the form is a full-replica form.
func (f Form) IsFull() bool { return f.Kind == Full }

// IsPart reports whether the form is a partitioned form.
func (f Form) IsPart() bool { return f.Kind == Part }

// Ndev returns the number of devices (and thus replicas) in the form.
func (f Form) Ndev() int { return len(f.Devices) }

// Valid reports whether the form has a non-empty device list.
func (f Form) Valid() bool { return len(f.Devices) > 0 }

// Code serializes the form as "full"|"part" followed by "_<dev>" per
// device, e.g. "part_0_1_2".
func (f Form) Code() string {
	var b strings.Builder
	b.WriteString(f.Kind.String())
	for _, d := range f.Devices {
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(d))
	}
	return b.String()
}

// FromCode parses a form code produced by Code. It panics on an
// unrecognized kind segment — malformed form codes are a programmer
// error per the fatal-error taxonomy, never a recoverable condition.
func FromCode(code string) Form {
	segs := strings.Split(code, "_")
	if len(segs) == 0 {
		panic(fmt.Sprintf("form: empty code"))
	}
	var kind Kind
	switch segs[0] {
	case "full":
		kind = Full
	case "part":
		kind = Part
	default:
		panic(fmt.Sprintf("form: unknown kind %q in code %q", segs[0], code))
	}
	devices := make([]int, 0, len(segs)-1)
	for _, s := range segs[1:] {
		d, err := strconv.Atoi(s)
		if err != nil {
			panic(fmt.Sprintf("form: bad device index %q in code %q", s, code))
		}
		devices = append(devices, d)
	}
	return Form{Kind: kind, Devices: devices}
}

// Equal reports whether two forms have the same kind and device list,
// in order (a Part form's device order is semantically significant).
func Equal(a, b Form) bool {
	if a.Kind != b.Kind || len(a.Devices) != len(b.Devices) {
		return false
	}
	for i := range a.Devices {
		if a.Devices[i] != b.Devices[i] {
			return false
		}
	}
	return true
}

// Less implements the total order (Kind, Devices) lexicographically,
// used wherever forms must be ranked deterministically (e.g. sorted
// diagnostics); the cache key used at runtime is Code, not Less.
func Less(a, b Form) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	n := len(a.Devices)
	if len(b.Devices) < n {
		n = len(b.Devices)
	}
	for i := 0; i < n; i++ {
		if a.Devices[i] != b.Devices[i] {
			return a.Devices[i] < b.Devices[i]
		}
	}
	return len(a.Devices) < len(b.Devices)
}

// SortedDevices returns a sorted copy of devices, used by callers that
// build a Form from an unordered device set (the device list itself is
// otherwise order-significant for Part forms and must not be re-sorted
// implicitly by New).
func SortedDevices(devices []int) []int {
	d := make([]int, len(devices))
	copy(d, devices)
	sort.Ints(d)
	return d
}
