package model

import (
	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
)

// Tensor is one (node, output-port) pair, created lazily by Node.Output.
// Its form cache is monotone: entries are added, never removed or
// replaced, for the lifetime of a single compile pass.
type Tensor struct {
	Node  *Node
	Port  int
	forms map[string][]string // keyed by form.Form.Code()

	// Ext is an opaque extension slot for external strategy code.
	Ext interface{}
}

func newTensor(n *Node, port int) *Tensor {
	return &Tensor{Node: n, Port: port, forms: make(map[string][]string)}
}

// OriginalName is "node" for port 0, else "node:k".
func (t *Tensor) OriginalName() string {
	return graphdef.OutputRef(t.Node.Raw.Name, t.Port)
}

// Shape reads the producer's _output_shapes attribute for this output
// port: a list(shape) attr holding one shape record per output port, in
// port order. A missing attribute, an out-of-range port, or a malformed
// record reports an empty shape (size annotations are advisory, per the
// design notes) rather than failing the pass.
func (t *Tensor) Shape() []int {
	v, ok := t.Node.Raw.GetAttr("_output_shapes")
	if !ok || v.Kind != graphdef.KindList {
		return nil
	}
	if t.Port >= len(v.List) {
		return nil
	}
	entry := v.List[t.Port]
	if entry.Kind != graphdef.KindTensor {
		return nil
	}
	return entry.Tensor.Shape
}

// Size returns product(shape) * elementSizeBytes, the engine's advisory
// byte-size annotation. The caller supplies elementSizeBytes (the spec's
// hard-coded 4-bytes-per-element assumption, made configurable).
func (t *Tensor) Size(elementSizeBytes int64) int64 {
	shape := t.Shape()
	if len(shape) == 0 {
		return 0
	}
	total := int64(1)
	for _, d := range shape {
		total *= int64(d)
	}
	return total * elementSizeBytes
}

// CachedForms returns the form codes currently present in the cache,
// for diagnostics and tests that assert on cache monotonicity.
func (t *Tensor) CachedForms() []string {
	codes := make([]string, 0, len(t.forms))
	for code := range t.forms {
		codes = append(codes, code)
	}
	return codes
}

// Lookup returns a cached realization for f, if present.
func (t *Tensor) Lookup(f form.Form) ([]string, bool) {
	names, ok := t.forms[f.Code()]
	return names, ok
}

// Store inserts a realization into the cache. It panics if an entry
// for this form already exists or if the length doesn't match f.Ndev():
// both are internal invariant violations, never caller-triggerable
// through normal use of transition.Realize.
func (t *Tensor) Store(f form.Form, names []string) {
	code := f.Code()
	if _, exists := t.forms[code]; exists {
		panic("model: tensor form cache is monotone; " + code + " already present")
	}
	if len(names) != f.Ndev() {
		panic("model: form realization length mismatch for " + code)
	}
	t.forms[code] = names
}

// IdentityNames returns the tensor's own-form realization: the
// original per-replica output names, with no auxiliary operators
// involved. This is what transition.Realize returns, cached, when the requested
// form equals the producer node's own form.
func (t *Tensor) IdentityNames() []string {
	n := t.Node.Form.Ndev()
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = graphdef.OutputRef(t.Node.Replica(i), t.Port)
	}
	return names
}
