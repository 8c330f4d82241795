// Package target holds the compiled-graph sink: the append-only list of
// emitted operator definitions, the device table, and a link bandwidth
// table. The transition builders read only the device table; nothing in
// the engine reads the link table. It is grounded on the teacher's
// storage.Store pattern: a small mutex-guarded struct identified by a
// uuid-generated run ID.
package target

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tgecore/tge/internal/graphdef"
)

// Link describes the point-to-point bandwidth between two devices, in
// bytes/second. Devices not present in the table are assumed
// disconnected (communication between them must route through the host).
type Link struct {
	From, To int
	Bandwidth float64
}

// Target is the compile pass's output sink: every operator the node
// compiler and transition builders emit is appended here, in emission
// order. It also carries the device table the builders use to place
// auxiliary operators, and a link table set through SetLink.
type Target struct {
	mu sync.Mutex

	RunID string

	Devices []string // device index -> device string, e.g. "/device:GPU:0"
	links   map[[2]int]float64

	nodes []graphdef.Node
	names map[string]int
}

// New creates a Target over a fixed device table. The device table is
// immutable for the lifetime of a compile pass.
func New(devices []string) *Target {
	return &Target{
		RunID:   uuid.New().String(),
		Devices: append([]string(nil), devices...),
		links:   make(map[[2]int]float64),
		names:   make(map[string]int),
	}
}

// SetLink records the bandwidth between two devices. Bandwidth is
// symmetric: SetLink(a, b, bw) also defines the b->a link.
func (t *Target) SetLink(a, b int, bandwidth float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.links[[2]int{a, b}] = bandwidth
	t.links[[2]int{b, a}] = bandwidth
}

// Bandwidth returns the recorded bandwidth between two devices, or 0 if
// no link was configured (including a == b, which callers should treat
// as free/local rather than query here).
func (t *Target) Bandwidth(a, b int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.links[[2]int{a, b}]
}

// Emit appends a compiled operator definition to the sink. It is the
// only write path transition builders and the node compiler use; names
// must be unique within a single compile pass.
func (t *Target) Emit(n graphdef.Node) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.names[n.Name]; exists {
		return fmt.Errorf("target: duplicate emitted node name %q", n.Name)
	}
	t.names[n.Name] = len(t.nodes)
	t.nodes = append(t.nodes, n)
	return nil
}

// Nodes returns the emitted graph definition in emission order. The
// returned slice is owned by the caller; Target keeps emitting to its
// own backing array independently.
func (t *Target) Nodes() []graphdef.Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]graphdef.Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Len reports how many operators have been emitted so far.
func (t *Target) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// DeviceString returns the device string for an index, fatal-erroring
// (via ok=false) on an out-of-range index rather than panicking, since
// device indices often originate from user-supplied placement data.
func (t *Target) DeviceString(i int) (string, bool) {
	if i < 0 || i >= len(t.Devices) {
		return "", false
	}
	return t.Devices[i], true
}
