package middleware

import (
	"fmt"
	"time"

	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
)

// TimeoutMiddleware bounds how long a single node's compilation may run.
// Compilation is ordinary CPU-bound work with no I/O, so a timeout only
// ever fires on a pathological node (e.g. a Resplit with a huge device
// count); it exists as a safety net, not a scheduling mechanism.
type TimeoutMiddleware struct {
	defaultTimeout time.Duration
}

// NewTimeoutMiddleware creates a TimeoutMiddleware enforcing timeout on
// every node. A timeout <= 0 disables enforcement.
func NewTimeoutMiddleware(timeout time.Duration) *TimeoutMiddleware {
	return &TimeoutMiddleware{defaultTimeout: timeout}
}

func (m *TimeoutMiddleware) Process(n *model.Node, next Handler) ([]graphdef.Node, error) {
	if m.defaultTimeout <= 0 {
		return next(n)
	}

	type result struct {
		ops []graphdef.Node
		err error
	}
	resultChan := make(chan result, 1)

	go func() {
		ops, err := next(n)
		resultChan <- result{ops: ops, err: err}
	}()

	select {
	case res := <-resultChan:
		return res.ops, res.err
	case <-time.After(m.defaultTimeout):
		return nil, fmt.Errorf("node %q: compilation timeout after %v", n.Raw.Name, m.defaultTimeout)
	}
}

func (m *TimeoutMiddleware) Name() string { return "Timeout" }
