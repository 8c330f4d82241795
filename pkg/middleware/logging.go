package middleware

import (
	"time"

	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/pkg/logging"
)

// LoggingMiddleware logs a node's compilation start and completion,
// including its elapsed time and emitted-operator count.
type LoggingMiddleware struct {
	logger *logging.Logger
}

// NewLoggingMiddleware creates a LoggingMiddleware writing through logger.
func NewLoggingMiddleware(logger *logging.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

func (m *LoggingMiddleware) Process(n *model.Node, next Handler) ([]graphdef.Node, error) {
	nodeLogger := m.logger.WithNode(n.Raw.Name).WithForm(n.Form.Code())
	nodeLogger.Debug("node compilation started")
	start := time.Now()

	out, err := next(n)
	elapsed := time.Since(start)

	if err != nil {
		nodeLogger.WithError(err).WithField("duration_ms", elapsed.Milliseconds()).Error("node compilation failed")
	} else {
		nodeLogger.WithField("duration_ms", elapsed.Milliseconds()).WithField("ops_emitted", len(out)).Debug("node compilation completed")
	}
	return out, err
}

func (m *LoggingMiddleware) Name() string { return "Logging" }
