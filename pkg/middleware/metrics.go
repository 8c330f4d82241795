package middleware

import (
	"context"

	"github.com/tgecore/tge/internal/graphdef"
	"github.com/tgecore/tge/internal/model"
	"github.com/tgecore/tge/pkg/telemetry"
)

// MetricsMiddleware records a node's compilation as it completes,
// through the provided telemetry.Provider.
type MetricsMiddleware struct {
	provider *telemetry.Provider
}

// NewMetricsMiddleware creates a MetricsMiddleware backed by provider.
func NewMetricsMiddleware(provider *telemetry.Provider) *MetricsMiddleware {
	return &MetricsMiddleware{provider: provider}
}

func (m *MetricsMiddleware) Process(n *model.Node, next Handler) ([]graphdef.Node, error) {
	out, err := next(n)
	if m.provider != nil && err == nil {
		m.provider.RecordNodeCompiled(context.Background(), n.Raw.Name, n.Form.Ndev())
	}
	return out, err
}

func (m *MetricsMiddleware) Name() string { return "Metrics" }
