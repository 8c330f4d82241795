package observer

import (
	"context"

	"github.com/tgecore/tge/pkg/logging"
)

// LoggingObserver routes compile-pass events through a logging.Logger,
// the default Observer a caller gets when it wants pass progress in its
// existing structured-log stream instead of stdout/stderr text.
type LoggingObserver struct {
	logger *logging.Logger
}

// NewLoggingObserver creates a LoggingObserver writing through logger.
func NewLoggingObserver(logger *logging.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) OnEvent(ctx context.Context, event Event) {
	l := o.logger.WithRunID(event.RunID).WithField("status", string(event.Status))

	switch event.Type {
	case EventPassStart:
		l.WithField("graph_nodes", event.GraphNodes).Info("compile pass started")
	case EventPassComplete:
		l = l.WithField("graph_nodes", event.GraphNodes).WithField("duration_ms", event.Elapsed.Milliseconds())
		if event.Error != nil {
			l.WithError(event.Error).Error("compile pass failed")
			return
		}
		l.Info("compile pass completed")
	case EventNodeCompiled:
		l.WithNode(event.NodeName).WithField("replicas", event.Replicas).Debug("node compiled")
	case EventAuxEmitted:
		l.WithField("builder", event.BuilderKind).WithField("aux_count", event.AuxCount).Debug("auxiliary operators emitted")
	}
}
