package observer

import (
	"context"
	"fmt"
	"log"
	"os"
)

// NoOpObserver ignores every event; used as the zero-value default
// when no observer is configured.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// ConsoleObserver prints events to stdout/stderr, useful in development.
type ConsoleObserver struct {
	info  *log.Logger
	error *log.Logger
}

// NewConsoleObserver creates a ConsoleObserver writing to the standard streams.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		info:  log.New(os.Stdout, "[INFO] ", log.LstdFlags),
		error: log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
	}
}

func (o *ConsoleObserver) OnEvent(ctx context.Context, event Event) {
	msg := fmt.Sprintf("[%s] %s run=%s", event.Type, event.Status, event.RunID)
	switch event.Type {
	case EventPassComplete:
		if event.Error != nil {
			o.error.Printf("%s error=%v", msg, event.Error)
			return
		}
		o.info.Printf("%s elapsed=%s nodes=%d", msg, event.Elapsed, event.GraphNodes)
	case EventNodeCompiled:
		o.info.Printf("%s node=%s replicas=%d", msg, event.NodeName, event.Replicas)
	case EventAuxEmitted:
		o.info.Printf("%s builder=%s count=%d", msg, event.BuilderKind, event.AuxCount)
	default:
		o.info.Print(msg)
	}
}

// Manager fans a single Notify call out to every registered Observer,
// each running in its own goroutine so a slow or panicking observer
// can't stall or crash the compile pass.
type Manager struct {
	observers []Observer
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds an observer; nil observers are ignored.
func (m *Manager) Register(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// RegisterStrict adds an observer, returning ErrNilObserver instead of
// silently ignoring a nil argument the way Register does. Useful for
// callers building an observer list from configuration, where a nil
// entry indicates a wiring bug rather than an intentional no-op.
func (m *Manager) RegisterStrict(o Observer) error {
	if o == nil {
		return ErrNilObserver
	}
	m.observers = append(m.observers, o)
	return nil
}

// Notify delivers event to every registered observer.
func (m *Manager) Notify(ctx context.Context, event Event) {
	for _, o := range m.observers {
		obs := o
		go func() {
			defer func() { recover() }()
			obs.OnEvent(ctx, event)
		}()
	}
}

// HasObservers reports whether any observer is registered.
func (m *Manager) HasObservers() bool { return len(m.observers) > 0 }

// Count returns the number of registered observers.
func (m *Manager) Count() int { return len(m.observers) }
