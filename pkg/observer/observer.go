// Package observer implements the Observer pattern for the compile
// pass: library consumers register Observers to be notified of pass
// lifecycle and per-node/per-builder events without coupling the
// compiler to any particular logging or metrics backend.
package observer

import (
	"context"
	"time"
)

// EventType identifies the kind of compile-pass event.
type EventType string

const (
	EventPassStart    EventType = "pass_start"
	EventPassComplete EventType = "pass_complete"
	EventNodeCompiled EventType = "node_compiled"
	EventAuxEmitted   EventType = "aux_emitted"
)

// Status describes the outcome recorded on a completion event.
type Status string

const (
	StatusStarted   Status = "started"
	StatusSuccess   Status = "success"
	StatusFailure   Status = "failure"
	StatusCompleted Status = "completed"
)

// Event carries everything an Observer needs about one compile-pass
// occurrence; fields unrelated to the event's Type are left zero.
type Event struct {
	Type      EventType `json:"type"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`

	RunID string `json:"run_id"`

	// Node-level fields (EventNodeCompiled).
	NodeName string `json:"node_name,omitempty"`
	Replicas int     `json:"replicas,omitempty"`

	// Builder-level fields (EventAuxEmitted).
	BuilderKind string `json:"builder_kind,omitempty"`
	AuxCount    int    `json:"aux_count,omitempty"`

	// Pass-level fields (EventPassStart/EventPassComplete).
	GraphNodes int           `json:"graph_nodes,omitempty"`
	Elapsed    time.Duration `json:"elapsed,omitempty"`

	Error error `json:"-"`
}

// Observer receives compile-pass events.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
