package events

import (
	"context"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "generation.completed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to an external sink
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// WorkspaceEvent reports a state change of one workspace
type WorkspaceEvent struct {
	Kind        string
	WorkspaceID string
	Generating  bool
	ActiveView  string
	Turns       int
	OccurredAt  time.Time
}

func (e WorkspaceEvent) EventType() string {
	return e.Kind
}

func (e WorkspaceEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"workspace_id": e.WorkspaceID,
		"generating":   e.Generating,
		"active_view":  e.ActiveView,
		"turns":        e.Turns,
		"occurred_at":  e.OccurredAt.Format(time.RFC3339Nano),
	}
}

func (e WorkspaceEvent) Timestamp() time.Time {
	return e.OccurredAt
}
