package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkspaceEvent_Payload(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var e Event = WorkspaceEvent{
		Kind:        "generation.completed",
		WorkspaceID: "w-1",
		ActiveView:  "preview",
		Turns:       3,
		OccurredAt:  at,
	}

	assert.Equal(t, "generation.completed", e.EventType())
	assert.Equal(t, at, e.Timestamp())
	assert.Equal(t, map[string]interface{}{
		"workspace_id": "w-1",
		"generating":   false,
		"active_view":  "preview",
		"turns":        3,
		"occurred_at":  "2026-01-02T03:04:05Z",
	}, e.Payload())
}
