package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a transcript turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// View is the panel the client should display
type View string

const (
	ViewPreview View = "preview"
	ViewSource  View = "source"
	ViewDocs    View = "docs"
)

// ParseView validates a client supplied view name
func ParseView(v string) (View, bool) {
	switch View(v) {
	case ViewPreview, ViewSource, ViewDocs:
		return View(v), true
	}
	return "", false
}

// Turn is one immutable message of the transcript.
// Synthetic turns (greeting, error notices) are shown to the user but never
// sent back to the completion provider as history.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Synthetic bool      `json:"synthetic,omitempty"`
}

// DerivedArtifacts is the latest successfully extracted code state
type DerivedArtifacts struct {
	SourceListing   string `json:"source_listing"`
	PreviewArtifact string `json:"preview_artifact"`
}

// Workspace is the whole state of one browser session.
// Callers must hold the lock while reading or mutating it.
type Workspace struct {
	sync.Mutex

	ID           uuid.UUID
	Context      ContextStore
	Conversation Conversation
	Artifacts    DerivedArtifacts
	Generating   bool
	ActiveView   View
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// Version increases with every change, so observers can order snapshots
	// that are published after the lock is released.
	Version uint64
}

// NewWorkspace creates an empty workspace showing the preview panel
func NewWorkspace(now time.Time) *Workspace {
	return &Workspace{
		ID:         uuid.New(),
		ActiveView: ViewPreview,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch records a change made at now. The lock must be held.
func (w *Workspace) Touch(now time.Time) {
	w.UpdatedAt = now
	w.Version++
}

// Snapshot is a detached copy of a workspace, safe to use without the lock
type Snapshot struct {
	ID         uuid.UUID
	Context    []ContextItem
	Turns      []Turn
	Artifacts  DerivedArtifacts
	Generating bool
	ActiveView View
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    uint64
}

// Snapshot copies the current state. The lock must be held.
func (w *Workspace) Snapshot() Snapshot {
	return Snapshot{
		ID:         w.ID,
		Context:    w.Context.Snapshot(),
		Turns:      w.Conversation.Snapshot(),
		Artifacts:  w.Artifacts,
		Generating: w.Generating,
		ActiveView: w.ActiveView,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
		Version:    w.Version,
	}
}
