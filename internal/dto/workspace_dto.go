package dto

import (
	"time"

	"github.com/google/uuid"
)

type TurnResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Synthetic bool      `json:"synthetic"`
}

// ContextItemResponse omits the payload; uploads can be large
type ContextItemResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	MediaType string    `json:"media_type"`
	ByteSize  int64     `json:"byte_size"`
	IsText    bool      `json:"is_text"`
}

type ArtifactsResponse struct {
	SourceListing   string `json:"source_listing"`
	PreviewArtifact string `json:"preview_artifact"`
}

type WorkspaceResponse struct {
	Id         uuid.UUID             `json:"id"`
	Turns      []TurnResponse        `json:"turns"`
	Context    []ContextItemResponse `json:"context"`
	Artifacts  ArtifactsResponse     `json:"artifacts"`
	Generating bool                  `json:"generating"`
	ActiveView string                `json:"active_view"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	Version    uint64                `json:"version"`
}

// SubmitTurnRequest carries the user prompt. A blank prompt is ignored, not rejected.
type SubmitTurnRequest struct {
	Prompt string `json:"prompt"`
}

type SubmitTurnResponse struct {
	Accepted  bool               `json:"accepted"`
	Workspace *WorkspaceResponse `json:"workspace"`
}

type AddTextContextRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	MediaType string `json:"media_type"`
	Content   string `json:"content"`
}

type SetViewRequest struct {
	View string `json:"view" validate:"required,oneof=preview source docs"`
}

type StatsResponse struct {
	FilesUploaded   int    `json:"files_uploaded"`
	ContextBytes    int64  `json:"context_bytes"`
	Turns           int    `json:"turns"`
	EstimatedTokens int    `json:"estimated_tokens"`
	Engine          string `json:"engine"`
}

// WorkspaceEventMessage is the bus payload pushed to websocket clients.
// Clients and the hub drop frames whose version is not newer than the last one seen.
type WorkspaceEventMessage struct {
	Type        string             `json:"type"`
	WorkspaceId uuid.UUID          `json:"workspace_id"`
	Version     uint64             `json:"version"`
	Workspace   *WorkspaceResponse `json:"data"`
	OccurredAt  time.Time          `json:"occurred_at"`
}
