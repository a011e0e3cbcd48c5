package mapper

import (
	"ai-forge-be/internal/dto"
	"ai-forge-be/pkg/store"
)

type WorkspaceMapper struct{}

func NewWorkspaceMapper() *WorkspaceMapper {
	return &WorkspaceMapper{}
}

func (m *WorkspaceMapper) SnapshotToResponse(s store.Snapshot) *dto.WorkspaceResponse {
	turns := make([]dto.TurnResponse, len(s.Turns))
	for i, t := range s.Turns {
		turns[i] = dto.TurnResponse{
			Role:      string(t.Role),
			Text:      t.Text,
			Timestamp: t.Timestamp,
			Synthetic: t.Synthetic,
		}
	}

	items := make([]dto.ContextItemResponse, len(s.Context))
	for i, item := range s.Context {
		items[i] = m.ContextItemToResponse(item)
	}

	return &dto.WorkspaceResponse{
		Id:      s.ID,
		Turns:   turns,
		Context: items,
		Artifacts: dto.ArtifactsResponse{
			SourceListing:   s.Artifacts.SourceListing,
			PreviewArtifact: s.Artifacts.PreviewArtifact,
		},
		Generating: s.Generating,
		ActiveView: string(s.ActiveView),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		Version:    s.Version,
	}
}

func (m *WorkspaceMapper) ContextItemToResponse(item store.ContextItem) dto.ContextItemResponse {
	return dto.ContextItemResponse{
		Id:        item.ID,
		Name:      item.Name,
		MediaType: item.MediaType,
		ByteSize:  item.ByteSize,
		IsText:    item.IsText,
	}
}
