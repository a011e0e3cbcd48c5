package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-forge-be/internal/dto"
	"ai-forge-be/internal/mapper"
	"ai-forge-be/internal/pkg/logger"
	"ai-forge-be/pkg/events"
	"ai-forge-be/pkg/ingest"
	"ai-forge-be/pkg/store"
	"ai-forge-be/pkg/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	ErrWorkspaceNotFound   = fiber.NewError(fiber.StatusNotFound, "workspace not found")
	ErrContextItemNotFound = fiber.NewError(fiber.StatusNotFound, "context item not found")
	ErrInvalidView         = fiber.NewError(fiber.StatusBadRequest, "view must be one of preview, source, docs")
	ErrPreviewEmpty        = fiber.NewError(fiber.StatusNotFound, "no preview generated yet")
	ErrNoFiles             = fiber.NewError(fiber.StatusBadRequest, "no files uploaded")
)

const externalPublishTimeout = 5 * time.Second

type IWorkspaceService interface {
	Create(ctx context.Context) (*dto.WorkspaceResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.WorkspaceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SubmitTurn(ctx context.Context, id uuid.UUID, req *dto.SubmitTurnRequest, wait bool) (*dto.SubmitTurnResponse, error)
	AddContext(ctx context.Context, id uuid.UUID, files []ingest.File) ([]dto.ContextItemResponse, error)
	AddTextContext(ctx context.Context, id uuid.UUID, req *dto.AddTextContextRequest) (*dto.ContextItemResponse, error)
	RemoveContext(ctx context.Context, id uuid.UUID, itemId uuid.UUID) error
	SetView(ctx context.Context, id uuid.UUID, req *dto.SetViewRequest) (*dto.WorkspaceResponse, error)
	Preview(ctx context.Context, id uuid.UUID) (string, error)
	Source(ctx context.Context, id uuid.UUID) (string, error)
	Stats(ctx context.Context, id uuid.UUID) (*dto.StatsResponse, error)
}

type workspaceService struct {
	manager          *workspace.Manager
	controller       *workspace.Controller
	publisherService IPublisherService
	eventPublisher   events.Publisher // optional external sink
	mapper           *mapper.WorkspaceMapper
	logger           logger.ILogger
}

func NewWorkspaceService(
	manager *workspace.Manager,
	controller *workspace.Controller,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IWorkspaceService {
	s := &workspaceService{
		manager:          manager,
		controller:       controller,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		mapper:           mapper.NewWorkspaceMapper(),
		logger:           log,
	}
	controller.OnChange(s.onChange)
	return s
}

func (s *workspaceService) load(id uuid.UUID) (*store.Workspace, error) {
	ws, ok := s.manager.Load(id.String())
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

func (s *workspaceService) snapshot(ws *store.Workspace) *dto.WorkspaceResponse {
	ws.Lock()
	snap := ws.Snapshot()
	ws.Unlock()
	return s.mapper.SnapshotToResponse(snap)
}

func (s *workspaceService) Create(ctx context.Context) (*dto.WorkspaceResponse, error) {
	ws := s.manager.Create()
	s.logger.Info("WorkspaceService", "Workspace created", map[string]interface{}{"workspace_id": ws.ID.String()})
	return s.snapshot(ws), nil
}

func (s *workspaceService) Show(ctx context.Context, id uuid.UUID) (*dto.WorkspaceResponse, error) {
	ws, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ws), nil
}

func (s *workspaceService) Delete(ctx context.Context, id uuid.UUID) error {
	if !s.manager.Delete(id.String()) {
		return ErrWorkspaceNotFound
	}
	s.logger.Info("WorkspaceService", "Workspace deleted", map[string]interface{}{"workspace_id": id.String()})
	return nil
}

func (s *workspaceService) SubmitTurn(ctx context.Context, id uuid.UUID, req *dto.SubmitTurnRequest, wait bool) (*dto.SubmitTurnResponse, error) {
	ws, err := s.load(id)
	if err != nil {
		return nil, err
	}

	pending, accepted := s.controller.Submit(ws, req.Prompt)
	if !accepted {
		s.logger.Debug("WorkspaceService", "Submission ignored", map[string]interface{}{"workspace_id": id.String()})
		return &dto.SubmitTurnResponse{Accepted: false, Workspace: s.snapshot(ws)}, nil
	}

	if wait {
		if _, err := pending.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return &dto.SubmitTurnResponse{Accepted: true, Workspace: s.snapshot(ws)}, nil
}

func (s *workspaceService) AddContext(ctx context.Context, id uuid.UUID, files []ingest.File) ([]dto.ContextItemResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	ws, err := s.load(id)
	if err != nil {
		return nil, err
	}

	items := make([]store.ContextItem, len(files))
	res := make([]dto.ContextItemResponse, len(files))
	for i, f := range files {
		items[i] = ingest.Ingest(f)
		res[i] = s.mapper.ContextItemToResponse(items[i])
	}
	s.controller.AddContext(ws, items...)

	s.logger.Info("WorkspaceService", "Context items added", map[string]interface{}{"workspace_id": id.String(), "count": len(items)})
	return res, nil
}

func (s *workspaceService) AddTextContext(ctx context.Context, id uuid.UUID, req *dto.AddTextContextRequest) (*dto.ContextItemResponse, error) {
	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = "text/plain"
	}
	res, err := s.AddContext(ctx, id, []ingest.File{{Name: req.Name, MediaType: mediaType, Data: []byte(req.Content)}})
	if err != nil {
		return nil, err
	}
	return &res[0], nil
}

func (s *workspaceService) RemoveContext(ctx context.Context, id uuid.UUID, itemId uuid.UUID) error {
	ws, err := s.load(id)
	if err != nil {
		return err
	}
	if !s.controller.RemoveContext(ws, itemId) {
		return ErrContextItemNotFound
	}
	return nil
}

func (s *workspaceService) SetView(ctx context.Context, id uuid.UUID, req *dto.SetViewRequest) (*dto.WorkspaceResponse, error) {
	view, ok := store.ParseView(req.View)
	if !ok {
		return nil, ErrInvalidView
	}
	ws, err := s.load(id)
	if err != nil {
		return nil, err
	}
	s.controller.SetView(ws, view)
	return s.snapshot(ws), nil
}

func (s *workspaceService) Preview(ctx context.Context, id uuid.UUID) (string, error) {
	ws, err := s.load(id)
	if err != nil {
		return "", err
	}
	ws.Lock()
	preview := ws.Artifacts.PreviewArtifact
	ws.Unlock()

	if preview == "" {
		return "", ErrPreviewEmpty
	}
	return preview, nil
}

func (s *workspaceService) Source(ctx context.Context, id uuid.UUID) (string, error) {
	ws, err := s.load(id)
	if err != nil {
		return "", err
	}
	ws.Lock()
	defer ws.Unlock()
	return ws.Artifacts.SourceListing, nil
}

func (s *workspaceService) Stats(ctx context.Context, id uuid.UUID) (*dto.StatsResponse, error) {
	ws, err := s.load(id)
	if err != nil {
		return nil, err
	}
	st := s.controller.Stats(ws)
	return &dto.StatsResponse{
		FilesUploaded:   st.FilesUploaded,
		ContextBytes:    st.ContextBytes,
		Turns:           st.Turns,
		EstimatedTokens: st.EstimatedTokens,
		Engine:          st.Engine,
	}, nil
}

// onChange fans a state change out to live clients and the external sink
func (s *workspaceService) onChange(kind string, snap store.Snapshot) {
	now := time.Now()
	msg := dto.WorkspaceEventMessage{
		Type:        kind,
		WorkspaceId: snap.ID,
		Version:     snap.Version,
		Workspace:   s.mapper.SnapshotToResponse(snap),
		OccurredAt:  now,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("WorkspaceService", "Failed to marshal workspace event", map[string]interface{}{"error": err})
		return
	}

	ctx := context.Background()
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("WorkspaceService", "Failed to publish workspace event", map[string]interface{}{"type": kind, "error": err.Error()})
	}

	if s.eventPublisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, externalPublishTimeout)
	defer cancel()
	err = s.eventPublisher.Publish(ctx, events.WorkspaceEvent{
		Kind:        kind,
		WorkspaceID: snap.ID.String(),
		Generating:  snap.Generating,
		ActiveView:  string(snap.ActiveView),
		Turns:       len(snap.Turns),
		OccurredAt:  now,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("WorkspaceService", "Failed to publish external event", map[string]interface{}{"type": kind, "error": err.Error()})
	}
}
