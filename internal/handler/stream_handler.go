package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-forge-be/internal/constant"
	"ai-forge-be/internal/dto"
	"ai-forge-be/internal/pkg/logger"
	"ai-forge-be/internal/service"
	internalWS "ai-forge-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// snapshotEvent is the type of the first frame, sent on connect
const snapshotEvent = "workspace.snapshot"

type StreamHandler struct {
	service service.IWorkspaceService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewStreamHandler(service service.IWorkspaceService, hub *internalWS.Hub, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades the request and streams every change of one workspace.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid workspace id")
	}

	since, initial, err := h.initialFrame(c.UserContext(), id)
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("StreamHandler", "Starting WebSocket session", map[string]interface{}{
			"workspace_id": id.String(),
			"local":        initial != nil,
		})
		internalWS.ServeWs(h.hub, conn, id, since, initial)
		h.logger.Info("StreamHandler", "WebSocket session ended", map[string]interface{}{"workspace_id": id.String()})
	})(c)
}

// initialFrame builds the first frame of a session and its version.
// A workspace held by another instance is only reachable through the cluster
// channel: it gets no initial frame, its first update plays that role.
func (h *StreamHandler) initialFrame(ctx context.Context, id uuid.UUID) (uint64, []byte, error) {
	state, err := h.service.Show(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) && h.hub.Clustered() {
			return 0, nil, nil
		}
		return 0, nil, err
	}

	initial, err := json.Marshal(dto.WorkspaceEventMessage{
		Type:        snapshotEvent,
		WorkspaceId: id,
		Version:     state.Version,
		Workspace:   state,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		return 0, nil, err
	}
	return state.Version, initial, nil
}

// RegisterRoutes registers the live update route.
func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get(constant.WorkspaceRoutePrefix+"/:id/ws", h.ServeWs)
}
