package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-forge-be/internal/dto"
	"ai-forge-be/internal/pkg/logger"
	"ai-forge-be/internal/repository/memory"
	"ai-forge-be/internal/service"
	internalWS "ai-forge-be/internal/websocket"
	"ai-forge-be/pkg/events"
	"ai-forge-be/pkg/llm"
	"ai-forge-be/pkg/workspace"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentProvider struct{}

func (silentProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", nil
}

func (silentProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", nil
}

type discardPublisher struct{}

func (discardPublisher) Publish(ctx context.Context, payload []byte) error { return nil }

func newStreamHandler(t *testing.T, hub *internalWS.Hub) (*StreamHandler, service.IWorkspaceService) {
	t.Helper()
	log := logger.NewNopLogger()
	manager := workspace.NewManager(memory.NewSessionRepository(time.Hour, 0))
	controller := workspace.NewController(silentProvider{}, workspace.Settings{}, log)
	var sink events.Publisher
	svc := service.NewWorkspaceService(manager, controller, discardPublisher{}, sink, log)
	return NewStreamHandler(svc, hub, log), svc
}

func TestInitialFrame_LocalWorkspace(t *testing.T) {
	h, svc := newStreamHandler(t, internalWS.NewHub(nil, logger.NewNopLogger()))
	ctx := context.Background()

	ws, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.SetView(ctx, ws.Id, &dto.SetViewRequest{View: "docs"})
	require.NoError(t, err)

	since, frame, err := h.initialFrame(ctx, ws.Id)
	require.NoError(t, err)
	require.NotNil(t, frame)

	var msg dto.WorkspaceEventMessage
	require.NoError(t, json.Unmarshal(frame, &msg))
	assert.Equal(t, snapshotEvent, msg.Type)
	assert.Equal(t, ws.Id, msg.WorkspaceId)
	assert.Equal(t, "docs", msg.Workspace.ActiveView)
	assert.Equal(t, ws.Version+1, since)
	assert.Equal(t, since, msg.Version)
}

func TestInitialFrame_UnknownWorkspace(t *testing.T) {
	t.Run("single instance rejects", func(t *testing.T) {
		h, _ := newStreamHandler(t, internalWS.NewHub(nil, logger.NewNopLogger()))

		_, frame, err := h.initialFrame(context.Background(), uuid.New())
		assert.ErrorIs(t, err, service.ErrWorkspaceNotFound)
		assert.Nil(t, frame)
	})

	t.Run("clustered attaches without a frame", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
		t.Cleanup(func() { rdb.Close() })
		h, _ := newStreamHandler(t, internalWS.NewHub(rdb, logger.NewNopLogger()))

		since, frame, err := h.initialFrame(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Nil(t, frame)
		assert.Zero(t, since)
	})
}
