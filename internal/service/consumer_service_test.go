package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ai-forge-be/internal/dto"
	"ai-forge-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu       sync.Mutex
	sent     map[uuid.UUID][][]byte
	versions []uint64
}

func (d *recordingDelivery) Send(workspaceID uuid.UUID, version uint64, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[workspaceID] = append(d.sent[workspaceID], data)
	d.versions = append(d.versions, version)
}

func (d *recordingDelivery) count(id uuid.UUID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent[id])
}

func TestConsumerService_ForwardsToDelivery(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	delivery := &recordingDelivery{sent: map[uuid.UUID][][]byte{}}
	consumer := NewConsumerService(pubSub, "workspace.updated", delivery, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("workspace.updated", pubSub)
	id := uuid.New()
	payload, _ := json.Marshal(dto.WorkspaceEventMessage{Type: "view.changed", WorkspaceId: id, Version: 7})

	require.NoError(t, publisher.Publish(ctx, []byte("garbage")))
	require.NoError(t, publisher.Publish(ctx, payload))

	assert.Eventually(t, func() bool { return delivery.count(id) == 1 }, time.Second, 10*time.Millisecond)
	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	assert.JSONEq(t, string(payload), string(delivery.sent[id][0]))
	assert.Equal(t, []uint64{7}, delivery.versions, "version is read from the payload")
}
