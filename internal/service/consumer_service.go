package service

import (
	"context"
	"encoding/json"

	"ai-forge-be/internal/dto"
	"ai-forge-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// WorkspaceDelivery pushes serialized updates to live clients.
// Implemented by the websocket hub, which drops versions older than the
// newest one it already delivered for the workspace.
type WorkspaceDelivery interface {
	Send(workspaceID uuid.UUID, version uint64, data []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   WorkspaceDelivery
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	delivery WorkspaceDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.WorkspaceEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal workspace event", map[string]interface{}{"error": err, "message_id": msg.UUID})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	cs.delivery.Send(payload.WorkspaceId, payload.Version, msg.Payload)
	cs.logger.Debug("ConsumerService", "Workspace event delivered", map[string]interface{}{
		"type":         payload.Type,
		"workspace_id": payload.WorkspaceId.String(),
		"version":      payload.Version,
	})
	msg.Ack()
}
