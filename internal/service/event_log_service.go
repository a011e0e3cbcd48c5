package service

import (
	"context"

	"ai-forge-be/internal/constant"
	"ai-forge-be/internal/pkg/logger"
	"ai-forge-be/pkg/events"
	pktNats "ai-forge-be/pkg/nats"
)

const eventLogDurable = "forge-event-log"

// EventLogService replays workspace events from NATS into the audit log
type EventLogService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewEventLogService(sub *pktNats.Subscriber, log logger.ILogger) *EventLogService {
	return &EventLogService{subscriber: sub, logger: log}
}

// Start begins listening to the event bus.
func (s *EventLogService) Start(ctx context.Context) {
	if err := s.subscriber.Subscribe(ctx, pktNats.Subject(">"), eventLogDurable, s.handleEvent); err != nil {
		s.logger.Error("EventLogService", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventLogService", "Event log started", nil)
}

func (s *EventLogService) handleEvent(ctx context.Context, event events.Event) error {
	details := map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}

	if event.EventType() == constant.EventGenerationFailed {
		s.logger.Warn("EventLogService", "Generation failed", details)
		return nil
	}
	s.logger.Info("EventLogService", "Workspace event", details)
	return nil
}
