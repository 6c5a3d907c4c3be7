package messaging

import (
	"context"
	"fmt"
	"time"

	"nutricoach-be/pkg/events"
)

// EventPublisher is satisfied by pkg/nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// NatsSender hands messages to the chat gateway through events.COACH_MESSAGE.
type NatsSender struct {
	publisher EventPublisher
	now       func() time.Time
}

func NewNatsSender(publisher EventPublisher) *NatsSender {
	return &NatsSender{publisher: publisher, now: time.Now}
}

func (s *NatsSender) Send(ctx context.Context, externalUserID string, msg Message) error {
	event := events.NewCoachMessage(externalUserID, msg.Category, msg.Title, msg.Body, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish coach message: %w", err)
	}
	return nil
}
