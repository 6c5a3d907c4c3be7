// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process task topic. Today its only task is
// dropping a member's cached recommendation after a meal is logged.
type consumerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	recommendations *coach.RecommendationCache
	logger          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	recommendations *coach.RecommendationCache,
	l logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		topicName:       topicName,
		recommendations: recommendations,
		logger:          l,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.InvalidateRecommendationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	if err := cs.recommendations.Invalidate(ctx, payload.MemberId); err != nil {
		cs.logger.Warn("CONSUMER", "Failed to invalidate recommendation", map[string]interface{}{
			"member_id": payload.MemberId.String(),
			"error":     err.Error(),
		})
		// Best effort: the cached row goes stale at local midnight regardless.
		msg.Ack()
		return
	}

	cs.logger.Debug("CONSUMER", "Recommendation invalidated", map[string]interface{}{
		"member_id": payload.MemberId.String(),
		"reason":    payload.Reason,
	})
	msg.Ack()
}
