package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortly-go/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumerGroup wires one typed consumer per analytics topic into a group
// that persists events to store.
func NewConsumerGroup(subscriber message.Subscriber, store Store, logger *zap.Logger) *messaging.ConsumerGroup {
	group := messaging.NewConsumerGroup(subscriber, logger)

	group.Add(messaging.NewConsumer[LinkCreatedEvent](subscriber, TopicLinkCreated, store.SaveLinkCreated, logger))
	group.Add(messaging.NewConsumer[LinkResolvedEvent](subscriber, TopicLinkResolved, store.SaveLinkResolved, logger))

	return group
}
