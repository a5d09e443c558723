// Package events carries ticket lifecycle notifications in process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

const (
	TopicTicketReserved  = "ticket.reserved"
	TopicTicketConfirmed = "ticket.confirmed"
	TopicTicketCancelled = "ticket.cancelled"
)

// Topics lists every topic the booking core publishes.
var Topics = []string{TopicTicketReserved, TopicTicketConfirmed, TopicTicketCancelled}

type TicketEvent struct {
	TicketID   string    `json:"ticket_id"`
	ScheduleID string    `json:"schedule_id"`
	SeatID     string    `json:"seat_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is what the booking core needs. Events are published after commit.
type Publisher interface {
	Publish(ctx context.Context, topic string, event TicketEvent) error
}

type Handler func(ctx context.Context, event TicketEvent) error

// Bus is a watermill gochannel pub/sub.
type Bus struct {
	pubSub *gochannel.GoChannel
	log    *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	log = log.With(zap.String("component", "events"))
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, NewZapLoggerAdapter(log)),
		log:    log,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event TicketEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic until ctx is done. Handler errors are logged and
// the message is acked anyway; events are notifications, not commands.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			var event TicketEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.log.Error("Dropping malformed event", zap.Error(err), zap.String("topic", topic))
				msg.Ack()
				continue
			}

			if err := handler(ctx, event); err != nil {
				b.log.Error("Event handler failed",
					zap.Error(err),
					zap.String("topic", topic),
					zap.String("ticket_id", event.TicketID),
				)
			}
			msg.Ack()
		}
	}()

	return nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// AuditHandler writes every ticket event to the log.
func AuditHandler(log *zap.Logger, topic string) Handler {
	log = log.With(zap.String("component", "audit"))
	return func(ctx context.Context, event TicketEvent) error {
		log.Info("Ticket event",
			zap.String("topic", topic),
			zap.String("ticket_id", event.TicketID),
			zap.String("schedule_id", event.ScheduleID),
			zap.String("seat_id", event.SeatID),
			zap.String("status", event.Status),
			zap.Time("occurred_at", event.OccurredAt),
		)
		return nil
	}
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, TicketEvent) error { return nil }
