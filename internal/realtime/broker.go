// Package realtime fans out report change notifications to live subscribers.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const TopicReportsChanged = "reports.changed"

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
)

// ReportEvent announces that a report document changed.
type ReportEvent struct {
	Type       EventType  `json:"type"`
	ReportID   uuid.UUID  `json:"report_id"`
	ReporterID *uuid.UUID `json:"reporter_id,omitempty"`
}

// Broker is an in-process pub/sub for report events.
type Broker struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewBroker(logger *slog.Logger) *Broker {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))
	return &Broker{pubSub: pubSub, logger: logger}
}

func (b *Broker) Publish(event ReportEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode report event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(TopicReportsChanged, msg); err != nil {
		return fmt.Errorf("failed to publish report event: %w", err)
	}
	return nil
}

// Subscribe streams report events until ctx is cancelled, after which the
// returned channel is closed.
func (b *Broker) Subscribe(ctx context.Context) (<-chan ReportEvent, error) {
	messages, err := b.pubSub.Subscribe(ctx, TopicReportsChanged)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to report events: %w", err)
	}

	out := make(chan ReportEvent)
	go func() {
		defer close(out)
		for msg := range messages {
			var event ReportEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Error("dropping malformed report event", "error", err, "message_id", msg.UUID)
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- event:
			case <-ctx.Done():
				// drain so the publisher side is never left waiting on an ack
				for m := range messages {
					m.Ack()
				}
				return
			}
		}
	}()
	return out, nil
}

func (b *Broker) Close() error {
	return b.pubSub.Close()
}
