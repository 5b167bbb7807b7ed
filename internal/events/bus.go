// Package events carries committed draw_settings updates to connected
// display clients. Delivery is at-least-once and ordered only by commit
// order; displays that are offline during a transition catch up through the
// snapshot fetch on reconnect, not through replay.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/haivt/luckydraw-backend/internal/models"
)

// TopicDrawSettingsUpdated carries the full new row of every committed
// draw_settings mutation.
const TopicDrawSettingsUpdated = "draw_settings.updated"

// Bus is an in-process publish-subscribe channel for draw state changes
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewBus creates a new Bus
func NewBus(logger *slog.Logger) *Bus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16},
		watermill.NewSlogLogger(logger),
	)
	return &Bus{pubSub: pubSub, logger: logger}
}

// PublishSettings publishes the full settings row to all subscribers
func (b *Bus) PublishSettings(settings *models.DrawSettings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal draw settings: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(TopicDrawSettingsUpdated, msg); err != nil {
		return fmt.Errorf("failed to publish draw settings update: %w", err)
	}
	return nil
}

// Subscribe registers a new display subscriber. It returns a channel of
// settings rows and a cancel function that must be called when the
// subscriber disconnects.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *models.DrawSettings, context.CancelFunc, error) {
	subCtx, cancel := context.WithCancel(ctx)
	messages, err := b.pubSub.Subscribe(subCtx, TopicDrawSettingsUpdated)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan *models.DrawSettings, 16)
	go func() {
		defer close(out)
		for msg := range messages {
			var settings models.DrawSettings
			if err := json.Unmarshal(msg.Payload, &settings); err != nil {
				b.logger.Error("dropping malformed draw settings event", "error", err, "messageId", msg.UUID)
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- &settings:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return out, cancel, nil
}

// Close shuts down the bus and all subscriber channels
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
