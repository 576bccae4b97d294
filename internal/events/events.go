// Package events publishes domain events to the message broker and consumes
// the ones that need background work.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tubeshare/apiserver/internal/mq"
)

const (
	VideoCreated   = "video.created"
	VideoUpdated   = "video.updated"
	VideoDeleted   = "video.deleted"
	CommentCreated = "comment.created"
	CommentDeleted = "comment.deleted"
	ChannelCreated = "channel.created"
)

// Event is the JSON payload published for every domain change.
type Event struct {
	Type       string    `json:"type"`
	ActorID    int       `json:"actor_id"`
	VideoID    int       `json:"video_id,omitempty"`
	CommentID  int       `json:"comment_id,omitempty"`
	ChannelID  int       `json:"channel_id,omitempty"`
	ObjectKeys []string  `json:"object_keys,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends events through an MQ. A nil MQ turns it into a no-op.
type Publisher struct {
	queue  *mq.MQ
	logger *slog.Logger
}

func NewPublisher(queue *mq.MQ, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{queue: queue, logger: logger}
}

// Publish sends event on the channel named after its type. Failures are
// logged and never returned; the originating change is already committed.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil || p.queue == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal event failed", "type", event.Type, "error", err)
		return
	}

	id, err := p.queue.Publish(ctx, event.Type, data, map[string]string{"type": event.Type})
	if err != nil {
		p.logger.WarnContext(ctx, "publish event failed", "type", event.Type, "error", err)
		return
	}
	p.logger.DebugContext(ctx, "event published", "type", event.Type, "message_id", id)
}

// Decode parses an event published by Publisher.
func Decode(msg mq.Message) (Event, error) {
	var event Event
	err := json.Unmarshal(msg.Data, &event)
	return event, err
}
