package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tubeshare/apiserver/internal/mq"
	"github.com/tubeshare/apiserver/internal/storage"
)

// Cleaner removes stored media that belonged to deleted videos.
type Cleaner struct {
	queue   *mq.MQ
	storage *storage.Storage
	logger  *slog.Logger
}

func NewCleaner(queue *mq.MQ, objects *storage.Storage, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{queue: queue, storage: objects, logger: logger}
}

// Run consumes video.deleted events until ctx is cancelled.
func (c *Cleaner) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "media cleaner started", "channel", VideoDeleted)
	return c.queue.Subscribe(ctx, VideoDeleted, c.Handle)
}

// Handle deletes every object key carried by a video.deleted event.
// Malformed payloads are acknowledged and logged so they are not redelivered.
func (c *Cleaner) Handle(ctx context.Context, msg mq.Message) error {
	event, err := Decode(msg)
	if err != nil {
		c.logger.WarnContext(ctx, "dropping malformed event", "message_id", msg.ID, "error", err)
		return nil
	}
	if event.Type != VideoDeleted {
		return nil
	}

	for _, key := range event.ObjectKeys {
		if err := c.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete object %s: %w", key, err)
		}
		c.logger.InfoContext(ctx, "media object removed", "video_id", event.VideoID, "key", key)
	}
	return nil
}
