package events

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeshare/apiserver/internal/mq"
	"github.com/tubeshare/apiserver/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherNilQueueIsNoop(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() { p.Publish(context.Background(), Event{Type: VideoCreated}) })

	p = NewPublisher(nil, discardLogger())
	assert.NotPanics(t, func() { p.Publish(context.Background(), Event{Type: VideoCreated}) })
}

func TestPublisherAndCleaner(t *testing.T) {
	queue := mq.New(mq.NewMemoryBackend())
	objects := storage.NewMemoryClient("media")
	store := storage.NewStorage(objects)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, store.Put(ctx, "thumbnails/5/a.png", strings.NewReader("png"), 3, "image/png"))

	publisher := NewPublisher(queue, discardLogger())
	publisher.Publish(ctx, Event{Type: VideoDeleted, ActorID: 1, VideoID: 5, ObjectKeys: []string{"thumbnails/5/a.png"}})

	cleaner := NewCleaner(queue, store, discardLogger())
	err := queue.Subscribe(ctx, VideoDeleted, func(ctx context.Context, msg mq.Message) error {
		defer cancel()
		event, err := Decode(msg)
		require.NoError(t, err)
		assert.Equal(t, 5, event.VideoID)
		assert.False(t, event.OccurredAt.IsZero())
		assert.Equal(t, VideoDeleted, msg.Attributes["type"])
		return cleaner.Handle(ctx, msg)
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, ok := objects.Object("thumbnails/5/a.png")
	assert.False(t, ok)
}

func TestCleanerIgnoresMalformedAndForeignEvents(t *testing.T) {
	objects := storage.NewMemoryClient("media")
	store := storage.NewStorage(objects)
	require.NoError(t, store.Put(context.Background(), "keep", strings.NewReader("x"), 1, "image/png"))

	cleaner := NewCleaner(nil, store, discardLogger())

	assert.NoError(t, cleaner.Handle(context.Background(), mq.Message{Data: []byte("{not json")}))
	assert.NoError(t, cleaner.Handle(context.Background(), mq.Message{Data: []byte(`{"type":"video.created","object_keys":["keep"]}`)}))

	_, ok := objects.Object("keep")
	assert.True(t, ok)
}
