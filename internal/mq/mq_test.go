package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeshare/apiserver/config"
)

func TestNewFromConfigDisabled(t *testing.T) {
	m, err := NewFromConfig(context.Background(), config.MQConfig{Backend: config.MQBackendNone})
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = NewFromConfig(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.Error(t, err)
}

func TestMemoryBackendDeliversBufferedMessages(t *testing.T) {
	m := New(NewMemoryBackend())
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	id, err := m.Publish(ctx, "video.deleted", []byte(`{"id":1}`), map[string]string{"type": "video.deleted"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	received := make(chan Message, 1)
	err = m.Subscribe(ctx, "video.deleted", func(ctx context.Context, msg Message) error {
		received <- msg
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	msg := <-received
	assert.Equal(t, id, msg.ID)
	assert.JSONEq(t, `{"id":1}`, string(msg.Data))
	assert.Equal(t, "video.deleted", msg.Attributes["type"])
}

func TestMemoryBackendRequeuesFailures(t *testing.T) {
	m := New(NewMemoryBackend())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := m.Publish(ctx, "events", []byte("x"), nil)
	require.NoError(t, err)

	attempts := 0
	_ = m.Subscribe(ctx, "events", func(ctx context.Context, msg Message) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		cancel()
		return nil
	})
	assert.Equal(t, 2, attempts)
}

func TestMemoryBackendClosed(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Close())

	_, err := backend.Publish(context.Background(), "events", nil, nil)
	assert.Error(t, err)

	_, err = backend.Publish(context.Background(), " ", nil, nil)
	assert.Error(t, err)
}
