package mq

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryBackend delivers messages in-process. Messages published before a
// subscriber attaches are buffered per channel.
type MemoryBackend struct {
	mu     sync.Mutex
	queues map[string]chan Message
	closed bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{queues: make(map[string]chan Message)}
}

func (m *MemoryBackend) queue(channel string) (chan Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, errors.New("memory mq closed")
	}
	q, ok := m.queues[channel]
	if !ok {
		q = make(chan Message, 128)
		m.queues[channel] = q
	}
	return q, nil
}

// Publish enqueues the message on the named channel.
func (m *MemoryBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("memory mq channel is required")
	}
	q, err := m.queue(channel)
	if err != nil {
		return "", err
	}
	msg := Message{ID: uuid.NewString(), Data: data, Attributes: attrs}
	select {
	case q <- msg:
		return msg.ID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Subscribe handles messages until ctx is done. Failed messages are requeued.
func (m *MemoryBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	q, err := m.queue(channel)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-q:
			if err := handler(ctx, msg); err != nil {
				select {
				case q <- msg:
				default:
				}
			}
		}
	}
}

func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
