package services

import (
	"context"
	"errors"

	"github.com/tubeshare/apiserver/internal/events"
)

var (
	// ErrInvalidInput marks requests missing a required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateUser is returned when the username or email is taken.
	ErrDuplicateUser = errors.New("username or email already exists")

	// ErrInvalidCredentials is returned for an unknown login or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// EventPublisher receives domain events after a change is committed.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

func publish(ctx context.Context, publisher EventPublisher, event events.Event) {
	if publisher == nil {
		return
	}
	publisher.Publish(ctx, event)
}
