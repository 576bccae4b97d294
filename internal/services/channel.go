package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tubeshare/apiserver/internal/authz"
	"github.com/tubeshare/apiserver/internal/events"
	"github.com/tubeshare/apiserver/internal/store"
	"github.com/tubeshare/apiserver/types"
)

const defaultChannelBanner = "https://example.com/default-banner.jpg"

// ChannelRepository defines persistence operations for channels.
type ChannelRepository interface {
	Get(ctx context.Context, id int) (types.Channel, error)
	GetByOwner(ctx context.Context, ownerID int) (types.Channel, error)
	CountByOwner(ctx context.Context, ownerID int) (int, error)
	Create(ctx context.Context, channel types.Channel) (types.Channel, error)
	Update(ctx context.Context, channel types.Channel) (types.Channel, error)
}

// ChannelInput carries the editable channel fields. Nil fields are left unchanged on update.
type ChannelInput struct {
	ChannelName   *string
	Description   *string
	ChannelBanner *string
}

// ChannelService encapsulates channel use-cases.
type ChannelService struct {
	repo   ChannelRepository
	events EventPublisher
}

func NewChannelService(repo ChannelRepository, publisher EventPublisher) *ChannelService {
	return &ChannelService{repo: repo, events: publisher}
}

func (s *ChannelService) Get(ctx context.Context, id int) (types.Channel, error) {
	return s.repo.Get(ctx, id)
}

func (s *ChannelService) GetByOwner(ctx context.Context, ownerID int) (types.Channel, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// Create opens the actor's channel. A user owns at most one channel.
func (s *ChannelService) Create(ctx context.Context, actor types.User, in ChannelInput) (types.Channel, error) {
	name := strings.TrimSpace(deref(in.ChannelName))
	if name == "" {
		return types.Channel{}, fmt.Errorf("%w: channelName is required", ErrInvalidInput)
	}

	count, err := s.repo.CountByOwner(ctx, actor.ID)
	if err != nil {
		return types.Channel{}, err
	}
	if err := authz.EnsureSingleChannel(count); err != nil {
		return types.Channel{}, err
	}

	channel := types.Channel{
		OwnerUserID:   actor.ID,
		ChannelName:   name,
		Description:   strings.TrimSpace(deref(in.Description)),
		ChannelBanner: strings.TrimSpace(deref(in.ChannelBanner)),
	}
	if channel.ChannelBanner == "" {
		channel.ChannelBanner = defaultChannelBanner
	}

	created, err := s.repo.Create(ctx, channel)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.Channel{}, authz.ErrChannelExists
		}
		return types.Channel{}, err
	}

	publish(ctx, s.events, events.Event{Type: events.ChannelCreated, ActorID: actor.ID, ChannelID: created.ID})
	return created, nil
}

// Update edits a channel owned by actor.
func (s *ChannelService) Update(ctx context.Context, actor types.User, id int, in ChannelInput) (types.Channel, error) {
	channel, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Channel{}, err
	}
	if err := authz.AuthorizeMutation(actor, channel); err != nil {
		return types.Channel{}, err
	}

	if in.ChannelName != nil {
		name := strings.TrimSpace(*in.ChannelName)
		if name == "" {
			return types.Channel{}, fmt.Errorf("%w: channelName must not be empty", ErrInvalidInput)
		}
		channel.ChannelName = name
	}
	if in.Description != nil {
		channel.Description = strings.TrimSpace(*in.Description)
	}
	if in.ChannelBanner != nil {
		channel.ChannelBanner = strings.TrimSpace(*in.ChannelBanner)
	}

	return s.repo.Update(ctx, channel)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
