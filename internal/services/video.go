package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tubeshare/apiserver/internal/authz"
	"github.com/tubeshare/apiserver/internal/events"
	"github.com/tubeshare/apiserver/types"
)

// VideoRepository defines persistence operations for videos.
type VideoRepository interface {
	List(ctx context.Context) ([]types.Video, error)
	ListByUser(ctx context.Context, userID int) ([]types.Video, error)
	Get(ctx context.Context, id int) (types.Video, error)
	Create(ctx context.Context, video types.Video) (types.Video, error)
	Update(ctx context.Context, video types.Video) (types.Video, error)
	Delete(ctx context.Context, id int) error
	ToggleReaction(ctx context.Context, videoID, userID int, reaction types.Reaction) (bool, error)
}

// VideoInput carries the editable video fields. Nil fields are left
// unchanged on update.
type VideoInput struct {
	Title       *string
	Description *string
	VideoLink   *string
	VideoType   *string
	Thumbnail   *string
}

// VideoService encapsulates video use-cases.
type VideoService struct {
	repo   VideoRepository
	events EventPublisher
}

func NewVideoService(repo VideoRepository, publisher EventPublisher) *VideoService {
	return &VideoService{repo: repo, events: publisher}
}

func (s *VideoService) List(ctx context.Context) ([]types.Video, error) {
	return s.repo.List(ctx)
}

func (s *VideoService) ListByUser(ctx context.Context, userID int) ([]types.Video, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *VideoService) Get(ctx context.Context, id int) (types.Video, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new video uploaded by actor.
func (s *VideoService) Create(ctx context.Context, actor types.User, in VideoInput) (types.Video, error) {
	video := types.Video{
		UserID:      actor.ID,
		Title:       strings.TrimSpace(deref(in.Title)),
		Description: strings.TrimSpace(deref(in.Description)),
		VideoLink:   strings.TrimSpace(deref(in.VideoLink)),
		VideoType:   strings.TrimSpace(deref(in.VideoType)),
		Thumbnail:   strings.TrimSpace(deref(in.Thumbnail)),
	}
	if video.Title == "" || video.VideoLink == "" {
		return types.Video{}, fmt.Errorf("%w: title and videoLink are required", ErrInvalidInput)
	}
	if video.VideoType == "" {
		video.VideoType = types.DefaultVideoType
	}

	created, err := s.repo.Create(ctx, video)
	if err != nil {
		return types.Video{}, err
	}
	summary := actor.Summary()
	created.Uploader = &summary

	publish(ctx, s.events, events.Event{Type: events.VideoCreated, ActorID: actor.ID, VideoID: created.ID})
	return created, nil
}

// Update applies a partial edit to a video uploaded by actor.
func (s *VideoService) Update(ctx context.Context, actor types.User, id int, in VideoInput) (types.Video, error) {
	video, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Video{}, err
	}
	if err := authz.AuthorizeMutation(actor, video); err != nil {
		return types.Video{}, err
	}

	if in.Title != nil {
		if video.Title = strings.TrimSpace(*in.Title); video.Title == "" {
			return types.Video{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
	}
	if in.VideoLink != nil {
		if video.VideoLink = strings.TrimSpace(*in.VideoLink); video.VideoLink == "" {
			return types.Video{}, fmt.Errorf("%w: videoLink must not be empty", ErrInvalidInput)
		}
	}
	if in.Description != nil {
		video.Description = strings.TrimSpace(*in.Description)
	}
	if in.VideoType != nil {
		if video.VideoType = strings.TrimSpace(*in.VideoType); video.VideoType == "" {
			video.VideoType = types.DefaultVideoType
		}
	}
	if in.Thumbnail != nil {
		video.Thumbnail = strings.TrimSpace(*in.Thumbnail)
		video.ThumbnailKey = ""
	}

	updated, err := s.repo.Update(ctx, video)
	if err != nil {
		return types.Video{}, err
	}

	publish(ctx, s.events, events.Event{Type: events.VideoUpdated, ActorID: actor.ID, VideoID: id})
	return updated, nil
}

// Delete removes a video uploaded by actor together with its comments and
// reactions. Stored media is released asynchronously.
func (s *VideoService) Delete(ctx context.Context, actor types.User, id int) error {
	video, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.AuthorizeMutation(actor, video); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	event := events.Event{Type: events.VideoDeleted, ActorID: actor.ID, VideoID: id}
	if video.ThumbnailKey != "" {
		event.ObjectKeys = []string{video.ThumbnailKey}
	}
	publish(ctx, s.events, event)
	return nil
}

// React toggles actor's reaction on a video. Applying a reaction clears the
// opposite one; applying the same reaction twice removes it.
func (s *VideoService) React(ctx context.Context, actor types.User, id int, reaction types.Reaction) (types.Video, error) {
	if reaction != types.ReactionLike && reaction != types.ReactionDislike {
		return types.Video{}, fmt.Errorf("%w: unknown reaction %q", ErrInvalidInput, reaction)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return types.Video{}, err
	}
	if _, err := s.repo.ToggleReaction(ctx, id, actor.ID, reaction); err != nil {
		return types.Video{}, err
	}
	return s.repo.Get(ctx, id)
}
