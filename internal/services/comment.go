package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tubeshare/apiserver/internal/authz"
	"github.com/tubeshare/apiserver/internal/events"
	"github.com/tubeshare/apiserver/types"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Get(ctx context.Context, id int) (types.Comment, error)
	ListByVideo(ctx context.Context, videoID int) ([]types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
	Update(ctx context.Context, comment types.Comment) (types.Comment, error)
	Delete(ctx context.Context, id int) error
}

// VideoFinder looks up the video a comment is attached to.
type VideoFinder interface {
	Get(ctx context.Context, id int) (types.Video, error)
}

// CommentService encapsulates comment use-cases.
type CommentService struct {
	repo   CommentRepository
	videos VideoFinder
	events EventPublisher
}

func NewCommentService(repo CommentRepository, videos VideoFinder, publisher EventPublisher) *CommentService {
	return &CommentService{repo: repo, videos: videos, events: publisher}
}

// Create attaches a comment by actor to an existing video.
func (s *CommentService) Create(ctx context.Context, actor types.User, videoID int, message string) (types.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return types.Comment{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return types.Comment{}, err
	}

	created, err := s.repo.Create(ctx, types.Comment{UserID: actor.ID, VideoID: videoID, Message: message})
	if err != nil {
		return types.Comment{}, err
	}
	summary := actor.Summary()
	created.Author = &summary

	publish(ctx, s.events, events.Event{Type: events.CommentCreated, ActorID: actor.ID, VideoID: videoID, CommentID: created.ID})
	return created, nil
}

func (s *CommentService) ListByVideo(ctx context.Context, videoID int) ([]types.Comment, error) {
	return s.repo.ListByVideo(ctx, videoID)
}

// Update replaces the message of a comment written by actor.
func (s *CommentService) Update(ctx context.Context, actor types.User, id int, message string) (types.Comment, error) {
	comment, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Comment{}, err
	}
	if err := authz.AuthorizeMutation(actor, comment); err != nil {
		return types.Comment{}, err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return types.Comment{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	comment.Message = message
	return s.repo.Update(ctx, comment)
}

// Delete removes a comment written by actor.
func (s *CommentService) Delete(ctx context.Context, actor types.User, id int) error {
	comment, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.AuthorizeMutation(actor, comment); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	publish(ctx, s.events, events.Event{Type: events.CommentDeleted, ActorID: actor.ID, VideoID: comment.VideoID, CommentID: id})
	return nil
}
