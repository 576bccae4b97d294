package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/tubeshare/apiserver/internal/authz"
	"github.com/tubeshare/apiserver/internal/events"
	"github.com/tubeshare/apiserver/types"
)

// MaxThumbnailSize caps uploaded thumbnails at 5 MiB.
const MaxThumbnailSize = 5 << 20

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

// ObjectStore persists uploaded media.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// ThumbnailUpload is a single image file received from a client.
type ThumbnailUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaService stores thumbnails in object storage and links them to videos.
type MediaService struct {
	videos  VideoRepository
	objects ObjectStore
	baseURL string
	events  EventPublisher
	logger  *slog.Logger
}

func NewMediaService(videos VideoRepository, objects ObjectStore, baseURL string, publisher EventPublisher, logger *slog.Logger) *MediaService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaService{
		videos:  videos,
		objects: objects,
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  publisher,
		logger:  logger,
	}
}

// UploadThumbnail replaces the thumbnail of a video uploaded by actor.
func (s *MediaService) UploadThumbnail(ctx context.Context, actor types.User, videoID int, upload ThumbnailUpload) (types.Video, error) {
	video, err := s.videos.Get(ctx, videoID)
	if err != nil {
		return types.Video{}, err
	}
	if err := authz.AuthorizeMutation(actor, video); err != nil {
		return types.Video{}, err
	}

	if upload.Body == nil || upload.Size <= 0 {
		return types.Video{}, fmt.Errorf("%w: thumbnail file is required", ErrInvalidInput)
	}
	if upload.Size > MaxThumbnailSize {
		return types.Video{}, fmt.Errorf("%w: thumbnail exceeds %d bytes", ErrInvalidInput, MaxThumbnailSize)
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return types.Video{}, fmt.Errorf("%w: thumbnail must be an image", ErrInvalidInput)
	}

	key := thumbnailKey(videoID, upload.Filename)
	if err := s.objects.Put(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		return types.Video{}, fmt.Errorf("store thumbnail: %w", err)
	}

	previous := video.ThumbnailKey
	video.ThumbnailKey = key
	video.Thumbnail = s.publicURL(key)

	updated, err := s.videos.Update(ctx, video)
	if err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "remove orphaned thumbnail failed", "key", key, "error", delErr)
		}
		return types.Video{}, err
	}

	if previous != "" {
		if err := s.objects.Delete(ctx, previous); err != nil {
			s.logger.WarnContext(ctx, "remove previous thumbnail failed", "key", previous, "error", err)
		}
	}

	publish(ctx, s.events, events.Event{Type: events.VideoUpdated, ActorID: actor.ID, VideoID: videoID})
	return updated, nil
}

func (s *MediaService) publicURL(key string) string {
	if s.baseURL == "" {
		return "/" + key
	}
	return s.baseURL + "/" + key
}

func thumbnailKey(videoID int, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("thumbnails/%d/%s%s", videoID, uuid.NewString(), ext)
}
