package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tubeshare/apiserver/internal/services"
	"github.com/tubeshare/apiserver/types"
)

const (
	formFieldThumbnail = "thumbnail"
	maxMultipartMemory = 1 << 20
	maxThumbnailBody   = services.MaxThumbnailSize + maxMultipartMemory
)

// VideoHandler provides HTTP handlers for videos and their reactions.
type VideoHandler struct {
	responder
	videos *services.VideoService
	media  *services.MediaService
}

// NewVideoHandler constructs a VideoHandler. A nil media service disables
// thumbnail uploads.
func NewVideoHandler(videos *services.VideoService, media *services.MediaService, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{responder: newResponder(logger), videos: videos, media: media}
}

// VideoRouter registers video routes on the given router.
func VideoRouter(r chi.Router, handler *VideoHandler, protect func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/videos", handler.ListVideos)
		r.Get("/channel/{userID}", handler.ListUserVideos)
		r.With(protect).Post("/video", handler.CreateVideo)
		r.Route("/video/{videoID}", func(r chi.Router) {
			r.Get("/", handler.GetVideo)
			r.With(protect).Put("/", handler.UpdateVideo)
			r.With(protect).Delete("/", handler.DeleteVideo)
			r.With(protect).Post("/like", handler.react(types.ReactionLike))
			r.With(protect).Post("/dislike", handler.react(types.ReactionDislike))
			if handler.media != nil {
				r.With(protect).Post("/thumbnail", handler.UploadThumbnail)
			}
		})
	})
}

func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videos.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusOK, VideoListResponse{Videos: videos})
}

func (h *VideoHandler) ListUserVideos(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	videos, err := h.videos.ListByUser(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusOK, VideoListResponse{Videos: videos})
}

func (h *VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "videoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	video, err := h.videos.Get(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (h *VideoHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	var req VideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.videos.Create(r.Context(), user, req.input())
	if err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *VideoHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "videoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req VideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.videos.Update(r.Context(), user, id, req.input())
	if err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "videoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.videos.Delete(r.Context(), user, id); err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Video removed successfully"})
}

func (h *VideoHandler) react(reaction types.Reaction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		id, err := parseID(r, "videoID")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		video, err := h.videos.React(r.Context(), user, id, reaction)
		if err != nil {
			h.serviceError(w, r, err, "video")
			return
		}
		writeJSON(w, http.StatusOK, video)
	}
}

// UploadThumbnail stores a multipart image upload as the video thumbnail.
func (h *VideoHandler) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "videoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxThumbnailBody)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile(formFieldThumbnail)
	if err != nil {
		writeError(w, http.StatusBadRequest, "thumbnail file is required")
		return
	}
	defer file.Close()

	contentType, err := uploadContentType(file, header)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	video, err := h.media.UploadThumbnail(r.Context(), user, id, services.ThumbnailUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// uploadContentType trusts the part header unless it is missing or generic,
// in which case the content is sniffed.
func uploadContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType, nil
	}

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(sniff[:n]), nil
}

// VideoRequest is the create and partial update payload.
type VideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	VideoLink   *string `json:"videoLink"`
	VideoType   *string `json:"videoType"`
	Thumbnail   *string `json:"thumbnail"`
}

func (req VideoRequest) input() services.VideoInput {
	return services.VideoInput{
		Title:       req.Title,
		Description: req.Description,
		VideoLink:   req.VideoLink,
		VideoType:   req.VideoType,
		Thumbnail:   req.Thumbnail,
	}
}

type VideoListResponse struct {
	Videos []types.Video `json:"videos"`
}
