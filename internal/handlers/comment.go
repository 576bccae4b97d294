package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tubeshare/apiserver/internal/services"
	"github.com/tubeshare/apiserver/types"
)

// CommentHandler provides HTTP handlers for comments.
type CommentHandler struct {
	responder
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{responder: newResponder(logger), comments: comments}
}

// CommentRouter registers comment routes on the given router.
func CommentRouter(r chi.Router, handler *CommentHandler, protect func(http.Handler) http.Handler) {
	r.With(protect).Post("/comment", handler.CreateComment)
	r.Get("/comments/{videoID}", handler.ListComments)
	r.With(protect).Put("/comment/{commentID}", handler.UpdateComment)
	r.With(protect).Delete("/comment/{commentID}", handler.DeleteComment)
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Video < 1 {
		writeError(w, http.StatusBadRequest, "video is required")
		return
	}

	created, err := h.comments.Create(r.Context(), user, req.Video, req.Message)
	if err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseID(r, "videoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comments, err := h.comments.ListByVideo(r.Context(), videoID)
	if err != nil {
		h.serviceError(w, r, err, "video")
		return
	}
	writeJSON(w, http.StatusOK, CommentListResponse{Comments: comments})
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "commentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.comments.Update(r.Context(), user, id, req.Message)
	if err != nil {
		h.serviceError(w, r, err, "comment")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "commentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.comments.Delete(r.Context(), user, id); err != nil {
		h.serviceError(w, r, err, "comment")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Comment deleted successfully"})
}

type CommentRequest struct {
	Video   int    `json:"video"`
	Message string `json:"message"`
}

type CommentListResponse struct {
	Comments []types.Comment `json:"comments"`
}
