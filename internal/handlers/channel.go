package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tubeshare/apiserver/internal/services"
)

// ChannelHandler provides HTTP handlers for channels.
type ChannelHandler struct {
	responder
	channels *services.ChannelService
}

func NewChannelHandler(channels *services.ChannelService, logger *slog.Logger) *ChannelHandler {
	return &ChannelHandler{responder: newResponder(logger), channels: channels}
}

// ChannelRouter registers channel routes on the given router.
func ChannelRouter(r chi.Router, handler *ChannelHandler, protect func(http.Handler) http.Handler) {
	r.Route("/channel", func(r chi.Router) {
		r.With(protect).Post("/", handler.CreateChannel)
		r.Get("/by-user/{userID}", handler.GetChannelByUser)
		r.Get("/{channelID}", handler.GetChannel)
		r.With(protect).Put("/{channelID}", handler.UpdateChannel)
	})
}

func (h *ChannelHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	var req ChannelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.channels.Create(r.Context(), user, req.input())
	if err != nil {
		h.serviceError(w, r, err, "channel")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ChannelHandler) GetChannelByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	channel, err := h.channels.GetByOwner(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err, "channel")
		return
	}
	writeJSON(w, http.StatusOK, channel)
}

func (h *ChannelHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "channelID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	channel, err := h.channels.Get(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err, "channel")
		return
	}
	writeJSON(w, http.StatusOK, channel)
}

func (h *ChannelHandler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "channelID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req ChannelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.channels.Update(r.Context(), user, id, req.input())
	if err != nil {
		h.serviceError(w, r, err, "channel")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ChannelRequest is the create and update payload. An owner field sent by
// the client is ignored; the owner is always the authenticated user.
type ChannelRequest struct {
	ChannelName   *string `json:"channelName"`
	Description   *string `json:"description"`
	ChannelBanner *string `json:"channelBanner"`
}

func (req ChannelRequest) input() services.ChannelInput {
	return services.ChannelInput{
		ChannelName:   req.ChannelName,
		Description:   req.Description,
		ChannelBanner: req.ChannelBanner,
	}
}
