package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tubeshare/apiserver/internal/auth"
	"github.com/tubeshare/apiserver/internal/authz"
	"github.com/tubeshare/apiserver/internal/services"
	"github.com/tubeshare/apiserver/internal/store"
	"github.com/tubeshare/apiserver/types"
)

const maxJSONBody = 1 << 20

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a change that returns no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// Health reports that the process is serving requests.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// responder maps service errors to HTTP responses.
type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

// serviceError writes the response for err. Missing resources are reported
// before ownership failures because services check existence first.
func (rs responder) serviceError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, authz.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, authz.ErrChannelExists):
		writeError(w, http.StatusBadRequest, authz.ErrChannelExists.Error())
	case errors.Is(err, services.ErrDuplicateUser):
		writeError(w, http.StatusBadRequest, services.ErrDuplicateUser.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusBadRequest, "conflict")
	default:
		rs.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "resource", resource, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// actor returns the identity attached by the auth gate.
func actor(w http.ResponseWriter, r *http.Request) (types.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return user, ok
}

func parseID(r *http.Request, param string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id < 1 {
		return 0, errors.New("invalid " + param)
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}
