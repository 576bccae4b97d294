package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tubeshare/apiserver/types"
)

type contextKey string

const contextUserKey contextKey = "user"

var errNoToken = errors.New("no token")

// ContextWithUser stores the authenticated user in ctx.
func ContextWithUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

// UserFromContext returns the authenticated user placed by Gate.Protect.
func UserFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok && user.ID > 0
}

// Gate authenticates requests before they reach protected handlers.
type Gate struct {
	codec    *TokenCodec
	resolver *IdentityResolver
	logger   *slog.Logger
}

func NewGate(codec *TokenCodec, resolver *IdentityResolver, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{codec: codec, resolver: resolver, logger: logger}
}

// Authenticate runs extraction, verification and resolution for r.
func (g *Gate) Authenticate(r *http.Request) (types.User, error) {
	token := ExtractToken(r)
	if token == "" {
		return types.User{}, errNoToken
	}
	userID, err := g.codec.Verify(token)
	if err != nil {
		return types.User{}, err
	}
	return g.resolver.Resolve(r.Context(), userID)
}

// Protect only runs next with a populated identity in the request context.
// Every failure is answered with the same 401 body.
func (g *Gate) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.Authenticate(r)
		if err != nil {
			g.logRejection(r, err)
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func (g *Gate) logRejection(r *http.Request, err error) {
	attrs := []any{"method", r.Method, "path", r.URL.Path, "reason", err.Error()}
	switch {
	case errors.Is(err, errNoToken), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnauthenticated):
		g.logger.DebugContext(r.Context(), "request rejected", attrs...)
	default:
		g.logger.WarnContext(r.Context(), "identity lookup failed", attrs...)
	}
}

// ExtractToken reads the session cookie, falling back to a bearer header.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
