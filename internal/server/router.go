package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tubeshare/apiserver/config"
	"github.com/tubeshare/apiserver/internal/auth"
	"github.com/tubeshare/apiserver/internal/handlers"
	"github.com/tubeshare/apiserver/internal/logging"
	"github.com/tubeshare/apiserver/internal/services"
)

// Repositories groups the persistence backends behind the HTTP surface.
type Repositories struct {
	Users    services.UserRepository
	Channels services.ChannelRepository
	Videos   services.VideoRepository
	Comments services.CommentRepository
}

// RouterOptions carries everything besides persistence that the router needs.
type RouterOptions struct {
	Auth         config.AuthConfig
	CORSOrigins  []string
	MediaBaseURL string

	// Objects enables thumbnail uploads when set.
	Objects services.ObjectStore
	Events  services.EventPublisher
	Logger  *slog.Logger
}

// NewRouter assembles services, the auth gate and handlers into a chi router.
func NewRouter(repos Repositories, opts RouterOptions) (*chi.Mux, error) {
	if repos.Users == nil || repos.Channels == nil || repos.Videos == nil || repos.Comments == nil {
		return nil, errors.New("all repositories are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := auth.NewTokenCodec(opts.Auth.JWTSecret, opts.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	hasher := auth.NewPasswordHasher(opts.Auth.BcryptCost)
	gate := auth.NewGate(codec, auth.NewIdentityResolver(repos.Users), logger)
	cookies := auth.CookiePolicy{AlwaysSecure: opts.Auth.CookieSecure, MaxAge: codec.TTL()}

	userService := services.NewUserService(repos.Users, hasher, codec)
	channelService := services.NewChannelService(repos.Channels, opts.Events)
	videoService := services.NewVideoService(repos.Videos, opts.Events)
	commentService := services.NewCommentService(repos.Comments, repos.Videos, opts.Events)

	var mediaService *services.MediaService
	if opts.Objects != nil {
		mediaService = services.NewMediaService(repos.Videos, opts.Objects, opts.MediaBaseURL, opts.Events, logger)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.RequestLogger(logger),
		middleware.Timeout(60*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	router.Get("/healthz", handlers.Health)
	handlers.AuthRouter(router, handlers.NewAuthHandler(userService, cookies, logger), gate.Protect)
	handlers.ChannelRouter(router, handlers.NewChannelHandler(channelService, logger), gate.Protect)
	handlers.CommentRouter(router, handlers.NewCommentHandler(commentService, logger), gate.Protect)
	handlers.VideoRouter(router, handlers.NewVideoHandler(videoService, mediaService, logger), gate.Protect)

	return router, nil
}
