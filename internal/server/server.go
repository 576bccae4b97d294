package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tubeshare/apiserver/config"
	"github.com/tubeshare/apiserver/internal/db"
	"github.com/tubeshare/apiserver/internal/events"
	"github.com/tubeshare/apiserver/internal/mq"
	"github.com/tubeshare/apiserver/internal/storage"
	"github.com/tubeshare/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
	logger     *slog.Logger
}

// New connects the configured backends and builds the HTTP server.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	objects, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	queue, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("init mq: %w", err)
	}

	opts := RouterOptions{
		Auth:         cfg.Auth,
		CORSOrigins:  cfg.CORSOrigins,
		MediaBaseURL: cfg.Storage.MediaBaseURL,
		Events:       events.NewPublisher(queue, logger),
		Logger:       logger,
	}
	if objects != nil {
		opts.Objects = objects
	}

	router, err := NewRouter(Repositories{
		Users:    store.NewUserRepository(dbConn),
		Channels: store.NewChannelRepository(dbConn),
		Videos:   store.NewVideoRepository(dbConn),
		Comments: store.NewCommentRepository(dbConn),
	}, opts)
	if err != nil {
		_ = dbConn.Close()
		if queue != nil {
			_ = queue.Close()
		}
		return nil, err
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.queue != nil {
		if qErr := s.queue.Close(); qErr != nil {
			s.logger.Warn("close mq failed", "error", qErr)
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
