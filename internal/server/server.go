package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"timeline/internal/config"
	"timeline/internal/database"
	"timeline/internal/images"
	"timeline/internal/storage"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg *config.Server

	db      database.Service
	storage storage.Service
	images  *images.Handler
	logger  *slog.Logger
}

// New assembles a Server from already connected dependencies.
func New(cfg *config.Server, db database.Service, blobs storage.Service, imagesHandler *images.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		db:      db,
		storage: blobs,
		images:  imagesHandler,
		logger:  logger,
	}
}

// Bootstrap connects Postgres, object storage and Redis, runs migrations and
// returns the configured HTTP server. cleanup releases the connections.
func Bootstrap(ctx context.Context, cfg *config.Server, logger *slog.Logger) (srv *http.Server, cleanup func(), err error) {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.New(initCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database service initialized")

	if err := database.Migrate(initCtx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	blobs, err := storage.New(initCtx, storage.Config{
		Endpoint:       cfg.S3Endpoint,
		PublicEndpoint: cfg.S3PublicEndpoint,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		BucketName:     cfg.S3BucketName,
		UseSSL:         cfg.S3UseSSL,
	}, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize storage service: %w", err)
	}
	logger.Info("Storage service initialized", "bucket", cfg.S3BucketName)

	cache := images.NewRedisCache(initCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)

	imagesPath := cfg.APIPrefix + "/images"
	svc := images.NewService(images.NewRepository(db), blobs, cache, imagesPath, logger)
	appServer := New(cfg, db, blobs, images.NewHandler(svc, cfg.MaxUploadBytes), logger)

	cleanup = func() {
		if cache != nil {
			_ = cache.Close()
		}
		db.Close()
	}

	return appServer.HTTPServer(), cleanup, nil
}

// HTTPServer wraps the routes in an http.Server using the configured timeouts.
func (s *Server) HTTPServer() *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	s.logger.Info("HTTP server configured", "port", s.cfg.Port)
	return server
}
