package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"timeline/internal/models"
	"timeline/internal/storage"
)

const (
	listCacheKey = "images:all"
	listCacheTTL = 2 * time.Minute

	// DownloadURLTTL bounds the presigned URLs GET /images/:filename redirects to.
	DownloadURLTTL = time.Hour
)

// UploadInput is one validated multipart upload.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
	Caption     string
}

// Service handles business logic for image posts with caching
type Service struct {
	repo       Store
	blobs      storage.Service
	cache      *redis.Client
	imagesPath string
	logger     *slog.Logger
}

// NewService creates a service. cache may be nil, which disables caching.
func NewService(repo Store, blobs storage.Service, cache *redis.Client, imagesPath string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		blobs:      blobs,
		cache:      cache,
		imagesPath: strings.TrimRight(imagesPath, "/"),
		logger:     logger,
	}
}

// NewRedisCache connects to Redis. It returns nil when Redis is unreachable so
// the service runs uncached.
func NewRedisCache(ctx context.Context, addr, password string, db int, logger *slog.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis connection failed, caching disabled", "addr", addr, "error", err)
		_ = rdb.Close()
		return nil
	}

	logger.Info("Redis cache connected", "addr", addr)
	return rdb
}

// ListImages returns every record, newest first.
func (s *Service) ListImages(ctx context.Context) ([]models.ImageRecord, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, listCacheKey).Bytes()
		if err == nil {
			var records []models.ImageRecord
			if err := json.Unmarshal(cached, &records); err == nil {
				s.logger.Debug("Cache hit for image list", "count", len(records))
				return records, nil
			}
		}
	}

	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.ImageRecord, 0, len(posts))
	for _, p := range posts {
		records = append(records, p.Record(s.imagesPath))
	}

	if s.cache != nil {
		if data, err := json.Marshal(records); err == nil {
			if err := s.cache.Set(ctx, listCacheKey, data, listCacheTTL).Err(); err != nil {
				s.logger.Warn("Failed to cache image list", "error", err)
			}
		}
	}

	return records, nil
}

// Upload stores the binary and inserts its row. The stored object is removed
// again if the insert fails.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.ImageRecord, error) {
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, ErrNotImage
	}

	key := uuid.New().String() + extension(in.Filename, in.ContentType)

	if err := s.blobs.PutObject(ctx, key, in.ContentType, in.Body, in.Size); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	var caption *string
	if in.Caption != "" {
		caption = &in.Caption
	}

	post, err := s.repo.Create(ctx, key, caption)
	if err != nil {
		if delErr := s.blobs.DeleteFile(ctx, key); delErr != nil {
			s.logger.Error("Failed to remove orphaned image", "key", key, "error", delErr)
		}
		return nil, err
	}

	s.invalidateList(ctx)

	s.logger.Info("Image uploaded", "id", post.ID, "filename", key, "size", in.Size)
	rec := post.Record(s.imagesPath)
	return &rec, nil
}

// DownloadURL returns a presigned URL for a known filename.
func (s *Service) DownloadURL(ctx context.Context, filename string) (string, error) {
	post, err := s.repo.GetByFilename(ctx, filename)
	if err != nil {
		return "", err
	}
	return s.blobs.GeneratePresignedDownloadURL(ctx, post.Filename, DownloadURLTTL)
}

func (s *Service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, listCacheKey).Err(); err != nil {
		s.logger.Warn("Failed to invalidate image list cache", "error", err)
	}
}

// extension keeps the uploaded file's extension, falling back to the one
// registered for contentType.
func extension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 1 && len(ext) <= 10 && strings.Trim(ext[1:], "abcdefghijklmnopqrstuvwxyz0123456789") == "" {
		return ext
	}
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}
