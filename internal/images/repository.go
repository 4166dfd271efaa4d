package images

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"timeline/internal/database"
)

// Store is the persistence surface the service depends on.
type Store interface {
	List(ctx context.Context) ([]Post, error)
	Create(ctx context.Context, filename string, caption *string) (*Post, error)
	GetByFilename(ctx context.Context, filename string) (*Post, error)
}

// Repository handles all database operations for image posts
type Repository struct {
	db database.Service
}

// NewRepository creates a new image posts repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// List returns every post, newest first. id breaks ties between equal timestamps.
func (r *Repository) List(ctx context.Context) ([]Post, error) {
	query := `
		SELECT id, filename, caption, likes, created_at
		FROM image_posts
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query image posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Filename, &p.Caption, &p.Likes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image posts: %w", err)
	}

	return posts, nil
}

// Create inserts a new post with zero likes
func (r *Repository) Create(ctx context.Context, filename string, caption *string) (*Post, error) {
	query := `
		INSERT INTO image_posts (filename, caption, likes, created_at)
		VALUES ($1, $2, 0, NOW())
		RETURNING id, filename, caption, likes, created_at
	`

	p := &Post{}
	err := r.db.QueryRow(ctx, query, filename, caption).Scan(
		&p.ID,
		&p.Filename,
		&p.Caption,
		&p.Likes,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create image post: %w", err)
	}

	return p, nil
}

// GetByFilename retrieves a single post by its stored object key
func (r *Repository) GetByFilename(ctx context.Context, filename string) (*Post, error) {
	query := `
		SELECT id, filename, caption, likes, created_at
		FROM image_posts
		WHERE filename = $1
	`

	p := &Post{}
	err := r.db.QueryRow(ctx, query, filename).Scan(
		&p.ID,
		&p.Filename,
		&p.Caption,
		&p.Likes,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image post: %w", err)
	}

	return p, nil
}
