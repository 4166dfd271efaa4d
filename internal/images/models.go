// Package images serves the /images resource of the API: listing posts,
// accepting uploads and redirecting to the stored binaries.
package images

import (
	"errors"
	"strconv"
	"time"

	"timeline/internal/models"
)

var (
	ErrNotFound    = errors.New("image not found")
	ErrNotImage    = errors.New("file must be an image")
	ErrMissingFile = errors.New("file is required")
)

// Post is a row of image_posts.
type Post struct {
	ID        int64
	Filename  string
	Caption   *string
	Likes     int
	CreatedAt time.Time
}

// Record converts a row to its wire form. imagesPath is the public path of the
// images resource, e.g. /api/v1/images.
func (p Post) Record(imagesPath string) models.ImageRecord {
	likes := p.Likes
	return models.ImageRecord{
		ID:        strconv.FormatInt(p.ID, 10),
		ImageURL:  imagesPath + "/" + p.Filename,
		Caption:   p.Caption,
		CreatedAt: models.NewTimestamp(p.CreatedAt.UTC()),
		Likes:     &likes,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
