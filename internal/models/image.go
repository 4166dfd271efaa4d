package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ImageRecord is a server-confirmed image submission as returned by GET /api/v1/images.
// Clients treat it as immutable once fetched.
type ImageRecord struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	Caption   *string   `json:"caption,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	Likes     *int      `json:"likes,omitempty"`
}

// CaptionText returns the caption or an empty string when absent.
func (r ImageRecord) CaptionText() string {
	if r.Caption == nil {
		return ""
	}
	return *r.Caption
}

// LikeCount returns the like count, treating an absent value as zero.
func (r ImageRecord) LikeCount() int {
	if r.Likes == nil || *r.Likes < 0 {
		return 0
	}
	return *r.Likes
}

// UploadResponse is the body returned by POST /api/v1/images.
type UploadResponse struct {
	Message string      `json:"message"`
	Image   ImageRecord `json:"image"`
}

// Layouts accepted for created_at. The first entry is what this backend emits; the
// zone-less forms are produced by naive ISO-8601 serializers and are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a time.Time that tolerates timestamps without a zone offset.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s with any of the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
