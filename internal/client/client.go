// Package client talks to the image timeline REST API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"

	"timeline/internal/models"
)

const imagesPath = "/api/v1/images"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

// ErrEmptyUpload is returned when an upload has no file content.
var ErrEmptyUpload = errors.New("upload has no file")

// Upload is the multipart payload for image creation.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Caption     string
}

// Client is a thin wrapper over resty bound to the API base URL.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// New creates a client for baseURL. There is no request timeout and no retry;
// callers bound calls through the context they pass in.
func New(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// ListImages fetches every image record, in server order.
func (c *Client) ListImages(ctx context.Context) ([]models.ImageRecord, error) {
	var records []models.ImageRecord

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&records).
		ForceContentType("application/json").
		Get(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Op: "list images", StatusCode: resp.StatusCode()}
	}

	if records == nil {
		records = []models.ImageRecord{}
	}

	c.logger.Debug("Fetched images", "count", len(records))
	return records, nil
}

// UploadImage posts the file and caption as multipart form data. The caption field is
// always sent, even when empty. The response body is not consumed.
func (c *Client) UploadImage(ctx context.Context, up Upload) error {
	if up.Body == nil {
		return ErrEmptyUpload
	}

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", up.Filename, contentType, up.Body).
		SetMultipartFormData(map[string]string{"caption": up.Caption}).
		Post(imagesPath)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	if !resp.IsSuccess() {
		return &StatusError{Op: "upload image", StatusCode: resp.StatusCode()}
	}

	c.logger.Debug("Uploaded image", "filename", up.Filename, "status", resp.StatusCode())
	return nil
}
