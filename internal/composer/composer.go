// Package composer holds the in-progress image submission: file selection and
// validation, asynchronous preview, caption editing and upload.
package composer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"timeline/internal/client"
)

const (
	// MaxFileSize is the largest file a draft accepts (10 MiB).
	MaxFileSize = 10 * 1024 * 1024

	// DefaultSuccessWindow is how long the success indicator stays visible.
	DefaultSuccessWindow = 3 * time.Second

	// UploadFailedMessage is shown for any failed upload.
	UploadFailedMessage = "Failed to upload image. Please try again."

	// SuccessMessage is shown while the success indicator is visible.
	SuccessMessage = "Image uploaded successfully!"
)

// Validation reasons.
const (
	ReasonSize = "size"
	ReasonType = "type"
)

// ErrBusy is returned when a control is used while an upload is in flight.
var ErrBusy = errors.New("upload in progress")

// ValidationError reports why a file was rejected at selection time.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonSize:
		return "File size must be less than 10MB"
	case ReasonType:
		return "Please select an image file"
	default:
		return "invalid file: " + e.Reason
	}
}

// UploadError wraps the transport or server failure behind a failed submission.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Validate applies the selection checks in order; the first failure wins.
func Validate(f *File) error {
	if f.Size > MaxFileSize {
		return &ValidationError{Reason: ReasonSize}
	}
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return &ValidationError{Reason: ReasonType}
	}
	return nil
}

// Status of the draft.
type Status int

const (
	StatusIdle Status = iota
	StatusUploading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusUploading:
		return "uploading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Uploader transmits a draft.
type Uploader interface {
	UploadImage(ctx context.Context, up client.Upload) error
}

// Previewer renders a displayable URI for a blob.
type Previewer interface {
	DataURI(ctx context.Context, r io.Reader, contentType string) (string, error)
}

// Snapshot is a copy of the draft state.
type Snapshot struct {
	File    *File
	Caption string
	Preview string
	Status  Status
	Error   string
}

func (s Snapshot) HasFile() bool   { return s.File != nil }
func (s Snapshot) Uploading() bool { return s.Status == StatusUploading }
func (s Snapshot) Succeeded() bool { return s.Status == StatusSucceeded }

// Option configures a Composer.
type Option func(*Composer)

// WithPreviewer sets the preview generator. Without one no previews are produced.
func WithPreviewer(p Previewer) Option {
	return func(c *Composer) { c.previewer = p }
}

// WithSuccessWindow overrides how long the success indicator stays visible.
func WithSuccessWindow(d time.Duration) Option {
	return func(c *Composer) { c.successWindow = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// Composer owns one draft. It is safe for concurrent use; a submission runs on the
// caller's goroutine while previews decode in the background.
type Composer struct {
	uploader      Uploader
	previewer     Previewer
	onUploaded    func(context.Context)
	successWindow time.Duration
	logger        *slog.Logger

	mu      sync.Mutex
	file    *File
	caption string
	preview string
	status  Status
	errMsg  string

	previewGen    uint64
	cancelPreview context.CancelFunc
	previews      sync.WaitGroup

	successSeq   uint64
	successTimer *time.Timer
}

// New creates an empty draft. onUploaded is called once after every successful
// submission, after the draft has been reset.
func New(uploader Uploader, onUploaded func(context.Context), opts ...Option) *Composer {
	c := &Composer{
		uploader:      uploader,
		onUploaded:    onUploaded,
		successWindow: DefaultSuccessWindow,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current draft state.
func (c *Composer) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		File:    c.file,
		Caption: c.caption,
		Preview: c.preview,
		Status:  c.status,
		Error:   c.errMsg,
	}
}

// Select validates f and makes it the draft's file. A nil file (cancelled dialog)
// changes nothing. On rejection the current file and preview are kept and the
// validation message becomes the draft error.
func (c *Composer) Select(f *File) error {
	if f == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusUploading {
		return ErrBusy
	}

	if err := Validate(f); err != nil {
		c.errMsg = err.Error()
		c.logger.Debug("File rejected", "filename", f.Name, "size", f.Size, "content_type", f.ContentType, "reason", err.Error())
		return err
	}

	c.stopSuccessLocked()
	c.file = f
	c.errMsg = ""
	c.status = StatusIdle
	c.preview = ""
	c.startPreviewLocked(f)

	return nil
}

// SetCaption replaces the caption. It is refused while uploading.
func (c *Composer) SetCaption(caption string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusUploading {
		return ErrBusy
	}
	c.caption = caption
	return nil
}

// Submit uploads the draft. Without a file, or while an upload is already running,
// it does nothing. On failure the draft is kept for a retry and an *UploadError is
// returned; on success the draft is reset and the upload notification fires.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.file == nil || c.status == StatusUploading {
		c.mu.Unlock()
		return nil
	}
	f, caption := c.file, c.caption
	c.stopSuccessLocked()
	c.status = StatusUploading
	c.errMsg = ""
	c.mu.Unlock()

	err := c.upload(ctx, f, caption)

	c.mu.Lock()
	if err != nil {
		c.status = StatusFailed
		c.errMsg = UploadFailedMessage
		c.mu.Unlock()

		c.logger.Error("Upload failed", "filename", f.Name, "error", err)
		return &UploadError{Err: err}
	}

	c.file = nil
	c.caption = ""
	c.preview = ""
	c.cancelPreviewLocked()
	c.status = StatusSucceeded
	c.startSuccessTimerLocked()
	c.mu.Unlock()

	c.logger.Info("Image uploaded", "filename", f.Name, "size", f.Size)

	if c.onUploaded != nil {
		c.onUploaded(ctx)
	}
	return nil
}

// Clear resets the draft and drops any error or success indicator. An upload
// already in flight still completes and reports its outcome.
func (c *Composer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.file = nil
	c.caption = ""
	c.preview = ""
	c.errMsg = ""
	c.cancelPreviewLocked()
	c.stopSuccessLocked()
	if c.status == StatusFailed {
		c.status = StatusIdle
	}
}

// DismissError hides the current error message.
func (c *Composer) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errMsg = ""
	if c.status == StatusFailed {
		c.status = StatusIdle
	}
}

// Close cancels background work and waits for preview goroutines to exit.
func (c *Composer) Close() {
	c.mu.Lock()
	c.cancelPreviewLocked()
	if c.successTimer != nil {
		c.successTimer.Stop()
		c.successTimer = nil
	}
	c.mu.Unlock()

	c.previews.Wait()
}

func (c *Composer) upload(ctx context.Context, f *File, caption string) error {
	body, err := f.Open()
	if err != nil {
		return err
	}
	defer body.Close()

	return c.uploader.UploadImage(ctx, client.Upload{
		Filename:    f.Name,
		ContentType: f.ContentType,
		Body:        body,
		Caption:     caption,
	})
}

func (c *Composer) startPreviewLocked(f *File) {
	c.cancelPreviewLocked()
	if c.previewer == nil {
		return
	}

	gen := c.previewGen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelPreview = cancel

	c.previews.Add(1)
	go func() {
		defer c.previews.Done()
		defer cancel()

		uri, err := c.generatePreview(ctx, f)

		c.mu.Lock()
		defer c.mu.Unlock()

		if gen != c.previewGen {
			return
		}
		c.cancelPreview = nil
		if err != nil {
			c.logger.Warn("Preview generation failed", "filename", f.Name, "error", err)
			return
		}
		c.preview = uri
	}()
}

func (c *Composer) generatePreview(ctx context.Context, f *File) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	return c.previewer.DataURI(ctx, r, f.ContentType)
}

// cancelPreviewLocked invalidates any running preview task.
func (c *Composer) cancelPreviewLocked() {
	c.previewGen++
	if c.cancelPreview != nil {
		c.cancelPreview()
		c.cancelPreview = nil
	}
}

func (c *Composer) startSuccessTimerLocked() {
	c.successSeq++
	seq := c.successSeq

	c.successTimer = time.AfterFunc(c.successWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if seq != c.successSeq || c.status != StatusSucceeded {
			return
		}
		c.status = StatusIdle
		c.successTimer = nil
	})
}

func (c *Composer) stopSuccessLocked() {
	c.successSeq++
	if c.successTimer != nil {
		c.successTimer.Stop()
		c.successTimer = nil
	}
	if c.status == StatusSucceeded {
		c.status = StatusIdle
	}
}
