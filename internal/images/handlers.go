package images

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"timeline/internal/models"
)

// multipartOverhead is allowed on top of the file limit for boundaries and the caption field.
const multipartOverhead = 1 << 20

// Handler handles HTTP requests for images
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler creates a new images handler. maxBytes limits the uploaded file.
func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// List handles GET /images
func (h *Handler) List(c *gin.Context) {
	records, err := h.service.ListImages(c.Request.Context())
	if err != nil {
		h.service.logger.Error("Error listing images", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to retrieve images",
			Code:  "LIST_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// Upload handles POST /images
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fileTooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrMissingFile.Error(),
			Code:  "MISSING_FILE",
		})
		return
	}

	if fh.Size > h.maxBytes {
		h.fileTooLarge(c)
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Failed to read uploaded file",
			Code:  "INVALID_FILE",
		})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if m, err := mimetype.DetectReader(f); err == nil {
			contentType = m.String()
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Failed to read uploaded file",
				Code:  "INVALID_FILE",
			})
			return
		}
	}

	rec, err := h.service.Upload(c.Request.Context(), UploadInput{
		Filename:    fh.Filename,
		ContentType: contentType,
		Body:        f,
		Size:        fh.Size,
		Caption:     c.PostForm("caption"),
	})
	if err != nil {
		if errors.Is(err, ErrNotImage) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "File must be an image",
				Code:  "NOT_AN_IMAGE",
			})
			return
		}
		h.service.logger.Error("Error uploading image", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Error uploading image",
			Code:  "UPLOAD_FAILED",
		})
		return
	}

	c.JSON(http.StatusCreated, models.UploadResponse{
		Message: "Image uploaded successfully",
		Image:   *rec,
	})
}

// Download handles GET /images/:filename by redirecting to the stored object
func (h *Handler) Download(c *gin.Context) {
	url, err := h.service.DownloadURL(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Image not found",
				Code:  "NOT_FOUND",
			})
			return
		}
		h.service.logger.Error("Error generating download URL", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to generate download URL",
			Code:  "GENERATION_FAILED",
		})
		return
	}

	c.Redirect(http.StatusFound, url)
}

func (h *Handler) fileTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error: fmt.Sprintf("File size must be less than %dMB", h.maxBytes>>20),
		Code:  "FILE_TOO_LARGE",
	})
}
