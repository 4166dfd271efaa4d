// Package preview turns a selected image blob into an embeddable data URI thumbnail.
package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// Bounds of the generated preview. Larger images are scaled down to fit.
const (
	MaxWidth  = 400
	MaxHeight = 400
)

// ErrDecode is returned when the blob is not an image this package can decode.
var ErrDecode = errors.New("preview: cannot decode image")

// Generator builds previews.
type Generator struct {
	maxWidth  int
	maxHeight int
}

// NewGenerator returns a Generator with the default bounds.
func NewGenerator() *Generator {
	return &Generator{maxWidth: MaxWidth, maxHeight: MaxHeight}
}

// DataURI decodes r, fits it into the preview bounds and returns it as a data URI.
// JPEG sources stay JPEG; everything else is re-encoded as PNG so transparency survives.
func (g *Generator) DataURI(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// Decoding is the slow part; a superseded selection should not pay for encoding too.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img = imaging.Fit(img, g.maxWidth, g.maxHeight, imaging.Lanczos)

	format, mimeType := imaging.PNG, "image/png"
	if strings.EqualFold(contentType, "image/jpeg") || strings.EqualFold(contentType, "image/jpg") {
		format, mimeType = imaging.JPEG, "image/jpeg"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return "", fmt.Errorf("preview: encode: %w", err)
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
