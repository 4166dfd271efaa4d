package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestDataURI_ScalesLargeImage(t *testing.T) {
	g := NewGenerator()

	uri, err := g.DataURI(context.Background(), bytes.NewReader(encodePNG(t, 800, 200)), "image/png")
	if err != nil {
		t.Fatalf("DataURI returned error: %v", err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("Expected %s prefix, got %.40s", prefix, uri)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("Preview payload is not base64: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Preview payload is not a PNG: %v", err)
	}
	if cfg.Width != MaxWidth || cfg.Height != 100 {
		t.Errorf("Expected %dx100 preview, got %dx%d", MaxWidth, cfg.Width, cfg.Height)
	}
}

func TestDataURI_JPEGSourceStaysJPEG(t *testing.T) {
	uri, err := NewGenerator().DataURI(context.Background(), bytes.NewReader(encodePNG(t, 10, 10)), "image/jpeg")
	if err != nil {
		t.Fatalf("DataURI returned error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("Expected jpeg data URI, got %.40s", uri)
	}
}

func TestDataURI_UndecodableInput(t *testing.T) {
	_, err := NewGenerator().DataURI(context.Background(), strings.NewReader("definitely not an image"), "image/png")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}

func TestDataURI_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator().DataURI(ctx, bytes.NewReader(encodePNG(t, 4, 4)), "image/png")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
