package main

import (
	"fmt"
	"io"
	"strings"

	"timeline/internal/composer"
)

const (
	draftHeading       = "Share a moment"
	captionPlaceholder = "Add a caption..."
)

// writeDraft renders the submission panel.
func writeDraft(w io.Writer, s composer.Snapshot) error {
	var b strings.Builder

	b.WriteString(draftHeading + "\n")

	if s.Error != "" {
		fmt.Fprintf(&b, "  ! %s\n", s.Error)
	}
	if s.Succeeded() {
		fmt.Fprintf(&b, "  ✓ %s\n", composer.SuccessMessage)
	}

	if s.Preview != "" {
		fmt.Fprintf(&b, "  Preview: %s\n", describePreview(s.Preview))
	}

	if s.HasFile() {
		fmt.Fprintf(&b, "  File: %s (%s, %s)\n", s.File.Name, humanSize(s.File.Size), s.File.ContentType)
	} else {
		b.WriteString("  File: none\n")
	}

	if s.Caption != "" {
		fmt.Fprintf(&b, "  Caption: %s\n", s.Caption)
	} else {
		fmt.Fprintf(&b, "  Caption: (%s)\n", captionPlaceholder)
	}

	switch {
	case s.Uploading():
		b.WriteString("  [Uploading...]\n")
	case s.HasFile():
		b.WriteString("  [Choose Image] [Post] [Clear]\n")
	default:
		b.WriteString("  [Choose Image]\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// describePreview summarizes a data URI without printing its payload.
func describePreview(uri string) string {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "ready"
	}
	mediaType, _, _ := strings.Cut(header, ";")
	return fmt.Sprintf("ready (%s, %s encoded)", mediaType, humanSize(int64(len(payload))))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
