package feed

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout renders created_at as e.g. "May 1, 2024, 6:30 PM".
const TimestampLayout = "Jan 2, 2006, 3:04 PM"

const (
	LoadingMessage = "Loading..."
	EmptyMessage   = "No images yet. Be the first to share!"
	Heading        = "Timeline"
)

// Mode is what the feed shows, in priority order.
type Mode int

const (
	ModeLoading Mode = iota
	ModeEmpty
	ModeList
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeEmpty:
		return "empty"
	case ModeList:
		return "list"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Like is the display state of the like indicator. The indicator is read-only.
type Like struct {
	Filled    bool
	Count     int
	ShowCount bool
}

// Item is the presentation of one record.
type Item struct {
	ID        string
	ImageURL  string
	Caption   string
	Timestamp string
	Like      Like
}

// HasCaption reports whether a caption line is rendered.
func (i Item) HasCaption() bool {
	return i.Caption != ""
}

// View is the rendered feed.
type View struct {
	Mode  Mode
	Items []Item
}

// Renderer builds views. The zero value formats timestamps in the local zone.
type Renderer struct {
	Location *time.Location
}

// Build applies the render rules to s.
func (r Renderer) Build(s Snapshot) View {
	if s.Loading {
		return View{Mode: ModeLoading}
	}
	if len(s.Records) == 0 {
		return View{Mode: ModeEmpty}
	}

	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	items := make([]Item, 0, len(s.Records))
	for _, rec := range s.Records {
		likes := rec.LikeCount()
		items = append(items, Item{
			ID:        rec.ID,
			ImageURL:  rec.ImageURL,
			Caption:   rec.CaptionText(),
			Timestamp: rec.CreatedAt.In(loc).Format(TimestampLayout),
			Like: Like{
				Filled:    likes > 0,
				Count:     likes,
				ShowCount: likes > 0,
			},
		})
	}

	return View{Mode: ModeList, Items: items}
}

// WriteText renders v as plain text.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	switch v.Mode {
	case ModeLoading:
		b.WriteString(LoadingMessage + "\n")
	case ModeEmpty:
		b.WriteString(EmptyMessage + "\n")
	default:
		b.WriteString(Heading + "\n")
		for _, item := range v.Items {
			b.WriteString("\n")
			fmt.Fprintf(&b, "  %s\n", item.ImageURL)
			if item.HasCaption() {
				fmt.Fprintf(&b, "  %s\n", item.Caption)
			}
			fmt.Fprintf(&b, "  %s  %s\n", item.Timestamp, likeText(item.Like))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func likeText(l Like) string {
	if !l.Filled {
		return "♡"
	}
	if l.ShowCount {
		return "♥ " + strconv.Itoa(l.Count)
	}
	return "♥"
}
