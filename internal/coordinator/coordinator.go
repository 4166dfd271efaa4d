// Package coordinator owns the canonical feed list and connects the composer's
// upload notification to a feed refresh.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"timeline/internal/client"
	"timeline/internal/composer"
	"timeline/internal/feed"
	"timeline/internal/models"
)

// Lister fetches the full record list.
type Lister interface {
	ListImages(ctx context.Context) ([]models.ImageRecord, error)
}

// API is the server surface the app needs.
type API interface {
	Lister
	UploadImage(ctx context.Context, up client.Upload) error
}

// Coordinator refreshes the feed state from the server.
type Coordinator struct {
	lister Lister
	state  *feed.State
	logger *slog.Logger

	refreshMu sync.Mutex
}

// New creates a coordinator over state.
func New(lister Lister, state *feed.State, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		lister: lister,
		state:  state,
		logger: logger,
	}
}

// Refresh re-fetches the whole list and replaces the held one. A failed fetch is
// logged and leaves the current list in place. Loading is cleared either way.
// Concurrent calls run one after another.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.state.SetLoading(true)
	defer c.state.SetLoading(false)

	records, err := c.lister.ListImages(ctx)
	if err != nil {
		c.logger.Error("Error fetching images", "error", err)
		return
	}

	c.state.Replace(records)
}

// UploadCompleted is the composer's notification hook.
func (c *Coordinator) UploadCompleted(ctx context.Context) {
	c.Refresh(ctx)
}

// AppConfig tunes NewApp.
type AppConfig struct {
	Logger        *slog.Logger
	Location      *time.Location
	SuccessWindow time.Duration
	Previewer     composer.Previewer
}

// App is the single view: a composer above a feed.
type App struct {
	Coordinator *Coordinator
	Composer    *composer.Composer
	Feed        *feed.State
	Renderer    feed.Renderer
}

// NewApp wires the components around api.
func NewApp(api API, cfg AppConfig) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := feed.NewState()
	coord := New(api, state, logger)

	opts := []composer.Option{composer.WithLogger(logger)}
	if cfg.Previewer != nil {
		opts = append(opts, composer.WithPreviewer(cfg.Previewer))
	}
	if cfg.SuccessWindow > 0 {
		opts = append(opts, composer.WithSuccessWindow(cfg.SuccessWindow))
	}

	return &App{
		Coordinator: coord,
		Composer:    composer.New(api, coord.UploadCompleted, opts...),
		Feed:        state,
		Renderer:    feed.Renderer{Location: cfg.Location},
	}
}

// Start performs the initial load.
func (a *App) Start(ctx context.Context) {
	a.Coordinator.Refresh(ctx)
}

// FeedView renders the current feed state.
func (a *App) FeedView() feed.View {
	return a.Renderer.Build(a.Feed.Snapshot())
}

// Close stops background work.
func (a *App) Close() {
	a.Composer.Close()
}
