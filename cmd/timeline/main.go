package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"timeline/internal/client"
	"timeline/internal/config"
	"timeline/internal/coordinator"
	"timeline/internal/feed"
	"timeline/internal/logger"
	"timeline/internal/preview"
)

func main() {
	once := flag.Bool("once", false, "render the feed once and exit")
	flag.Parse()

	// stdout carries the view
	log := logger.NewWithWriter(os.Stderr)
	logger.SetDefault(log)

	cfg, err := config.LoadClient()
	if err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := coordinator.NewApp(client.New(cfg.APIURL, log), coordinator.AppConfig{
		Logger:        log,
		Location:      loc,
		SuccessWindow: cfg.SuccessWindow,
		Previewer:     preview.NewGenerator(),
	})
	defer app.Close()

	app.Start(ctx)

	if *once {
		if err := feed.WriteText(os.Stdout, app.FeedView()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := newConsole(app, os.Stdout).run(ctx, os.Stdin); err != nil {
		log.Error("Console stopped", "error", err)
		os.Exit(1)
	}
}
