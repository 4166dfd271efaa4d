package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"timeline/internal/composer"
	"timeline/internal/coordinator"
	"timeline/internal/feed"
)

const helpText = `Commands:
  select <path>    choose an image file
  caption <text>   set the caption (empty text clears it)
  post             upload the selected image
  clear            discard the draft
  dismiss          hide the error message
  refresh          reload the timeline
  show             redraw the view
  help             show this help
  quit             exit
`

type console struct {
	app *coordinator.App
	out io.Writer
}

func newConsole(app *coordinator.App, out io.Writer) *console {
	return &console{app: app, out: out}
}

// run reads commands from in until quit, EOF or ctx is done.
func (c *console) run(ctx context.Context, in io.Reader) error {
	if err := c.draw(); err != nil {
		return err
	}
	fmt.Fprint(c.out, "> ")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		quit, err := c.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		fmt.Fprint(c.out, "> ")
	}

	return scanner.Err()
}

// exec runs one command line and redraws the view.
func (c *console) exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	comp := c.app.Composer

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		_, err := io.WriteString(c.out, helpText)
		return false, err
	case "select":
		if arg == "" {
			return false, errors.New("usage: select <path>")
		}
		f, err := composer.OpenPath(arg)
		if err != nil {
			return false, err
		}
		// A rejected file is reported through the draft panel.
		if err := comp.Select(f); err != nil && !isValidation(err) {
			return false, err
		}
	case "caption":
		if err := comp.SetCaption(arg); err != nil {
			return false, err
		}
	case "post":
		if !comp.Snapshot().HasFile() {
			return false, errors.New("select an image first")
		}
		fmt.Fprintln(c.out, "Uploading...")
		// Upload failures are reported through the draft panel.
		_ = comp.Submit(ctx)
	case "clear":
		comp.Clear()
	case "dismiss":
		comp.DismissError()
	case "refresh":
		c.app.Coordinator.Refresh(ctx)
	case "show":
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}

	return false, c.draw()
}

func (c *console) draw() error {
	if err := writeDraft(c.out, c.app.Composer.Snapshot()); err != nil {
		return err
	}
	if _, err := io.WriteString(c.out, "\n"); err != nil {
		return err
	}
	return feed.WriteText(c.out, c.app.FeedView())
}

func isValidation(err error) bool {
	var verr *composer.ValidationError
	return errors.As(err, &verr)
}
