package client

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"

	"toru/internal/config"
	"toru/internal/debuglog"
	"toru/internal/source"
)

// AppOpener hands each item's magnet link to an application, falling
// back to the platform opener when none is configured. The magnet link
// carries the item to whatever handles the magnet: scheme.
type AppOpener struct{}

func (o *AppOpener) Download(_ context.Context, _ *http.Client, items []source.Item, cfg *config.Config) Outcome {
	out := Outcome{Batch: len(items) > 1}

	app := cfg.Clients.Open.Application
	if app == "" {
		app = config.DefaultOpener()
	}

	for _, item := range items {
		link := item.MagnetLink
		if link == "" {
			link = item.TorrentLink
		}
		if link == "" {
			out.fail("%s: nothing to open", item.Title)
			continue
		}

		cmd := exec.Command(app, link)
		debuglog.Debugf("opening %s with %s", link, app)
		if err := cmd.Start(); err != nil {
			out.fail("%s: starting %s: %v", item.Title, app, err)
			continue
		}
		go func() { _ = cmd.Wait() }()

		out.success(item.ID)
	}

	if n := len(out.SuccessIDs); n == 1 {
		out.SuccessMsg = fmt.Sprintf("Opened \"%s\" in %s", items[0].Title, app)
	} else if n > 1 {
		out.SuccessMsg = fmt.Sprintf("Opened %d items in %s", n, app)
	}
	return out
}
