package client

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"strings"

	"toru/internal/config"
	"toru/internal/debuglog"
	"toru/internal/source"
)

// CmdRunner hands each item to a user-configured shell command. The
// command template may reference {torrent}, {magnet}, {title} and
// {file}; every occurrence is substituted per item.
type CmdRunner struct{}

func (r *CmdRunner) Download(ctx context.Context, _ *http.Client, items []source.Item, cfg *config.Config) Outcome {
	out := Outcome{Batch: len(items) > 1}

	command := cfg.Clients.Cmd.Command
	if strings.TrimSpace(command) == "" {
		out.fail("no download command configured")
		return out
	}

	shellParts := strings.Fields(cfg.Clients.Cmd.Shell)
	if len(shellParts) == 0 {
		shellParts = []string{"sh", "-c"}
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			out.fail("%s: %v", item.Title, err)
			continue
		}

		line := substituteCommand(command, item)
		args := append(append([]string{}, shellParts[1:]...), line)
		cmd := exec.Command(shellParts[0], args...)

		debuglog.Debugf("running %q", line)
		if err := cmd.Start(); err != nil {
			out.fail("%s: starting command: %v", item.Title, err)
			continue
		}
		// Detach; the command outlives the dispatch.
		go func() { _ = cmd.Wait() }()

		out.success(item.ID)
	}

	if n := len(out.SuccessIDs); n == 1 {
		out.SuccessMsg = fmt.Sprintf("Ran command for \"%s\"", items[0].Title)
	} else if n > 1 {
		out.SuccessMsg = fmt.Sprintf("Ran command for %d items", n)
	}
	return out
}

func substituteCommand(command string, item source.Item) string {
	r := strings.NewReplacer(
		"{torrent}", item.TorrentLink,
		"{magnet}", item.MagnetLink,
		"{title}", item.Title,
		"{file}", item.FileName,
	)
	return r.Replace(command)
}
