package tui

import (
	"context"
	"errors"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"

	"toru/internal/client"
	"toru/internal/config"
	"toru/internal/debuglog"
	"toru/internal/source"
)

// startSearch cancels any in-flight search, bumps the generation and
// dispatches a fresh task. The mode drops back to Normal in the same
// update so input handling never blocks on the network.
func (a *App) startSearch(kind LoadKind) tea.Cmd {
	if a.searchCancel != nil {
		a.searchCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.searchCancel = cancel
	a.searchGen++
	a.loading = kind
	a.mode = normalMode()

	return tea.Batch(a.spin.Tick, a.searchCmd(ctx, a.searchGen, kind, a.query()))
}

func (a *App) searchCmd(ctx context.Context, gen int, kind LoadKind, q source.SearchQuery) tea.Cmd {
	backend := a.backend
	httpClient := a.httpClient
	// The update loop keeps mutating the live config; the task gets a
	// copy taken at spawn time.
	cfg := *a.config

	return func() tea.Msg {
		var res *source.Response
		var err error
		switch kind {
		case LoadSorting:
			res, err = backend.Sort(ctx, httpClient, q, &cfg)
		case LoadFiltering:
			res, err = backend.Filter(ctx, httpClient, q, &cfg)
		case LoadCategorizing:
			res, err = backend.Categorize(ctx, httpClient, q, &cfg)
		default:
			res, err = backend.Search(ctx, httpClient, q, &cfg)
		}

		var captcha *source.CaptchaError
		if errors.As(err, &captcha) {
			return searchDoneMsg{gen: gen, captcha: captcha}
		}
		return searchDoneMsg{gen: gen, res: res, err: err}
	}
}

// startDownload hands items to the active client in the background.
func (a *App) startDownload(items []source.Item, kind LoadKind) tea.Cmd {
	if len(items) == 0 {
		return nil
	}
	a.downloads++
	a.mode = normalMode()

	dl := client.Get(a.dlc)
	httpClient := a.httpClient
	cfg := *a.config
	store := a.store
	sourceName := string(a.src)
	clientName := string(a.dlc)

	fromBatch := kind == LoadBatching

	return tea.Batch(a.spin.Tick, func() tea.Msg {
		out := dl.Download(context.Background(), httpClient, items, &cfg)
		out.Batch = fromBatch

		if len(out.SuccessIDs) > 0 {
			ok := make(map[string]bool, len(out.SuccessIDs))
			for _, id := range out.SuccessIDs {
				ok[id] = true
			}
			var done []source.Item
			for _, item := range items {
				if ok[item.ID] {
					done = append(done, item)
				}
			}
			if err := store.Record(done, sourceName, clientName); err != nil {
				debuglog.Warnf("recording history: %v", err)
			}
		}

		return downloadDoneMsg{outcome: out}
	})
}

// maybeSaveConfig persists the config after a setting change when the
// user opted in.
func (a *App) maybeSaveConfig() tea.Cmd {
	if !a.config.General.SaveConfigOnChange {
		return nil
	}
	cfg := *a.config
	path := a.configPath
	return func() tea.Msg {
		return configSavedMsg{err: config.Save(&cfg, path)}
	}
}

// openPost hands the selected item's post page to the platform opener.
func (a *App) openPost() tea.Cmd {
	item := a.results.current()
	if item == nil || item.PostLink == "" || item.PostLink == "null" {
		return nil
	}
	link := item.PostLink

	app := a.config.Clients.Open.Application
	if app == "" {
		app = config.DefaultOpener()
	}
	return func() tea.Msg {
		cmd := exec.Command(app, link)
		if err := cmd.Start(); err != nil {
			return errorMsg{err: err}
		}
		go func() { _ = cmd.Wait() }()
		return nil
	}
}
