package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"toru/internal/config"
	"toru/internal/debuglog"
	"toru/internal/source"
)

// TorrentSaver downloads each item's .torrent file into the configured
// directory.
type TorrentSaver struct{}

func (s *TorrentSaver) Download(ctx context.Context, httpClient *http.Client, items []source.Item, cfg *config.Config) Outcome {
	out := Outcome{Batch: len(items) > 1}

	dir := cfg.Clients.Save.Dir
	if dir == "" {
		out.fail("no save directory configured")
		return out
	}
	if cfg.Clients.Save.CreateDir {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			out.fail("creating %s: %v", dir, err)
			return out
		}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		out.fail("save directory %s does not exist", dir)
		return out
	}

	for _, item := range items {
		path, err := s.saveOne(ctx, httpClient, item, dir, cfg)
		if err != nil {
			out.fail("%s: %v", item.Title, err)
			continue
		}
		debuglog.Infof("saved %s", path)
		out.success(item.ID)
	}

	if n := len(out.SuccessIDs); n == 1 {
		out.SuccessMsg = fmt.Sprintf("Saved \"%s\" to %s", items[0].FileName, dir)
	} else if n > 1 {
		out.SuccessMsg = fmt.Sprintf("Saved %d torrent files to %s", n, dir)
	}
	return out
}

func (s *TorrentSaver) saveOne(ctx context.Context, httpClient *http.Client, item source.Item, dir string, cfg *config.Config) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.TorrentLink, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.General.UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching torrent: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("invalid response code: %d", resp.StatusCode)
	}

	name := item.FileName
	if name == "" {
		name = item.ID + ".torrent"
	}
	path := filepath.Join(dir, name)
	if !cfg.Clients.Save.Overwrite {
		path = uniquePath(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing file: %w", err)
	}
	return path, nil
}

// uniquePath appends " (n)" before the extension until the name is free.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
