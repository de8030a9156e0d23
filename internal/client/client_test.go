package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toru/internal/config"
	"toru/internal/source"
)

func TestLookup(t *testing.T) {
	c, err := Lookup("save")
	require.NoError(t, err)
	assert.Equal(t, SaveClient, c)

	_, err = Lookup("torrentd")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	assert.IsType(t, &CmdRunner{}, Get(CmdClient))
	assert.IsType(t, &TorrentSaver{}, Get(SaveClient))
	assert.IsType(t, &AppOpener{}, Get(OpenClient))
}

func TestSubstituteCommand(t *testing.T) {
	item := source.Item{
		Title:       "Some Show - 01",
		TorrentLink: "https://nyaa.si/download/1.torrent",
		MagnetLink:  "magnet:?xt=urn:btih:deadbeef",
		FileName:    "1.torrent",
	}

	got := substituteCommand(`transmission-remote -a "{magnet}" # {title} {file}`, item)
	assert.Equal(t, `transmission-remote -a "magnet:?xt=urn:btih:deadbeef" # Some Show - 01 1.torrent`, got)

	got = substituteCommand("curl -sOJ {torrent}", item)
	assert.Equal(t, "curl -sOJ https://nyaa.si/download/1.torrent", got)
}

func TestCmdRunnerEmptyCommand(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Clients.Cmd.Command = "  "

	out := (&CmdRunner{}).Download(context.Background(), nil, []source.Item{{ID: "1"}}, cfg)
	assert.Empty(t, out.SuccessIDs)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "no download command")
}

func TestCmdRunnerBlankShellFallsBack(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Clients.Cmd.Command = "true # {title}"
	cfg.Clients.Cmd.Shell = "   "

	out := (&CmdRunner{}).Download(context.Background(), nil, []source.Item{{ID: "1", Title: "first"}}, cfg)
	assert.Equal(t, []string{"1"}, out.SuccessIDs)
	assert.Empty(t, out.Errors)
}

func TestCmdRunnerSuccess(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Clients.Cmd.Command = "true # {title}"
	cfg.Clients.Cmd.Shell = "sh -c"

	items := []source.Item{
		{ID: "1", Title: "first"},
		{ID: "2", Title: "second"},
	}
	out := (&CmdRunner{}).Download(context.Background(), nil, items, cfg)

	assert.True(t, out.Batch)
	assert.Equal(t, []string{"1", "2"}, out.SuccessIDs)
	assert.Empty(t, out.Errors)
	assert.Contains(t, out.SuccessMsg, "2 items")
}

func TestTorrentSaver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.torrent" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("d8:announce0:e"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.TestConfig()
	cfg.Clients.Save.Dir = dir
	cfg.Clients.Save.CreateDir = false

	items := []source.Item{
		{ID: "1", Title: "good", TorrentLink: srv.URL + "/1.torrent", FileName: "1.torrent"},
		{ID: "2", Title: "bad", TorrentLink: srv.URL + "/missing.torrent", FileName: "2.torrent"},
	}
	out := (&TorrentSaver{}).Download(context.Background(), srv.Client(), items, cfg)

	assert.Equal(t, []string{"1"}, out.SuccessIDs)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "bad")

	data, err := os.ReadFile(filepath.Join(dir, "1.torrent"))
	require.NoError(t, err)
	assert.Equal(t, "d8:announce0:e", string(data))
}

func TestTorrentSaverNoOverwrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.torrent"), []byte("old"), 0o644))

	cfg := config.TestConfig()
	cfg.Clients.Save.Dir = dir
	cfg.Clients.Save.Overwrite = false

	items := []source.Item{{ID: "1", TorrentLink: srv.URL + "/1.torrent", FileName: "1.torrent"}}
	out := (&TorrentSaver{}).Download(context.Background(), srv.Client(), items, cfg)
	require.Empty(t, out.Errors)

	// The existing file stays untouched; the new one gets a suffix.
	old, err := os.ReadFile(filepath.Join(dir, "1.torrent"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))

	fresh, err := os.ReadFile(filepath.Join(dir, "1 (1).torrent"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(fresh))
}

func TestTorrentSaverMissingDir(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Clients.Save.Dir = filepath.Join(t.TempDir(), "nope")
	cfg.Clients.Save.CreateDir = false

	out := (&TorrentSaver{}).Download(context.Background(), http.DefaultClient, []source.Item{{ID: "1"}}, cfg)
	assert.Empty(t, out.SuccessIDs)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "does not exist")
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.torrent")

	assert.Equal(t, path, uniquePath(path))

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "a (1).torrent"), uniquePath(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a (1).torrent"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "a (2).torrent"), uniquePath(path))
}
