package client

import (
	"context"
	"fmt"
	"net/http"

	"toru/internal/config"
	"toru/internal/source"
)

// Outcome is the result of one dispatch. SuccessIDs carries the items
// that went through so the caller can clear them from its batch; Errors
// carries one message per failed item.
type Outcome struct {
	Batch      bool
	SuccessIDs []string
	SuccessMsg string
	Errors     []string
}

func (o *Outcome) success(id string) {
	o.SuccessIDs = append(o.SuccessIDs, id)
}

func (o *Outcome) fail(format string, args ...any) {
	o.Errors = append(o.Errors, fmt.Sprintf(format, args...))
}

// Downloader hands a set of result items to one download mechanism.
// Implementations never return an error; per-item failures accumulate
// in the outcome so one bad item doesn't abort the rest of a batch.
type Downloader interface {
	Download(ctx context.Context, httpClient *http.Client, items []source.Item, cfg *config.Config) Outcome
}

// Clients identifies one of the built-in download mechanisms.
type Clients string

const (
	CmdClient  Clients = "cmd"
	SaveClient Clients = "save"
	OpenClient Clients = "open"
)

func (c Clients) String() string {
	switch c {
	case CmdClient:
		return "Run Command"
	case SaveClient:
		return "Save Torrent File"
	case OpenClient:
		return "Open in Application"
	}
	return string(c)
}

// All lists the selectable clients in picker order.
func All() []Clients {
	return []Clients{CmdClient, SaveClient, OpenClient}
}

// Lookup resolves a config name to a client.
func Lookup(name string) (Clients, error) {
	switch Clients(name) {
	case CmdClient, SaveClient, OpenClient:
		return Clients(name), nil
	}
	return CmdClient, fmt.Errorf("unknown client %q", name)
}

// Get returns the implementation for c.
func Get(c Clients) Downloader {
	switch c {
	case SaveClient:
		return &TorrentSaver{}
	case OpenClient:
		return &AppOpener{}
	default:
		return &CmdRunner{}
	}
}
