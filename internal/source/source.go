package source

import (
	"context"
	"fmt"
	"net/http"

	"toru/internal/config"
)

// ItemType classifies an entry the way the index marks its rows.
type ItemType int

const (
	TypeNone ItemType = iota
	TypeTrusted
	TypeRemake
)

// SortDir is the requested ordering direction for a sort key.
type SortDir int

const (
	SortDesc SortDir = iota
	SortAsc
)

func (d SortDir) URL() string {
	if d == SortAsc {
		return "asc"
	}
	return "desc"
}

// Item is one result entry from an index.
type Item struct {
	ID        string
	Title     string
	Size      string
	Bytes     int64
	Date      string
	Seeders   int
	Leechers  int
	Downloads int

	CategoryID int
	IconLabel  string
	IconColor  string
	Type       ItemType

	TorrentLink string
	MagnetLink  string
	PostLink    string
	FileName    string

	// Extra holds free-form metadata such as external database ids.
	Extra map[string]string
}

// SearchQuery is an immutable snapshot of everything a background task
// needs to perform one search. It is built fresh per task and never
// mutated afterwards.
type SearchQuery struct {
	Query        string
	Page         int
	Category     int
	Filter       int
	Sort         int
	Dir          SortDir
	User         string
	CaptchaToken string
}

// Response is a complete result page. It replaces the previous result
// set wholesale; partial updates never happen.
type Response struct {
	Items    []Item
	LastPage int
	Total    int
}

// Category is one selectable category entry of an index.
type Category struct {
	ID    int
	Label string
	Name  string
	Key   string
	Color string
}

// CategoryGroup is a named group of categories shown in the picker.
type CategoryGroup struct {
	Name    string
	Entries []Category
}

// Info describes what an index supports: its category tree and the
// names of its filters and sort keys.
type Info struct {
	Groups  []CategoryGroup
	Filters []string
	Sorts   []string
}

// EntryByKey resolves a category by its config key. Unknown keys fall
// back to the first entry so a stale config never breaks startup.
func (i Info) EntryByKey(key string) Category {
	for _, g := range i.Groups {
		for _, c := range g.Entries {
			if c.Key == key {
				return c
			}
		}
	}
	if len(i.Groups) > 0 && len(i.Groups[0].Entries) > 0 {
		return i.Groups[0].Entries[0]
	}
	return Category{}
}

// EntryByID resolves a category by its numeric id.
func (i Info) EntryByID(id int) Category {
	for _, g := range i.Groups {
		for _, c := range g.Entries {
			if c.ID == id {
				return c
			}
		}
	}
	return i.EntryByKey("")
}

// IndexOf returns the position of name in list, or 0.
func IndexOf(list []string, name string) int {
	for i, s := range list {
		if s == name {
			return i
		}
	}
	return 0
}

// CaptchaError is returned by a backend when the index answered with a
// challenge instead of results. The runtime switches to the captcha
// overlay and retries the search with the solved token.
type CaptchaError struct {
	ImageURL string
}

func (e *CaptchaError) Error() string {
	return "index requires a captcha"
}

// Source turns queries into result pages from one remote index.
// Implementations are a closed, compile-time set.
type Source interface {
	Search(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error)
	Sort(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error)
	Filter(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error)
	Categorize(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error)

	Info() Info
	DefaultCategory(cfg *config.Config) int
	DefaultSort(cfg *config.Config) int
	DefaultFilter(cfg *config.Config) int
}

// Sources identifies one of the built-in backends.
type Sources string

const (
	NyaaSource    Sources = "nyaa"
	SukebeiSource Sources = "sukebei"
)

func (s Sources) String() string {
	switch s {
	case NyaaSource:
		return "Nyaa"
	case SukebeiSource:
		return "Sukebei"
	}
	return string(s)
}

// All lists the selectable backends in picker order.
func All() []Sources {
	return []Sources{NyaaSource, SukebeiSource}
}

// Lookup resolves a config name to a backend.
func Lookup(name string) (Sources, error) {
	switch Sources(name) {
	case NyaaSource, SukebeiSource:
		return Sources(name), nil
	}
	return NyaaSource, fmt.Errorf("unknown source %q", name)
}

// Get returns the implementation for s.
func Get(s Sources) Source {
	switch s {
	case SukebeiSource:
		return &SukebeiHTML{}
	default:
		return &NyaaHTML{}
	}
}
