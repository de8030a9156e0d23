package source

import (
	"context"
	"net/http"

	"toru/internal/config"
)

// SukebeiHTML scrapes the sukebei index. The markup is identical to the
// main site; only the category tree and base URL differ. Item ids carry
// a "sukebei-" prefix so the two backends never collide in history.
type SukebeiHTML struct{}

func (s *SukebeiHTML) Search(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error) {
	idx := cfg.Sources.Sukebei
	if idx.RSS {
		return searchRSS(ctx, client, q, idx, s.Info(), "sukebei-", cfg.General.UserAgent)
	}
	return searchHTML(ctx, client, q, idx, s.Info(), "sukebei-", cfg)
}

func (s *SukebeiHTML) Sort(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error) {
	return s.Search(ctx, client, q, cfg)
}

func (s *SukebeiHTML) Filter(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error) {
	return s.Search(ctx, client, q, cfg)
}

func (s *SukebeiHTML) Categorize(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error) {
	return s.Search(ctx, client, q, cfg)
}

func (s *SukebeiHTML) Info() Info {
	return Info{
		Filters: nyaaFilters,
		Sorts:   nyaaSorts,
		Groups: []CategoryGroup{
			{Name: "All Categories", Entries: []Category{
				{ID: 0, Label: "---", Name: "All Categories", Key: "AllCategories", Color: "#FFFFFF"},
			}},
			{Name: "Art", Entries: []Category{
				{ID: 10, Label: "Art", Name: "All Art", Key: "AllArt", Color: "#808080"},
				{ID: 11, Label: "Ani", Name: "Anime", Key: "ArtAnime", Color: "#FF00FF"},
				{ID: 12, Label: "Dou", Name: "Doujinshi", Key: "ArtDoujinshi", Color: "#8BE9FD"},
				{ID: 13, Label: "Gam", Name: "Games", Key: "ArtGames", Color: "#50FA7B"},
				{ID: 14, Label: "Man", Name: "Manga", Key: "ArtManga", Color: "#F1FA8C"},
				{ID: 15, Label: "Pic", Name: "Pictures", Key: "ArtPictures", Color: "#FF79C6"},
			}},
			{Name: "Real Life", Entries: []Category{
				{ID: 20, Label: "Rea", Name: "All Real Life", Key: "AllRealLife", Color: "#808080"},
				{ID: 21, Label: "Pho", Name: "Photobooks and Pictures", Key: "RealPhotobooks", Color: "#FF79C6"},
				{ID: 22, Label: "Vid", Name: "Videos", Key: "RealVideos", Color: "#FF5555"},
			}},
		},
	}
}

func (s *SukebeiHTML) DefaultCategory(cfg *config.Config) int {
	return s.Info().EntryByKey(cfg.Sources.Sukebei.DefaultCategory).ID
}

func (s *SukebeiHTML) DefaultSort(cfg *config.Config) int {
	return IndexOf(nyaaSorts, cfg.Sources.Sukebei.DefaultSort)
}

func (s *SukebeiHTML) DefaultFilter(cfg *config.Config) int {
	return IndexOf(nyaaFilters, cfg.Sources.Sukebei.DefaultFilter)
}
