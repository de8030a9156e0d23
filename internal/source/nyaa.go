package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"toru/internal/config"
	"toru/internal/debuglog"
)

// Results per index page, fixed by the site markup.
const pageSize = 75

var nyaaSorts = []string{"Date", "Downloads", "Seeders", "Leechers", "Size"}

var nyaaFilters = []string{"No Filter", "No Remakes", "Trusted Only", "Batches"}

func nyaaSortURL(sort int) string {
	switch sort {
	case 1:
		return "downloads"
	case 2:
		return "seeders"
	case 3:
		return "leechers"
	case 4:
		return "size"
	default:
		return "id"
	}
}

// NyaaHTML scrapes the public nyaa HTML index.
type NyaaHTML struct{}

func (n *NyaaHTML) Search(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error) {
	idx := cfg.Sources.Nyaa
	if idx.RSS {
		return searchRSS(ctx, client, q, idx, n.Info(), "", cfg.General.UserAgent)
	}
	return searchHTML(ctx, client, q, idx, n.Info(), "", cfg)
}

func (n *NyaaHTML) Sort(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error) {
	return n.Search(ctx, client, q, cfg)
}

func (n *NyaaHTML) Filter(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error) {
	return n.Search(ctx, client, q, cfg)
}

func (n *NyaaHTML) Categorize(ctx context.Context, client *http.Client, q SearchQuery, cfg *config.Config) (*Response, error) {
	return n.Search(ctx, client, q, cfg)
}

func (n *NyaaHTML) Info() Info {
	return Info{
		Filters: nyaaFilters,
		Sorts:   nyaaSorts,
		Groups: []CategoryGroup{
			{Name: "All Categories", Entries: []Category{
				{ID: 0, Label: "---", Name: "All Categories", Key: "AllCategories", Color: "#FFFFFF"},
			}},
			{Name: "Anime", Entries: []Category{
				{ID: 10, Label: "Ani", Name: "All Anime", Key: "AllAnime", Color: "#808080"},
				{ID: 12, Label: "Sub", Name: "English Translated", Key: "AnimeEnglishTranslated", Color: "#FF79C6"},
				{ID: 13, Label: "Sub", Name: "Non-English Translated", Key: "AnimeNonEnglishTranslated", Color: "#50FA7B"},
				{ID: 14, Label: "Raw", Name: "Raw", Key: "AnimeRaw", Color: "#808080"},
				{ID: 11, Label: "AMV", Name: "Anime Music Video", Key: "AnimeMusicVideo", Color: "#FF00FF"},
			}},
			{Name: "Audio", Entries: []Category{
				{ID: 20, Label: "Aud", Name: "All Audio", Key: "AllAudio", Color: "#808080"},
				{ID: 21, Label: "Aud", Name: "Lossless", Key: "AudioLossless", Color: "#FF5555"},
				{ID: 22, Label: "Aud", Name: "Lossy", Key: "AudioLossy", Color: "#F1FA8C"},
			}},
			{Name: "Literature", Entries: []Category{
				{ID: 30, Label: "Lit", Name: "All Literature", Key: "AllLiterature", Color: "#808080"},
				{ID: 31, Label: "Lit", Name: "English Translated", Key: "LitEnglishTranslated", Color: "#50FA7B"},
				{ID: 32, Label: "Lit", Name: "Non-English Translated", Key: "LitNonEnglishTranslated", Color: "#F1FA8C"},
				{ID: 33, Label: "Lit", Name: "Raw", Key: "LitRaw", Color: "#808080"},
			}},
			{Name: "Live Action", Entries: []Category{
				{ID: 40, Label: "Liv", Name: "All Live Action", Key: "AllLiveAction", Color: "#808080"},
				{ID: 41, Label: "Liv", Name: "English Translated", Key: "LiveEnglishTranslated", Color: "#F1FA8C"},
				{ID: 43, Label: "Liv", Name: "Non-English Translated", Key: "LiveNonEnglishTranslated", Color: "#8BE9FD"},
				{ID: 42, Label: "Liv", Name: "Idol/Promo Video", Key: "LiveIdolPromoVideo", Color: "#FFFFA5"},
				{ID: 44, Label: "Liv", Name: "Raw", Key: "LiveRaw", Color: "#808080"},
			}},
			{Name: "Pictures", Entries: []Category{
				{ID: 50, Label: "Pic", Name: "All Pictures", Key: "AllPictures", Color: "#808080"},
				{ID: 51, Label: "Pic", Name: "Graphics", Key: "PicGraphics", Color: "#FF79C6"},
				{ID: 52, Label: "Pic", Name: "Photos", Key: "PicPhotos", Color: "#FF00FF"},
			}},
			{Name: "Software", Entries: []Category{
				{ID: 60, Label: "Sof", Name: "All Software", Key: "AllSoftware", Color: "#808080"},
				{ID: 61, Label: "Sof", Name: "Applications", Key: "SoftApplications", Color: "#0000FF"},
				{ID: 62, Label: "Sof", Name: "Games", Key: "SoftGames", Color: "#87CEFA"},
			}},
		},
	}
}

func (n *NyaaHTML) DefaultCategory(cfg *config.Config) int {
	return n.Info().EntryByKey(cfg.Sources.Nyaa.DefaultCategory).ID
}

func (n *NyaaHTML) DefaultSort(cfg *config.Config) int {
	return IndexOf(nyaaSorts, cfg.Sources.Nyaa.DefaultSort)
}

func (n *NyaaHTML) DefaultFilter(cfg *config.Config) int {
	return IndexOf(nyaaFilters, cfg.Sources.Nyaa.DefaultFilter)
}

// searchURL builds the index query URL shared by every nyaa-style site.
func searchURL(base *url.URL, q SearchQuery) *url.URL {
	high, low := q.Category/10, q.Category%10
	values := url.Values{}
	values.Set("q", q.Query)
	values.Set("c", fmt.Sprintf("%d_%d", high, low))
	values.Set("f", strconv.Itoa(q.Filter))
	values.Set("p", strconv.Itoa(q.Page))
	values.Set("s", nyaaSortURL(q.Sort))
	values.Set("o", q.Dir.URL())
	values.Set("u", q.User)
	if q.CaptchaToken != "" {
		values.Set("code", q.CaptchaToken)
	}
	u := *base
	u.RawQuery = values.Encode()
	return &u
}

func searchHTML(ctx context.Context, client *http.Client, q SearchQuery, idx config.IndexConfig, info Info, idPrefix string, cfg *config.Config) (*Response, error) {
	base, err := url.Parse(AddProtocol(idx.BaseURL, true))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	reqURL := searchURL(base, q)

	if idx.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, idx.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.General.UserAgent)

	debuglog.Debugf("search %s", reqURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		doc, derr := goquery.NewDocumentFromReader(resp.Body)
		if derr == nil {
			if img, ok := doc.Find("img#captcha").Attr("src"); ok {
				src, jerr := base.Parse(img)
				if jerr == nil {
					return nil, &CaptchaError{ImageURL: src.String()}
				}
			}
		}
		return nil, fmt.Errorf("%s\ninvalid response code: %d", reqURL, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s\ninvalid response code: %d", reqURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing results page: %w", err)
	}

	return parseIndexPage(doc, base, info, idPrefix, cfg.General.DateFormat)
}

// parseIndexPage extracts items and pagination from a nyaa-style result
// table. Both built-in backends serve identical markup.
func parseIndexPage(doc *goquery.Document, base *url.URL, info Info, idPrefix, dateFormat string) (*Response, error) {
	// Defaults copied from the site's behavior for pages without the
	// pagination summary (e.g. the landing page).
	lastPage := 100
	total := pageSize * 100
	if txt := doc.Find(".pagination-page-info").First().Text(); txt != "" {
		// The 6th word of the summary is the total result count.
		words := strings.Fields(txt)
		if len(words) >= 6 {
			if n, err := strconv.Atoi(words[5]); err == nil {
				total = n
				lastPage = (n + pageSize - 1) / pageSize
			}
		}
	}

	var items []Item
	doc.Find("table.torrent-list > tbody > tr").Each(func(_ int, row *goquery.Selection) {
		catHref, _ := row.Find("td:first-of-type > a").Attr("href")
		catKey := catHref
		if i := strings.LastIndex(catHref, "="); i >= 0 {
			catKey = catHref[i+1:]
		}
		cat := entryFromQueryValue(info, catKey)

		titleSel := row.Find("td:nth-of-type(2) > a").Last()
		title, _ := titleSel.Attr("title")
		if title == "" {
			title = strings.TrimSpace(titleSel.Text())
		}

		torrentHref, _ := row.Find("td:nth-of-type(3) > a:nth-of-type(1)").Attr("href")
		magnet, _ := row.Find("td:nth-of-type(3) > a:nth-of-type(2)").Attr("href")

		postHref, _ := titleSel.Attr("href")
		postLink := "null"
		if u, err := base.Parse(postHref); err == nil {
			postLink = u.String()
		}
		torrentLink := "null"
		if u, err := base.Parse(torrentHref); err == nil {
			torrentLink = u.String()
		}

		id := strings.TrimSuffix(lastPathSegment(torrentHref), ".torrent")
		if id == "" {
			id = lastPathSegment(postHref)
		}
		if id == "" {
			return
		}
		if idPrefix != "" {
			id = idPrefix + id
		}

		size := NormalizeSize(text(row, "td:nth-of-type(4)", "0 B"))
		date := text(row, "td:nth-of-type(5)", "")
		if dateFormat != "" {
			if t, err := time.Parse("2006-01-02 15:04", date); err == nil {
				date = t.Format(dateFormat)
			}
		}

		itemType := TypeNone
		if row.HasClass("success") {
			itemType = TypeTrusted
		} else if row.HasClass("danger") {
			itemType = TypeRemake
		}

		items = append(items, Item{
			ID:          id,
			Title:       title,
			Size:        size,
			Bytes:       ToBytes(size),
			Date:        date,
			Seeders:     atoi(text(row, "td:nth-of-type(6)", "0")),
			Leechers:    atoi(text(row, "td:nth-of-type(7)", "0")),
			Downloads:   atoi(text(row, "td:nth-of-type(8)", "0")),
			CategoryID:  cat.ID,
			IconLabel:   cat.Label,
			IconColor:   cat.Color,
			Type:        itemType,
			TorrentLink: torrentLink,
			MagnetLink:  magnet,
			PostLink:    postLink,
			FileName:    id + ".torrent",
		})
	})

	return &Response{Items: items, LastPage: lastPage, Total: total}, nil
}

// entryFromQueryValue maps the "1_2" category query value on a row's
// icon link back to a category entry.
func entryFromQueryValue(info Info, v string) Category {
	parts := strings.SplitN(v, "_", 2)
	if len(parts) == 2 {
		high, err1 := strconv.Atoi(parts[0])
		low, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			return info.EntryByID(high*10 + low)
		}
	}
	return info.EntryByKey(v)
}

func lastPathSegment(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func text(row *goquery.Selection, sel, fallback string) string {
	s := strings.TrimSpace(row.Find(sel).First().Text())
	if s == "" {
		return fallback
	}
	return s
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	return n
}
