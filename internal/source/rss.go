package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"toru/internal/config"
	"toru/internal/debuglog"
)

// searchRSS fetches one feed page from a nyaa-style index. The feed
// carries no pagination and no server-side ordering, so the result is a
// single page sorted locally.
func searchRSS(ctx context.Context, client *http.Client, q SearchQuery, idx config.IndexConfig, info Info, idPrefix, userAgent string) (*Response, error) {
	base, err := url.Parse(AddProtocol(idx.BaseURL, true))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	high, low := q.Category/10, q.Category%10
	values := url.Values{}
	values.Set("page", "rss")
	values.Set("q", q.Query)
	values.Set("c", fmt.Sprintf("%d_%d", high, low))
	values.Set("f", strconv.Itoa(q.Filter))
	values.Set("u", q.User)
	values.Set("m", "")
	u := *base
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	debuglog.Debugf("rss %s", &u)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s\ninvalid response code: %d", &u, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		items = append(items, feedItem(entry, base, info, idPrefix))
	}
	sortItems(items, q.Sort, q.Dir)

	return &Response{Items: items, LastPage: 1, Total: len(items)}, nil
}

func feedItem(entry *gofeed.Item, base *url.URL, info Info, idPrefix string) Item {
	ext := func(name string) string {
		if ns, ok := entry.Extensions["nyaa"]; ok {
			if vals, ok := ns[name]; ok && len(vals) > 0 {
				return vals[0].Value
			}
		}
		return ""
	}

	id := strings.TrimSuffix(lastPathSegment(entry.Link), ".torrent")
	if idPrefix != "" && id != "" {
		id = idPrefix + id
	}

	catID := 0
	if parts := strings.SplitN(ext("categoryId"), "_", 2); len(parts) == 2 {
		high, _ := strconv.Atoi(parts[0])
		low, _ := strconv.Atoi(parts[1])
		catID = high*10 + low
	}
	cat := info.EntryByID(catID)

	itemType := TypeNone
	if ext("trusted") == "Yes" {
		itemType = TypeTrusted
	} else if ext("remake") == "Yes" {
		itemType = TypeRemake
	}

	date := ""
	if entry.PublishedParsed != nil {
		date = entry.PublishedParsed.Format("2006-01-02 15:04")
	}

	postLink := entry.GUID
	if u, err := base.Parse(postLink); err == nil {
		postLink = u.String()
	}

	size := NormalizeSize(ext("size"))
	return Item{
		ID:          id,
		Title:       entry.Title,
		Size:        size,
		Bytes:       ToBytes(size),
		Date:        date,
		Seeders:     atoi(ext("seeders")),
		Leechers:    atoi(ext("leechers")),
		Downloads:   atoi(ext("downloads")),
		CategoryID:  cat.ID,
		IconLabel:   cat.Label,
		IconColor:   cat.Color,
		Type:        itemType,
		TorrentLink: entry.Link,
		MagnetLink:  "magnet:?xt=urn:btih:" + ext("infoHash"),
		PostLink:    postLink,
		FileName:    id + ".torrent",
		Extra:       map[string]string{"infoHash": ext("infoHash")},
	}
}

// sortItems orders a feed page locally using the same keys the HTML
// backend asks the server for.
func sortItems(items []Item, key int, dir SortDir) {
	less := func(a, b Item) bool { return a.Date > b.Date }
	switch key {
	case 1:
		less = func(a, b Item) bool { return a.Downloads > b.Downloads }
	case 2:
		less = func(a, b Item) bool { return a.Seeders > b.Seeders }
	case 3:
		less = func(a, b Item) bool { return a.Leechers > b.Leechers }
	case 4:
		less = func(a, b Item) bool { return a.Bytes > b.Bytes }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if dir == SortAsc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
