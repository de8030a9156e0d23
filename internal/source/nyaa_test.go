package source

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `
<html><body>
<table class="torrent-list">
<tbody>
<tr class="success">
  <td><a href="/?c=1_2" title="Anime - English Translated"><i class="fa"></i></a></td>
  <td><a href="/view/1837736#comments" class="comments">3</a><a href="/view/1837736" title="[Group] Some Show - 01 (1080p) [ABCD1234].mkv">[Group] Some Show - 01 (1080p) [ABCD1234].mkv</a></td>
  <td><a href="/download/1837736.torrent"><i class="fa fa-download"></i></a><a href="magnet:?xt=urn:btih:deadbeef"><i class="fa fa-magnet"></i></a></td>
  <td>1.4 GiB</td>
  <td data-timestamp="1700000000">2023-11-14 22:13</td>
  <td>120</td>
  <td>4</td>
  <td>1337</td>
</tr>
<tr class="danger">
  <td><a href="/?c=3_1" title="Literature - English Translated"><i class="fa"></i></a></td>
  <td><a href="/view/1837001" title="Some Manga v01-v10">Some Manga v01-v10</a></td>
  <td><a href="/download/1837001.torrent"><i class="fa fa-download"></i></a><a href="magnet:?xt=urn:btih:cafebabe"><i class="fa fa-magnet"></i></a></td>
  <td>512 Bytes</td>
  <td data-timestamp="1690000000">2023-07-22 05:40</td>
  <td>5</td>
  <td>1</td>
  <td>12000</td>
</tr>
</tbody>
</table>
<div class="pagination-page-info">Displaying results 1-75 out of 1069 results.</div>
</body></html>`

func TestParseIndexPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resultsPage))
	require.NoError(t, err)
	base, _ := url.Parse("https://nyaa.si/")

	res, err := parseIndexPage(doc, base, (&NyaaHTML{}).Info(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 1069, res.Total)
	assert.Equal(t, 15, res.LastPage)
	require.Len(t, res.Items, 2)

	first := res.Items[0]
	assert.Equal(t, "1837736", first.ID)
	assert.Equal(t, "[Group] Some Show - 01 (1080p) [ABCD1234].mkv", first.Title)
	assert.Equal(t, "1.4 GB", first.Size)
	assert.Equal(t, TypeTrusted, first.Type)
	assert.Equal(t, 12, first.CategoryID)
	assert.Equal(t, "Sub", first.IconLabel)
	assert.Equal(t, 120, first.Seeders)
	assert.Equal(t, 4, first.Leechers)
	assert.Equal(t, 1337, first.Downloads)
	assert.Equal(t, "https://nyaa.si/download/1837736.torrent", first.TorrentLink)
	assert.Equal(t, "magnet:?xt=urn:btih:deadbeef", first.MagnetLink)
	assert.Equal(t, "https://nyaa.si/view/1837736", first.PostLink)
	assert.Equal(t, "1837736.torrent", first.FileName)

	second := res.Items[1]
	assert.Equal(t, TypeRemake, second.Type)
	assert.Equal(t, 31, second.CategoryID)
	assert.Equal(t, "512 B", second.Size)
	assert.Equal(t, int64(512), second.Bytes)
}

func TestParseIndexPageWithoutPaginationInfo(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	base, _ := url.Parse("https://nyaa.si/")

	res, err := parseIndexPage(doc, base, (&NyaaHTML{}).Info(), "", "")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 100, res.LastPage)
	assert.Equal(t, 7500, res.Total)
}

func TestParseIndexPageIDPrefix(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resultsPage))
	require.NoError(t, err)
	base, _ := url.Parse("https://sukebei.nyaa.si/")

	res, err := parseIndexPage(doc, base, (&SukebeiHTML{}).Info(), "sukebei-", "")
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "sukebei-1837736", res.Items[0].ID)
	assert.Equal(t, "sukebei-1837736.torrent", res.Items[0].FileName)
}

func TestSearchURL(t *testing.T) {
	base, _ := url.Parse("https://nyaa.si/")
	u := searchURL(base, SearchQuery{
		Query:    "one piece",
		Page:     3,
		Category: 12,
		Filter:   2,
		Sort:     2,
		Dir:      SortAsc,
		User:     "subgroup",
	})

	q := u.Query()
	assert.Equal(t, "one piece", q.Get("q"))
	assert.Equal(t, "1_2", q.Get("c"))
	assert.Equal(t, "2", q.Get("f"))
	assert.Equal(t, "3", q.Get("p"))
	assert.Equal(t, "seeders", q.Get("s"))
	assert.Equal(t, "asc", q.Get("o"))
	assert.Equal(t, "subgroup", q.Get("u"))
	assert.False(t, q.Has("code"))
}

func TestSearchURLCaptchaToken(t *testing.T) {
	base, _ := url.Parse("https://nyaa.si/")
	u := searchURL(base, SearchQuery{CaptchaToken: "abc123"})
	assert.Equal(t, "abc123", u.Query().Get("code"))
}

func TestNyaaSortURL(t *testing.T) {
	assert.Equal(t, "id", nyaaSortURL(0))
	assert.Equal(t, "downloads", nyaaSortURL(1))
	assert.Equal(t, "seeders", nyaaSortURL(2))
	assert.Equal(t, "leechers", nyaaSortURL(3))
	assert.Equal(t, "size", nyaaSortURL(4))
	assert.Equal(t, "id", nyaaSortURL(42))
}

func TestInfoLookups(t *testing.T) {
	info := (&NyaaHTML{}).Info()

	assert.Equal(t, 0, info.EntryByKey("AllCategories").ID)
	assert.Equal(t, 12, info.EntryByKey("AnimeEnglishTranslated").ID)
	// Unknown keys fall back to the first entry.
	assert.Equal(t, 0, info.EntryByKey("NoSuchCategory").ID)
	assert.Equal(t, "English Translated", info.EntryByID(12).Name)

	assert.Equal(t, 2, IndexOf(info.Sorts, "Seeders"))
	assert.Equal(t, 0, IndexOf(info.Sorts, "Bogus"))
}

func TestSortItems(t *testing.T) {
	items := []Item{
		{ID: "a", Seeders: 5, Bytes: 300},
		{ID: "b", Seeders: 50, Bytes: 100},
		{ID: "c", Seeders: 20, Bytes: 200},
	}

	sortItems(items, 2, SortDesc)
	assert.Equal(t, []string{"b", "c", "a"}, ids(items))

	sortItems(items, 2, SortAsc)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))

	sortItems(items, 4, SortDesc)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
