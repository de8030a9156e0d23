package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toru/internal/client"
	"toru/internal/config"
	"toru/internal/history"
	"toru/internal/source"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(config.TestConfig(), "", nil, nil)
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
)

func testItems() []source.Item {
	return []source.Item{
		{ID: "1", Title: "first", Size: "1.0 GB", Bytes: 1 << 30},
		{ID: "2", Title: "second", Size: "500 MB", Bytes: 500 << 20},
		{ID: "3", Title: "third", Size: "200 MB", Bytes: 200 << 20},
	}
}

func loadResults(a *App, items []source.Item) {
	a.Update(searchDoneMsg{
		gen: a.searchGen,
		res: &source.Response{Items: items, LastPage: 10, Total: 750},
	})
}

func TestPopupModeTransitions(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want ModeKind
	}{
		{key("/"), ModeSearch},
		{key("i"), ModeSearch},
		{key("c"), ModeCategory},
		{key("s"), ModeSort},
		{key("S"), ModeSort},
		{key("f"), ModeFilter},
		{key("t"), ModeTheme},
		{key("w"), ModeSources},
		{key("d"), ModeClients},
		{key("p"), ModePage},
		{key("u"), ModeUser},
		{key("?"), ModeHelp},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			app := newTestApp(t)
			app.Update(tt.key)
			assert.Equal(t, tt.want, app.mode.Kind)

			app.Update(keyEsc)
			assert.Equal(t, ModeNormal, app.mode.Kind)
		})
	}
}

func TestSortModeCarriesDirection(t *testing.T) {
	app := newTestApp(t)

	app.Update(key("S"))
	require.Equal(t, ModeSort, app.mode.Kind)
	assert.True(t, app.mode.Reversed)

	app.Update(keyEnter)
	assert.Equal(t, ModeNormal, app.mode.Kind)
	assert.Equal(t, source.SortAsc, app.sortDir)
	assert.Equal(t, LoadSorting, app.loading)
}

func TestDispatchReturnsToNormalImmediately(t *testing.T) {
	app := newTestApp(t)

	app.Update(key("f"))
	app.Update(key("j"))
	_, cmd := app.Update(keyEnter)

	// The task runs in the background; input handling is live again.
	assert.NotNil(t, cmd)
	assert.Equal(t, ModeNormal, app.mode.Kind)
	assert.Equal(t, LoadFiltering, app.loading)
	assert.Equal(t, 1, app.filter)
}

func TestStaleSearchGenerationDiscarded(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(key("l"))
	staleGen := app.searchGen
	app.Update(key("l"))
	require.Equal(t, staleGen+1, app.searchGen)
	assert.Equal(t, 3, app.page)

	app.Update(searchDoneMsg{
		gen: staleGen,
		res: &source.Response{Items: testItems()[:1], LastPage: 3, Total: 200},
	})
	// The superseded page must not overwrite anything.
	assert.Equal(t, LoadSearching, app.loading)
	assert.Equal(t, 10, app.lastPage)

	app.Update(searchDoneMsg{
		gen: app.searchGen,
		res: &source.Response{Items: testItems(), LastPage: 5, Total: 321},
	})
	assert.Equal(t, LoadNone, app.loading)
	assert.Equal(t, 5, app.lastPage)
	assert.Equal(t, 321, app.total)
}

func TestSearchResultClampsPage(t *testing.T) {
	app := newTestApp(t)
	app.page = 9

	app.Update(searchDoneMsg{
		gen: app.searchGen,
		res: &source.Response{Items: nil, LastPage: 4, Total: 300},
	})
	assert.Equal(t, 4, app.page)
}

func TestSearchErrorShowsBanner(t *testing.T) {
	app := newTestApp(t)

	loadResults(app, testItems())
	app.Update(searchDoneMsg{gen: app.searchGen, err: assert.AnError})
	assert.Equal(t, LoadNone, app.loading)
	assert.Equal(t, assert.AnError, app.err)
	// A failed search never leaves a stale page on screen.
	assert.Empty(t, app.results.items)

	app.Update(keyEsc)
	assert.Nil(t, app.err)
}

func TestCaptchaFlow(t *testing.T) {
	app := newTestApp(t)

	app.Update(searchDoneMsg{
		gen:     app.searchGen,
		captcha: &source.CaptchaError{ImageURL: "https://nyaa.si/captcha/1.png"},
	})
	require.Equal(t, ModeCaptcha, app.mode.Kind)
	assert.Equal(t, "https://nyaa.si/captcha/1.png", app.captchaURL)

	app.captchaInput.SetValue("abc123")
	app.Update(keyEnter)
	assert.Equal(t, ModeNormal, app.mode.Kind)
	assert.Equal(t, LoadSolvingCaptcha, app.loading)
	assert.Equal(t, "abc123", app.query().CaptchaToken)

	// A successful search consumes the token.
	loadResults(app, testItems())
	assert.Empty(t, app.query().CaptchaToken)
}

func TestBatchToggleIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(keySpace)
	require.Len(t, app.batch.items, 1)
	assert.Equal(t, "1", app.batch.items[0].ID)

	// The cursor advanced; go back and toggle the same item off.
	app.Update(key("k"))
	app.Update(keySpace)
	assert.Empty(t, app.batch.items)
}

func TestBatchTogglePage(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Len(t, app.batch.items, 3)

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Empty(t, app.batch.items)
}

func TestBatchDownloadRemovesSuccesses(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	app.Update(keyTab)
	require.Equal(t, ModeBatch, app.mode.Kind)

	_, cmd := app.Update(keyEnter)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, app.downloads)

	app.mode = Mode{Kind: ModeBatch}
	app.Update(downloadDoneMsg{outcome: client.Outcome{
		Batch:      true,
		SuccessIDs: []string{"1", "3"},
		SuccessMsg: "Saved 2 torrent files",
		Errors:     []string{"second: boom"},
	}})

	require.Len(t, app.batch.items, 1)
	assert.Equal(t, "2", app.batch.items[0].ID)
	assert.Equal(t, ModeBatch, app.mode.Kind)
	assert.Len(t, app.notifs.entries, 2)
}

func TestEmptiedBatchLeavesBatchMode(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(keySpace)
	app.Update(keyTab)
	require.Equal(t, ModeBatch, app.mode.Kind)

	app.Update(downloadDoneMsg{outcome: client.Outcome{
		Batch:      true,
		SuccessIDs: []string{"1"},
		SuccessMsg: "done",
	}})
	assert.Equal(t, ModeNormal, app.mode.Kind)
}

func TestRemovingLastBatchItemLeavesBatchMode(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(keySpace)
	app.Update(keyTab)
	app.Update(keySpace)
	assert.Empty(t, app.batch.items)
	assert.Equal(t, ModeNormal, app.mode.Kind)
}

func TestSingleDownloadLeavesBatchAlone(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(keySpace)
	require.Len(t, app.batch.items, 1)

	// Item "1" succeeds as a one-off download while also batched.
	app.Update(downloadDoneMsg{outcome: client.Outcome{
		SuccessIDs: []string{"1"},
	}})
	assert.Len(t, app.batch.items, 1)
}

func TestUnknownComboNotifies(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(key("y"))
	require.Equal(t, ModeKeyCombo, app.mode.Kind)
	assert.Equal(t, "y", app.mode.Combo)

	app.Update(key("z"))
	assert.Equal(t, ModeNormal, app.mode.Kind)
	require.Len(t, app.notifs.entries, 1)
	assert.Contains(t, app.notifs.entries[0].text, `"yz"`)
}

func TestComboCancel(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(key("y"))
	app.Update(keyEsc)
	assert.Equal(t, ModeNormal, app.mode.Kind)
	assert.Empty(t, app.notifs.entries)
}

func TestComboNeedsSelection(t *testing.T) {
	app := newTestApp(t)

	app.Update(key("y"))
	assert.Equal(t, ModeNormal, app.mode.Kind)
}

func TestPagePopupRejectsGarbage(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(key("p"))
	app.pageInput.SetValue("abc")
	app.Update(keyEnter)

	assert.Equal(t, ModeNormal, app.mode.Kind)
	require.Len(t, app.notifs.entries, 1)
	assert.True(t, app.notifs.entries[0].isError)
}

func TestPagePopupClampsToLastPage(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(key("p"))
	app.pageInput.SetValue("9999")
	app.Update(keyEnter)

	assert.Equal(t, 10, app.page)
	assert.Equal(t, LoadSearching, app.loading)
}

func TestUserFilter(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())
	app.page = 7

	app.Update(key("u"))
	app.userInput.SetValue("subgroup")
	app.Update(keyEnter)

	assert.Equal(t, "subgroup", app.user)
	assert.Equal(t, 1, app.page)
	assert.Equal(t, "subgroup", app.query().User)
}

func TestSearchSubmitResetsPage(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())
	app.page = 4

	app.Update(key("/"))
	require.Equal(t, ModeSearch, app.mode.Kind)
	assert.True(t, app.searchInput.Focused())

	app.Update(key("x"))
	app.Update(keyEnter)
	assert.Equal(t, ModeNormal, app.mode.Kind)
	assert.Equal(t, 1, app.page)
	assert.Equal(t, LoadSearching, app.loading)
	assert.False(t, app.searchInput.Focused())
}

func TestThemePreviewAndRestore(t *testing.T) {
	app := newTestApp(t)
	before := app.theme.Name

	app.Update(key("t"))
	app.Update(key("j"))
	assert.NotEqual(t, before, app.theme.Name)

	app.Update(keyEsc)
	assert.Equal(t, before, app.theme.Name)
	assert.Equal(t, ModeNormal, app.mode.Kind)
}

func TestThemeConfirmPersistsChoice(t *testing.T) {
	app := newTestApp(t)

	app.Update(key("t"))
	app.Update(key("j"))
	app.Update(keyEnter)

	assert.Equal(t, "Dracula", app.theme.Name)
	assert.Equal(t, "Dracula", app.config.General.Theme)
	assert.Equal(t, ModeNormal, app.mode.Kind)
}

func TestSourceSwitchResetsSelections(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())
	app.category = 12
	app.user = "someone"
	app.page = 3

	app.Update(key("w"))
	app.Update(key("j"))
	app.Update(keyEnter)

	assert.Equal(t, source.SukebeiSource, app.src)
	assert.Equal(t, "sukebei", app.config.General.Source)
	assert.Equal(t, 0, app.category)
	assert.Equal(t, "", app.user)
	assert.Equal(t, 1, app.page)
	assert.Equal(t, LoadSourcing, app.loading)
	assert.Empty(t, app.results.items)
}

func TestClientSwitch(t *testing.T) {
	app := newTestApp(t)

	app.Update(key("d"))
	app.Update(key("j"))
	app.Update(keyEnter)

	assert.Equal(t, client.SaveClient, app.dlc)
	assert.Equal(t, "save", app.config.General.Client)
	assert.Equal(t, ModeNormal, app.mode.Kind)
}

func TestDownloadSelected(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())
	app.Update(key("j"))

	_, cmd := app.Update(keyEnter)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, app.downloads)
	assert.Equal(t, ModeNormal, app.mode.Kind)
}

func TestStartupErrorSurvivesUntilDismissed(t *testing.T) {
	app, err := NewApp(config.TestConfig(), "", nil, assert.AnError)
	require.NoError(t, err)

	assert.Equal(t, assert.AnError, app.err)

	app.Update(keyEsc)
	assert.Nil(t, app.err)
}

func TestHelpReturnsToPreviousMode(t *testing.T) {
	app := newTestApp(t)

	app.Update(key("c"))
	app.Update(key("?"))
	require.Equal(t, ModeHelp, app.mode.Kind)

	app.Update(keyEsc)
	assert.Equal(t, ModeCategory, app.mode.Kind)
}

func TestNotificationExpiry(t *testing.T) {
	app := newTestApp(t)
	app.notifs.add("done", false)

	app.Update(notifTickMsg(time.Now()))
	assert.Len(t, app.notifs.entries, 1)

	app.Update(notifTickMsg(time.Now().Add(notifLifetime + time.Second)))
	assert.Empty(t, app.notifs.entries)
}

func TestViewRendersWithoutResults(t *testing.T) {
	app := newTestApp(t)

	out := app.View()
	assert.Contains(t, out, "toru")
}

func TestViewRendersResults(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	out := app.View()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "750")
}

// runBatch executes a batched command the way the runtime would and
// collects every resulting message.
func runBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, c())
	}
	return msgs
}

func TestDownloadTaskSnapshotsConfig(t *testing.T) {
	app := newTestApp(t)
	app.config.Clients.Cmd.Command = "true # {title}"
	loadResults(app, testItems())

	_, cmd := app.Update(keyEnter)
	require.NotNil(t, cmd)

	// An edit of the live config must not reach the running task.
	app.config.Clients.Cmd.Command = ""

	var out client.Outcome
	found := false
	for _, msg := range runBatch(t, cmd) {
		if done, ok := msg.(downloadDoneMsg); ok {
			out = done.outcome
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, []string{"1"}, out.SuccessIDs)
	assert.Empty(t, out.Errors)
}

func TestConfigSaveSnapshotsTheme(t *testing.T) {
	cfg := config.TestConfig()
	cfg.General.SaveConfigOnChange = true
	path := filepath.Join(t.TempDir(), "config.toml")

	app, err := NewApp(cfg, path, nil, nil)
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	app.Update(key("t"))
	app.Update(key("j"))
	_, cmd := app.Update(keyEnter)
	require.NotNil(t, cmd)
	confirmed := app.config.General.Theme

	app.config.General.Theme = "changed afterwards"

	saved, ok := cmd().(configSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, confirmed, loaded.General.Theme)
}

func TestBatchPaneRendersBesideResults(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(keySpace)
	require.Equal(t, ModeNormal, app.mode.Kind)

	// A non-empty batch shows as a side pane next to the results.
	out := app.View()
	assert.Contains(t, out, "› Batch")
	assert.Contains(t, out, "second")

	// With the pane focused the results stay on screen.
	app.Update(keyTab)
	require.Equal(t, ModeBatch, app.mode.Kind)
	out = app.View()
	assert.Contains(t, out, "› Batch")
	assert.Contains(t, out, "Name")
}

func TestHistoryMarksPreviouslyDownloaded(t *testing.T) {
	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Record(testItems()[:1], "nyaa", "cmd"))

	app, err := NewApp(config.TestConfig(), "", store, nil)
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	loadResults(app, testItems())

	assert.True(t, app.wasDownloaded("1"))
	assert.False(t, app.wasDownloaded("2"))

	app.Update(downloadDoneMsg{outcome: client.Outcome{SuccessIDs: []string{"2"}}})
	assert.True(t, app.wasDownloaded("2"))
}

func TestDownloadFinishingKeepsSearchSpinner(t *testing.T) {
	app := newTestApp(t)
	loadResults(app, testItems())

	app.Update(keyEnter)
	assert.Equal(t, 1, app.downloads)

	app.Update(key("l"))
	require.Equal(t, LoadSearching, app.loading)

	// The download result must not swallow the search marker.
	app.Update(downloadDoneMsg{outcome: client.Outcome{SuccessIDs: []string{"1"}}})
	assert.Equal(t, 0, app.downloads)
	assert.Equal(t, LoadSearching, app.loading)
	assert.True(t, app.busy())

	loadResults(app, testItems())
	assert.False(t, app.busy())
}
