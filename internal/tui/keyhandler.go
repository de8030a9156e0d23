package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"toru/internal/client"
	"toru/internal/source"
)

// KeyHandler routes key presses to the handler of the active mode.
type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode.Kind {
	case ModeNormal:
		return kh.handleNormal(msg.String())
	case ModeSearch:
		return kh.handleSearch(msg)
	case ModeCategory:
		return kh.handleCategory(msg.String())
	case ModeSort:
		return kh.handleSort(msg.String())
	case ModeFilter:
		return kh.handleFilter(msg.String())
	case ModeTheme:
		return kh.handleTheme(msg.String())
	case ModeSources:
		return kh.handleSources(msg.String())
	case ModeClients:
		return kh.handleClients(msg.String())
	case ModeBatch:
		return kh.handleBatch(msg.String())
	case ModePage:
		return kh.handlePage(msg)
	case ModeUser:
		return kh.handleUser(msg)
	case ModeCaptcha:
		return kh.handleCaptcha(msg)
	case ModeKeyCombo:
		return kh.handleCombo(msg.String())
	case ModeHelp:
		return kh.handleHelp(msg)
	}
	return a, nil
}

func (kh *KeyHandler) handleNormal(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "q":
		return a, tea.Quit
	case "/", "i":
		a.mode = Mode{Kind: ModeSearch}
		a.searchInput.Focus()
		return a, textinput.Blink
	case "c":
		a.catPicker.reset()
		a.mode = Mode{Kind: ModeCategory}
	case "s":
		a.sortPicker.reset()
		a.mode = sortMode(false)
	case "S":
		a.sortPicker.reset()
		a.mode = sortMode(true)
	case "f":
		a.filterPicker.reset()
		a.mode = Mode{Kind: ModeFilter}
	case "t":
		a.themePicker.reset()
		a.mode = Mode{Kind: ModeTheme}
	case "w":
		a.sourcePicker.reset()
		a.mode = Mode{Kind: ModeSources}
	case "d":
		a.clientPicker.reset()
		a.mode = Mode{Kind: ModeClients}
	case "p":
		a.pageInput.SetValue("")
		a.pageInput.Focus()
		a.mode = Mode{Kind: ModePage}
		return a, textinput.Blink
	case "u":
		a.userInput.SetValue(a.user)
		a.userInput.Focus()
		a.mode = Mode{Kind: ModeUser}
		return a, textinput.Blink
	case "j", "down":
		a.results.down()
	case "k", "up":
		a.results.up()
	case "g", "home":
		a.results.first()
	case "G", "end":
		a.results.last()
	case "h", "left":
		if a.page > 1 {
			a.page--
			return a, a.startSearch(LoadSearching)
		}
	case "l", "right":
		if a.page < a.lastPage {
			a.page++
			return a, a.startSearch(LoadSearching)
		}
	case "r":
		return a, a.startSearch(LoadSearching)
	case "enter":
		if item := a.results.current(); item != nil {
			return a, a.startDownload([]source.Item{*item}, LoadDownloading)
		}
	case " ":
		if item := a.results.current(); item != nil {
			a.batch.toggle(*item)
			a.results.down()
		}
	case "ctrl+a":
		for _, item := range a.results.items {
			a.batch.toggle(item)
		}
	case "tab":
		a.batch.clampCursor()
		a.mode = Mode{Kind: ModeBatch}
	case "y":
		if a.results.current() != nil {
			a.mode = comboMode("y")
		}
	case "o":
		return a, a.openPost()
	case "?", "f1":
		kh.enterHelp()
	case "esc":
		a.err = nil
		a.notifs.clear()
	}
	return a, nil
}

func (kh *KeyHandler) handleSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "esc":
		a.searchInput.Blur()
		a.mode = normalMode()
		return a, nil
	case "enter":
		a.searchInput.Blur()
		a.page = 1
		return a, a.startSearch(LoadSearching)
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleCategory(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "j", "down":
		a.catPicker.down()
	case "k", "up":
		a.catPicker.up()
	case "g", "home":
		a.catPicker.first()
	case "G", "end":
		a.catPicker.last()
	case "tab":
		a.catPicker.nextGroup()
	case "shift+tab":
		a.catPicker.prevGroup()
	case "enter":
		cat := a.catPicker.confirm()
		a.category = cat.ID
		a.page = 1
		return a, a.startSearch(LoadCategorizing)
	case "esc", "c", "q":
		a.catPicker.reset()
		a.mode = normalMode()
	case "?", "f1":
		kh.enterHelp()
	}
	return a, nil
}

func (kh *KeyHandler) handleSort(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "j", "down":
		a.sortPicker.down()
	case "k", "up":
		a.sortPicker.up()
	case "g", "home":
		a.sortPicker.first()
	case "G", "end":
		a.sortPicker.last()
	case "enter":
		a.sort = a.sortPicker.confirm()
		if a.mode.Reversed {
			a.sortDir = source.SortAsc
		} else {
			a.sortDir = source.SortDesc
		}
		return a, a.startSearch(LoadSorting)
	case "esc", "s", "q":
		a.sortPicker.reset()
		a.mode = normalMode()
	case "?", "f1":
		kh.enterHelp()
	}
	return a, nil
}

func (kh *KeyHandler) handleFilter(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "j", "down":
		a.filterPicker.down()
	case "k", "up":
		a.filterPicker.up()
	case "g", "home":
		a.filterPicker.first()
	case "G", "end":
		a.filterPicker.last()
	case "enter":
		a.filter = a.filterPicker.confirm()
		a.page = 1
		return a, a.startSearch(LoadFiltering)
	case "esc", "f", "q":
		a.filterPicker.reset()
		a.mode = normalMode()
	case "?", "f1":
		kh.enterHelp()
	}
	return a, nil
}

func (kh *KeyHandler) handleTheme(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "j", "down":
		a.themePicker.down()
		a.applyTheme(a.themes[a.themePicker.cursor])
	case "k", "up":
		a.themePicker.up()
		a.applyTheme(a.themes[a.themePicker.cursor])
	case "enter":
		idx := a.themePicker.confirm()
		a.applyTheme(a.themes[idx])
		a.config.General.Theme = a.themes[idx].Name
		a.mode = normalMode()
		return a, a.maybeSaveConfig()
	case "esc", "t", "q":
		// Undo the live preview.
		a.themePicker.reset()
		a.applyTheme(a.themes[a.themePicker.active])
		a.mode = normalMode()
	case "?", "f1":
		kh.enterHelp()
	}
	return a, nil
}

func (kh *KeyHandler) handleSources(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "j", "down":
		a.sourcePicker.down()
	case "k", "up":
		a.sourcePicker.up()
	case "enter":
		idx := a.sourcePicker.confirm()
		return a, kh.switchSource(source.All()[idx])
	case "esc", "w", "q":
		a.sourcePicker.reset()
		a.mode = normalMode()
	case "?", "f1":
		kh.enterHelp()
	}
	return a, nil
}

// switchSource swaps the backend and resets every per-source selection
// to the new backend's configured defaults.
func (kh *KeyHandler) switchSource(s source.Sources) tea.Cmd {
	a := kh.app

	a.src = s
	a.backend = source.Get(s)
	a.category = a.backend.DefaultCategory(a.config)
	a.sort = a.backend.DefaultSort(a.config)
	a.sortDir = source.SortDesc
	a.filter = a.backend.DefaultFilter(a.config)
	a.page = 1
	a.user = ""
	a.results.setItems(nil)
	a.rebuildPickers()

	a.config.General.Source = string(s)
	return tea.Batch(a.startSearch(LoadSourcing), a.maybeSaveConfig())
}

func (kh *KeyHandler) handleClients(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "j", "down":
		a.clientPicker.down()
	case "k", "up":
		a.clientPicker.up()
	case "enter":
		idx := a.clientPicker.confirm()
		a.dlc = client.All()[idx]
		a.config.General.Client = string(a.dlc)
		a.notifs.add(fmt.Sprintf("Download client set to %s", a.dlc), false)
		a.mode = normalMode()
		return a, tea.Batch(a.maybeSaveConfig(), notifTick())
	case "esc", "d", "q":
		a.clientPicker.reset()
		a.mode = normalMode()
	case "?", "f1":
		kh.enterHelp()
	}
	return a, nil
}

func (kh *KeyHandler) handleBatch(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "j", "down":
		a.batch.down()
	case "k", "up":
		a.batch.up()
	case " ", "x":
		a.batch.removeCurrent()
		if a.batch.empty() {
			a.mode = normalMode()
		}
	case "c":
		a.batch.clear()
		a.mode = normalMode()
	case "enter":
		items := append([]source.Item(nil), a.batch.items...)
		return a, a.startDownload(items, LoadBatching)
	case "tab", "esc", "q":
		a.mode = normalMode()
	case "?", "f1":
		kh.enterHelp()
	}
	return a, nil
}

func (kh *KeyHandler) handlePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "esc":
		a.pageInput.Blur()
		a.mode = normalMode()
		return a, nil
	case "enter":
		a.pageInput.Blur()
		value := strings.TrimSpace(a.pageInput.Value())
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			a.mode = normalMode()
			a.notifs.add(fmt.Sprintf("Not a page number: %q", value), true)
			return a, notifTick()
		}
		if n > a.lastPage {
			n = a.lastPage
		}
		a.page = n
		return a, a.startSearch(LoadSearching)
	}

	var cmd tea.Cmd
	a.pageInput, cmd = a.pageInput.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleUser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "esc":
		a.userInput.Blur()
		a.mode = normalMode()
		return a, nil
	case "enter":
		a.userInput.Blur()
		a.user = strings.TrimSpace(a.userInput.Value())
		a.page = 1
		return a, a.startSearch(LoadSearching)
	}

	var cmd tea.Cmd
	a.userInput, cmd = a.userInput.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleCaptcha(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "esc":
		a.captchaInput.Blur()
		a.mode = normalMode()
		return a, nil
	case "enter":
		token := strings.TrimSpace(a.captchaInput.Value())
		if token == "" {
			return a, nil
		}
		a.captchaInput.Blur()
		a.captchaToken = token
		return a, a.startSearch(LoadSolvingCaptcha)
	}

	var cmd tea.Cmd
	a.captchaInput, cmd = a.captchaInput.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleCombo(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	item := a.results.current()
	if item == nil {
		a.mode = normalMode()
		return a, nil
	}

	var text, what string
	switch key {
	case "t":
		text, what = item.TorrentLink, "torrent link"
	case "m":
		text, what = item.MagnetLink, "magnet link"
	case "p":
		text, what = item.PostLink, "post link"
	case "i":
		text, what = item.ID, "id"
	case "esc":
		a.mode = normalMode()
		return a, nil
	default:
		combo := a.mode.Combo + key
		a.mode = normalMode()
		a.notifs.add(fmt.Sprintf("Unknown combo %q", combo), true)
		return a, notifTick()
	}

	a.mode = normalMode()
	if err := clipboard.WriteAll(text); err != nil {
		a.notifs.add(fmt.Sprintf("Copying %s: %v", what, err), true)
	} else {
		a.notifs.add("Copied "+what, false)
	}
	return a, notifTick()
}

func (kh *KeyHandler) handleHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "esc", "q", "?", "f1":
		a.mode = a.helpReturn
		return a, nil
	}

	var cmd tea.Cmd
	a.helpView, cmd = a.helpView.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) enterHelp() {
	a := kh.app
	a.helpReturn = a.mode
	a.helpView.SetContent(helpContent(a.styles))
	a.helpView.GotoTop()
	a.mode = Mode{Kind: ModeHelp}
}
