package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"toru/internal/client"
	"toru/internal/config"
	"toru/internal/history"
	"toru/internal/source"
)

// seenSeedLimit bounds how much history is preloaded for marking
// previously downloaded results; older entries are looked up lazily.
const seenSeedLimit = 500

type App struct {
	config     *config.Config
	configPath string

	httpClient *http.Client
	store      *history.Store

	src     source.Sources
	backend source.Source
	dlc     client.Clients

	mode       Mode
	helpReturn Mode
	loading    LoadKind
	downloads  int

	keyHandler *KeyHandler

	searchInput  textinput.Model
	pageInput    textinput.Model
	userInput    textinput.Model
	captchaInput textinput.Model
	spin         spinner.Model
	helpView     viewport.Model

	results *resultsView
	batch   *batchView
	notifs  notifications

	sortPicker   picker
	filterPicker picker
	themePicker  picker
	sourcePicker picker
	clientPicker picker
	catPicker    categoryPicker

	themes []Theme
	theme  Theme
	styles styles

	page     int
	lastPage int
	total    int
	category int
	filter   int
	sort     int
	sortDir  source.SortDir
	user     string

	captchaURL   string
	captchaToken string
	seen         map[string]bool

	searchGen    int
	searchCancel context.CancelFunc

	width  int
	height int
	err    error
}

func NewApp(cfg *config.Config, configPath string, store *history.Store, startupErr error) (*App, error) {
	httpClient, err := source.NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	src, srcErr := source.Lookup(cfg.General.Source)
	backend := source.Get(src)

	dlc, dlcErr := client.Lookup(cfg.General.Client)

	themes := LoadThemes(DefaultThemeDir())
	theme := themes[themeIndex(themes, cfg.General.Theme)]

	si := textinput.New()
	si.Placeholder = "Search..."
	si.Prompt = "/ "
	si.SetValue(indexConfig(cfg, src).DefaultSearch)

	pi := textinput.New()
	pi.Placeholder = "Page number"
	pi.CharLimit = 4

	ui := textinput.New()
	ui.Placeholder = "Username"

	ci := textinput.New()
	ci.Placeholder = "Captcha solution"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	seen := make(map[string]bool)
	if entries, err := store.Recent(seenSeedLimit); err == nil {
		for _, e := range entries {
			seen[e.ID] = true
		}
	}

	app := &App{
		config:       cfg,
		configPath:   configPath,
		httpClient:   httpClient,
		store:        store,
		src:          src,
		backend:      backend,
		dlc:          dlc,
		mode:         normalMode(),
		searchInput:  si,
		pageInput:    pi,
		userInput:    ui,
		captchaInput: ci,
		spin:         sp,
		helpView:     viewport.New(0, 0),
		results:      &resultsView{padding: cfg.General.ScrollPadding},
		batch:        &batchView{},
		themes:       themes,
		theme:        theme,
		seen:         seen,
		styles:       newStyles(theme),
		page:         1,
		lastPage:     1,
		category:     backend.DefaultCategory(cfg),
		sort:         backend.DefaultSort(cfg),
		filter:       backend.DefaultFilter(cfg),
		err:          startupErr,
	}
	if app.err == nil {
		if srcErr != nil {
			app.err = srcErr
		} else if dlcErr != nil {
			app.err = dlcErr
		}
	}

	app.rebuildPickers()
	app.keyHandler = NewKeyHandler(app)

	return app, nil
}

// indexConfig returns the per-index settings for a backend.
func indexConfig(cfg *config.Config, src source.Sources) config.IndexConfig {
	if src == source.SukebeiSource {
		return cfg.Sources.Sukebei
	}
	return cfg.Sources.Nyaa
}

// rebuildPickers recreates every picker from the current backend and
// config. Called at startup and after a source switch.
func (a *App) rebuildPickers() {
	info := a.backend.Info()

	a.sortPicker = newPicker("Sort", info.Sorts, a.sort)
	a.filterPicker = newPicker("Filter", info.Filters, a.filter)
	a.catPicker = newCategoryPicker(info, a.category)

	themeNames := make([]string, len(a.themes))
	for i, t := range a.themes {
		themeNames[i] = t.Name
	}
	a.themePicker = newPicker("Themes", themeNames, themeIndex(a.themes, a.theme.Name))

	sourceNames := make([]string, 0, len(source.All()))
	activeSource := 0
	for i, s := range source.All() {
		sourceNames = append(sourceNames, s.String())
		if s == a.src {
			activeSource = i
		}
	}
	a.sourcePicker = newPicker("Sources", sourceNames, activeSource)

	clientNames := make([]string, 0, len(client.All()))
	activeClient := 0
	for i, c := range client.All() {
		clientNames = append(clientNames, c.String())
		if c == a.dlc {
			activeClient = i
		}
	}
	a.clientPicker = newPicker("Clients", clientNames, activeClient)
}

// query snapshots the current search parameters for one task.
func (a *App) query() source.SearchQuery {
	return source.SearchQuery{
		Query:        a.searchInput.Value(),
		Page:         a.page,
		Category:     a.category,
		Filter:       a.filter,
		Sort:         a.sort,
		Dir:          a.sortDir,
		User:         a.user,
		CaptchaToken: a.captchaToken,
	}
}

func (a *App) Init() tea.Cmd {
	return a.startSearch(LoadSourcing)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.results.setSize(msg.Width, a.bodyHeight())
		a.helpView.Width = msg.Width
		a.helpView.Height = a.bodyHeight()
		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = msg.Width
		}
		a.searchInput.Width = inputWidth

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}

	case searchDoneMsg:
		// Results from a superseded task are stale; drop them.
		if msg.gen != a.searchGen {
			return a, nil
		}
		a.loading = LoadNone

		if msg.captcha != nil {
			a.captchaURL = msg.captcha.ImageURL
			a.captchaInput.SetValue("")
			a.captchaInput.Focus()
			a.mode = Mode{Kind: ModeCaptcha}
			return a, textinput.Blink
		}
		if msg.err != nil {
			// Roll back to a safe default rather than showing a page
			// that no longer matches the query.
			a.err = msg.err
			a.results.setItems(nil)
			a.total = 0
			return a, nil
		}

		a.err = nil
		a.captchaToken = ""
		a.results.setItems(msg.res.Items)
		for _, item := range msg.res.Items {
			if a.seen[item.ID] {
				continue
			}
			if ok, err := a.store.Seen(item.ID); err == nil && ok {
				a.seen[item.ID] = true
			}
		}
		a.lastPage = msg.res.LastPage
		a.total = msg.res.Total
		if a.lastPage < 1 {
			a.lastPage = 1
		}
		if a.page > a.lastPage {
			a.page = a.lastPage
		}
		return a, nil

	case downloadDoneMsg:
		if a.downloads > 0 {
			a.downloads--
		}
		out := msg.outcome
		for _, id := range out.SuccessIDs {
			a.seen[id] = true
		}

		if out.SuccessMsg != "" {
			a.notifs.add(out.SuccessMsg, false)
		}
		for _, e := range out.Errors {
			a.notifs.add(e, true)
		}

		// Only a batch dispatch consumes batch entries; a one-off
		// download of an item that also sits in the batch leaves it.
		if out.Batch {
			a.batch.removeIDs(out.SuccessIDs)
			// An emptied batch view has nothing left to act on.
			if a.mode.Kind == ModeBatch && a.batch.empty() {
				a.mode = normalMode()
			}
		}

		if !a.notifs.empty() {
			return a, notifTick()
		}
		return a, nil

	case configSavedMsg:
		if msg.err != nil {
			a.notifs.add(fmt.Sprintf("Saving config: %v", msg.err), true)
			return a, notifTick()
		}
		return a, nil

	case errorMsg:
		a.notifs.add(msg.err.Error(), true)
		return a, notifTick()

	case notifTickMsg:
		if a.notifs.expire(time.Time(msg)) {
			return a, notifTick()
		}
		return a, nil
	}

	// Cursor blink and other component messages go to the focused input.
	var cmd tea.Cmd
	switch a.mode.Kind {
	case ModeSearch:
		a.searchInput, cmd = a.searchInput.Update(msg)
	case ModePage:
		a.pageInput, cmd = a.pageInput.Update(msg)
	case ModeUser:
		a.userInput, cmd = a.userInput.Update(msg)
	case ModeCaptcha:
		a.captchaInput, cmd = a.captchaInput.Update(msg)
	case ModeHelp:
		a.helpView, cmd = a.helpView.Update(msg)
	}
	return a, cmd
}

// bodyHeight is the space left for the content area below the search
// bar and above the status bar.
func (a *App) bodyHeight() int {
	h := a.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.viewSearchBar())
	b.WriteString("\n")

	body := a.viewBody()
	b.WriteString(lipgloss.NewStyle().Height(a.bodyHeight()).MaxHeight(a.bodyHeight()).Render(body))
	b.WriteString("\n")

	if notif := a.notifs.view(a.styles, a.width); notif != "" {
		b.WriteString(notif)
		b.WriteString("\n")
	}
	b.WriteString(a.viewStatusBar())

	return b.String()
}

func (a *App) viewSearchBar() string {
	title := a.styles.title.Render("toru")
	cat := a.backend.Info().EntryByID(a.category)
	crumb := a.styles.muted.Render(fmt.Sprintf("%s › %s", a.src, cat.Name))
	return lipgloss.JoinHorizontal(lipgloss.Top,
		title, "  ", a.searchInput.View(), "  ", crumb)
}

func (a *App) viewBody() string {
	switch a.mode.Kind {
	case ModeCategory:
		return a.centered(a.styles.popup.Render(a.catPicker.view(a.styles)))
	case ModeSort:
		title := a.sortPicker.view(a.styles)
		if a.mode.Reversed {
			title += a.styles.muted.Render("\n(ascending)")
		}
		return a.centered(a.styles.popup.Render(title))
	case ModeFilter:
		return a.centered(a.styles.popup.Render(a.filterPicker.view(a.styles)))
	case ModeTheme:
		return a.centered(a.styles.popup.Render(a.themePicker.view(a.styles)))
	case ModeSources:
		return a.centered(a.styles.popup.Render(a.sourcePicker.view(a.styles)))
	case ModeClients:
		return a.centered(a.styles.popup.Render(a.clientPicker.view(a.styles)))
	case ModeBatch:
		// The focused batch pane widens to half the screen.
		return a.splitBody(a.width / 2)
	case ModePage:
		return a.inputPopup("› Goto Page", a.pageInput.View(),
			fmt.Sprintf("1-%d", a.lastPage))
	case ModeUser:
		return a.inputPopup("› Posts by User", a.userInput.View(),
			"Empty input clears the user filter")
	case ModeCaptcha:
		return a.inputPopup("› Captcha", a.captchaInput.View(),
			"Open "+a.captchaURL+" and type the solution")
	case ModeHelp:
		return a.helpView.View()
	}

	if a.loading != LoadNone && len(a.results.items) == 0 {
		return a.centered(a.spin.View() + " " + a.loading.String() + "…")
	}
	if !a.batch.empty() {
		return a.splitBody(a.width / 4)
	}
	a.results.setSize(a.width, a.bodyHeight())
	return a.results.view(a.styles, a.batch.has, a.wasDownloaded)
}

// splitBody renders the result table beside the batch pane.
func (a *App) splitBody(batchWidth int) string {
	resultsWidth := a.width - batchWidth
	a.results.setSize(resultsWidth, a.bodyHeight())

	left := lipgloss.NewStyle().
		Width(resultsWidth).
		MaxWidth(resultsWidth).
		Render(a.results.view(a.styles, a.batch.has, a.wasDownloaded))
	right := lipgloss.NewStyle().
		Width(batchWidth).
		MaxWidth(batchWidth).
		Render(a.batch.view(a.styles, batchWidth-2))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// busy reports whether any background task is outstanding.
func (a *App) busy() bool {
	return a.loading != LoadNone || a.downloads > 0
}

// wasDownloaded reports whether an item was dispatched before, in this
// run or in an earlier one per the history store.
func (a *App) wasDownloaded(id string) bool {
	return a.seen[id]
}

func (a *App) centered(content string) string {
	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.bodyHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (a *App) inputPopup(title, input, hint string) string {
	return a.centered(a.styles.popup.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.styles.title.Render(title),
			"",
			input,
			"",
			a.styles.muted.Render(hint),
		),
	))
}

func (a *App) viewStatusBar() string {
	if a.err != nil {
		return a.styles.statusBar.Render(
			a.styles.errText.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	var left string
	if a.busy() {
		label := a.loading
		if label == LoadNone {
			label = LoadDownloading
		}
		left = a.spin.View() + " " + label.String() + "…"
	} else {
		left = strings.Join(a.keyHandler.HintsForMode(a.mode.Kind), " • ")
	}

	right := fmt.Sprintf("%s results • page %d/%d • %s/%s",
		humanize.Comma(int64(a.total)), a.page, a.lastPage, a.src, a.dlc)
	if len(a.batch.items) > 0 {
		right = fmt.Sprintf("batch %d • %s", len(a.batch.items), right)
	}
	if a.user != "" {
		right = fmt.Sprintf("user %s • %s", a.user, right)
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return a.styles.statusBar.Render(left + strings.Repeat(" ", gap) + right)
}

// applyTheme switches the active theme and rebuilds the styles.
func (a *App) applyTheme(t Theme) {
	a.theme = t
	a.styles = newStyles(t)
}
