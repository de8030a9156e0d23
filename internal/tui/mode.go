package tui

// ModeKind names the interaction state the app is in. Exactly one mode
// is active at a time; popups are modes, not layered windows.
type ModeKind int

const (
	ModeNormal ModeKind = iota
	ModeSearch
	ModeCategory
	ModeSort
	ModeFilter
	ModeTheme
	ModeSources
	ModeClients
	ModeBatch
	ModePage
	ModeUser
	ModeKeyCombo
	ModeHelp
	ModeCaptcha
)

func (k ModeKind) String() string {
	switch k {
	case ModeNormal:
		return "Normal"
	case ModeSearch:
		return "Search"
	case ModeCategory:
		return "Category"
	case ModeSort:
		return "Sort"
	case ModeFilter:
		return "Filter"
	case ModeTheme:
		return "Themes"
	case ModeSources:
		return "Sources"
	case ModeClients:
		return "Clients"
	case ModeBatch:
		return "Batch"
	case ModePage:
		return "Goto Page"
	case ModeUser:
		return "Posts by User"
	case ModeKeyCombo:
		return "Key Combo"
	case ModeHelp:
		return "Help"
	case ModeCaptcha:
		return "Captcha"
	}
	return "Unknown"
}

// Mode pairs the kind with the payload some modes carry: the pending
// keys of a combo and the requested direction of a sort.
type Mode struct {
	Kind     ModeKind
	Combo    string
	Reversed bool
}

func normalMode() Mode { return Mode{Kind: ModeNormal} }

func sortMode(reversed bool) Mode { return Mode{Kind: ModeSort, Reversed: reversed} }

func comboMode(keys string) Mode { return Mode{Kind: ModeKeyCombo, Combo: keys} }

// LoadKind names the background task a spinner is shown for.
type LoadKind int

const (
	LoadNone LoadKind = iota
	LoadSourcing
	LoadSearching
	LoadSorting
	LoadFiltering
	LoadCategorizing
	LoadSolvingCaptcha
	LoadBatching
	LoadDownloading
)

func (l LoadKind) String() string {
	switch l {
	case LoadSourcing:
		return "Switching source"
	case LoadSearching:
		return "Searching"
	case LoadSorting:
		return "Sorting"
	case LoadFiltering:
		return "Filtering"
	case LoadCategorizing:
		return "Categorizing"
	case LoadSolvingCaptcha:
		return "Solving captcha"
	case LoadBatching:
		return "Downloading batch"
	case LoadDownloading:
		return "Downloading"
	}
	return ""
}
