package tui

import (
	"time"

	"runbox/internal/complete"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Catalog is what the launcher needs from the catalog cache.
type Catalog interface {
	complete.Source
	Fuzzy(pattern string, limit int) []string
	Ready() bool
	Wait()
}

// selection is a selected rune range [start, end) of the input line.
type selection struct {
	start, end int
}

func (s selection) active() bool {
	return s.end > s.start
}

// AppModel holds the launcher state.
type AppModel struct {
	catalog Catalog

	// Data
	Ready       bool
	Suggestions []string

	// UI State
	Input      textinput.Model
	Status     string // Empty means the default prompt label
	WindowSize tea.WindowSizeMsg

	// Result
	Chosen  string
	Aborted bool

	sel         selection
	statusSeq   int  // Bumped whenever Status changes, so stale resets are ignored
	pendingTab  bool // Tab pressed before the catalog was ready
	statusDelay time.Duration
	maxSuggest  int
}

// Options tunes the launcher.
type Options struct {
	// StatusDelay is how long a completion message stays visible.
	StatusDelay time.Duration
	// Suggestions caps the fuzzy suggestion list; 0 hides it.
	Suggestions int
}

// InitialModel returns the initial state.
func InitialModel(c Catalog, opts Options) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Command"
	ti.Prompt = "> "
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()

	if opts.StatusDelay <= 0 {
		opts.StatusDelay = time.Second
	}

	return AppModel{
		catalog:     c,
		Input:       ti,
		Ready:       c.Ready(),
		statusDelay: opts.StatusDelay,
		maxSuggest:  opts.Suggestions,
	}
}
