package tui

import (
	"strings"
	"time"

	"runbox/internal/complete"
	"runbox/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgCatalogReady indicates that the catalog build has finished.
type MsgCatalogReady struct{}

// MsgStatusReset restores the default status line unless a newer message
// replaced the one it was scheduled for.
type MsgStatusReset struct {
	Seq int
}

// WaitCatalogCmd blocks in the background until the catalog is built.
func WaitCatalogCmd(c Catalog) tea.Cmd {
	return func() tea.Msg {
		c.Wait()
		return MsgCatalogReady{}
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		if msg.Width > 10 {
			m.Input.Width = msg.Width - 4
		}
		return m, nil

	case MsgCatalogReady:
		m.Ready = true
		m.refreshSuggestions()
		if m.pendingTab {
			m.pendingTab = false
			return m, m.autocomplete()
		}
		return m, nil

	case MsgStatusReset:
		if msg.Seq == m.statusSeq {
			m.Status = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.Aborted = true
			return m, tea.Quit

		case tea.KeyEnter:
			text := strings.TrimSpace(m.Input.Value())
			if text == "" {
				return m, nil
			}
			m.Chosen = text
			return m, tea.Quit

		case tea.KeyTab:
			if !m.Ready {
				m.pendingTab = true
				m.Status = model.IconLoading + " Still scanning the search path"
				m.statusSeq++
				return m, nil
			}
			return m, m.autocomplete()

		case tea.KeyBackspace, tea.KeyDelete:
			if m.sel.active() {
				m.deleteSelection()
				m.refreshSuggestions()
				return m, nil
			}

		case tea.KeyRunes, tea.KeySpace:
			if m.sel.active() {
				m.deleteSelection()
			}

		default:
			m.sel = selection{}
		}

		m.Input, cmd = m.Input.Update(msg)
		m.refreshSuggestions()
		return m, cmd
	}

	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// autocomplete applies a completion to the input line and schedules the
// status message to be cleared.
func (m *AppModel) autocomplete() tea.Cmd {
	cursor := m.Input.Position()
	selEnd := cursor
	if m.sel.active() {
		cursor, selEnd = m.sel.start, m.sel.end
	}

	res := complete.Complete(m.catalog, m.Input.Value(), cursor, selEnd)

	m.Input.SetValue(res.Text)
	m.Input.SetCursor(res.Cursor)
	m.sel = selection{start: res.SelStart, end: res.SelEnd}

	switch res.Kind {
	case complete.Unique:
		m.Status = model.IconMatch + " " + res.Candidates[0]
	default:
		m.Status = res.Status
	}
	m.refreshSuggestions()

	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(m.statusDelay, func(time.Time) tea.Msg {
		return MsgStatusReset{Seq: seq}
	})
}

// deleteSelection removes the selected range and puts the cursor there.
func (m *AppModel) deleteSelection() {
	runes := []rune(m.Input.Value())
	start, end := m.sel.start, m.sel.end
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		start = end
	}
	m.Input.SetValue(string(runes[:start]) + string(runes[end:]))
	m.Input.SetCursor(start)
	m.sel = selection{}
}

// refreshSuggestions ranks catalog names against the first word of the input.
// A selected completion is provisional, so only the text typed before it
// counts.
func (m *AppModel) refreshSuggestions() {
	if !m.Ready || m.maxSuggest <= 0 {
		m.Suggestions = nil
		return
	}
	text := m.Input.Value()
	if m.sel.active() {
		runes := []rune(text)
		text = string(runes[:min(m.sel.start, len(runes))])
	}
	word, _, _ := strings.Cut(strings.TrimLeft(text, " "), " ")
	if word == "" {
		m.Suggestions = nil
		return
	}
	m.Suggestions = m.catalog.Fuzzy(word, m.maxSuggest)
}
