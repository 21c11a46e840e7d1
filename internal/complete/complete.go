// Package complete turns the launcher's input line and a set of catalog
// matches into the edited line, cursor, selection and status message.
package complete

import "fmt"

// Source answers prefix queries. *catalog.Cache implements it.
type Source interface {
	Query(prefix string) []string
}

// Kind classifies a completion attempt by how many names matched.
type Kind int

const (
	NoMatch Kind = iota
	Unique
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "none"
	}
}

// Result is the outcome of one completion. Positions count runes.
type Result struct {
	Kind       Kind
	Prefix     string   // Text before the cursor that was queried
	Candidates []string // Every matching name, catalog order
	Text       string   // The edited line
	Cursor     int
	SelStart   int // Selected range [SelStart, SelEnd); empty when equal
	SelEnd     int
	Status     string // Message for the status line; empty when nothing to say
}

// HasSelection reports whether part of the completed text is selected.
func (r Result) HasSelection() bool {
	return r.SelEnd > r.SelStart
}

// Complete completes the text before the cursor against src.
//
// The text between the cursor and selEnd is treated as a previous suggestion
// and replaced. A unique match replaces the prefix and moves the cursor past
// the inserted space. Several matches insert the first one, keep the cursor
// where it was and select the inserted remainder, so typing overwrites it
// and pressing Tab again is stable.
func Complete(src Source, text string, cursor, selEnd int) Result {
	runes := []rune(text)
	cursor = clamp(cursor, 0, len(runes))
	selEnd = clamp(selEnd, 0, len(runes))
	if selEnd < cursor {
		cursor, selEnd = selEnd, cursor
	}

	prefix := string(runes[:cursor])
	suffix := string(runes[selEnd:])
	candidates := src.Query(prefix)

	res := Result{
		Prefix:     prefix,
		Candidates: candidates,
		Text:       text,
		Cursor:     cursor,
		SelStart:   cursor,
		SelEnd:     cursor,
	}

	switch len(candidates) {
	case 0:
		res.Kind = NoMatch
		res.Status = fmt.Sprintf("No command for %q", prefix)
	case 1:
		first := candidates[0]
		res.Kind = Unique
		res.Text = first + " " + suffix
		res.Cursor = runeLen(first) + 1
		res.SelStart, res.SelEnd = res.Cursor, res.Cursor
	default:
		first := candidates[0]
		res.Kind = Ambiguous
		res.Status = fmt.Sprintf("Found %d candidates", len(candidates))
		res.Text = first + " " + suffix
		res.SelEnd = runeLen(first) + 1
	}
	return res
}

func runeLen(s string) int {
	return len([]rune(s))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
