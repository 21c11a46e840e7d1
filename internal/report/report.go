// Package report renders a catalog scan report for humans.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"runbox/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// StatusIcon summarizes a directory's contribution in one character.
func StatusIcon(d model.DirReport) string {
	switch {
	case !d.Available():
		return model.IconMissing
	case len(d.Shadowed) > 0:
		return model.IconShadowed
	case d.Accepted == 0:
		return model.IconEmpty
	default:
		return model.IconOK
	}
}

// Generate renders the report. Verbose adds the shadowed names of every
// directory.
func Generate(r model.ScanReport, verbose bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("runbox %s scan report", model.Version)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Search path: $%s   Policy: %s\n", r.PathVar, r.Policy)
	fmt.Fprintf(&b, "Found %d programs in %d directories (%s)\n\n",
		r.Total, len(r.Dirs), r.Duration.Round(time.Microsecond))

	if len(r.Dirs) > 0 {
		rows := make([][]string, 0, len(r.Dirs))
		for i, d := range r.Dirs {
			if !d.Available() {
				rows = append(rows, []string{
					strconv.Itoa(i + 1), StatusIcon(d), d.Path, "-", "-", "-", d.Err,
				})
				continue
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				StatusIcon(d),
				d.Path,
				strconv.Itoa(d.Accepted),
				strconv.Itoa(d.Listed),
				strconv.Itoa(len(d.Shadowed)),
				"",
			})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "", "Directory", "Added", "Listed", "Shadowed", "Error").
			Rows(rows...)
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if verbose {
		for _, d := range r.Dirs {
			if len(d.Shadowed) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n%s %s repeats names from earlier directories:\n", model.IconShadowed, d.Path)
			b.WriteString(dimStyle.Render("  " + strings.Join(d.Shadowed, " ")))
			b.WriteString("\n")
		}
	}

	diagnostics := r.Diagnostics
	for _, dup := range FindDuplicates(r) {
		diagnostics = append(diagnostics, dup.Remediation)
	}
	if len(diagnostics) > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("Diagnostics:"))
		b.WriteString("\n")
		for _, d := range diagnostics {
			fmt.Fprintf(&b, "  - %s\n", d)
		}
	}

	return b.String()
}
