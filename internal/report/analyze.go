package report

import (
	"fmt"
	"path/filepath"

	"runbox/internal/model"
)

// Duplicate is a search-path directory listed more than once.
type Duplicate struct {
	Index       int // Position in the search path (0-based)
	DuplicateOf int // Position of the first occurrence
	Remediation string
}

// FindDuplicates reports every directory that repeats an earlier one after
// cleaning, e.g. /usr/bin and /usr/bin/. A repeated directory can only
// contribute shadowed names.
func FindDuplicates(r model.ScanReport) []Duplicate {
	var dups []Duplicate
	seen := make(map[string]int) // cleaned path -> index
	for i, d := range r.Dirs {
		key := filepath.Clean(d.Path)
		firstIdx, ok := seen[key]
		if !ok {
			seen[key] = i
			continue
		}
		dups = append(dups, Duplicate{
			Index:       i,
			DuplicateOf: firstIdx,
			Remediation: fmt.Sprintf(
				"Entry %d (%s) duplicates entry %d. Remove it from $%s to save a directory scan.",
				i+1, d.Path, firstIdx+1, r.PathVar,
			),
		})
	}
	return dups
}
