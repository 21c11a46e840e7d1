package model

import "time"

// Catalog is the sorted, deduplicated list of executable names found on the
// search path. A Catalog is never modified after it has been built.
type Catalog []string

// DirReport describes what a single search-path directory contributed.
type DirReport struct {
	Path     string   // The directory as written in the search path (e.g., /usr/bin)
	Listed   int      // Entries returned by the directory listing
	Accepted int      // Names this directory added to the catalog
	Shadowed []string // Names skipped because an earlier directory already provided them
	Skipped  int      // Entries rejected by the type/permission check or a failed stat
	Err      string   // Listing error, empty if the directory was readable
}

// Available reports whether the directory could be listed.
func (d DirReport) Available() bool {
	return d.Err == ""
}

// ScanReport holds the diagnostics of one catalog build.
type ScanReport struct {
	PathVar     string // Name of the environment variable that was read
	Policy      PermissionPolicy
	Dirs        []DirReport
	Total       int           // Size of the resulting catalog
	Duration    time.Duration // Wall time of the scan
	Diagnostics []string
}
