package model

// Centralized icons for the report and launcher status line
// Using simple single-width characters for consistent terminal rendering
const (
	IconMissing  = "✗" // Thin X (directory could not be listed)
	IconShadowed = "≈" // Almost equal (names shadowed by an earlier directory)
	IconEmpty    = "∅" // Listed, contributed nothing
	IconOK       = " " // Space (OK - no icon to reduce noise)
	IconLoading  = "…" // Catalog still building
	IconMatch    = "→" // Right arrow (completion applied)
)
