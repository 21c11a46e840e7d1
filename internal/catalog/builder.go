package catalog

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"
	"unicode/utf8"

	"runbox/internal/model"

	"github.com/charmbracelet/log"
)

// DefaultPathVar is the environment variable listing the directories to scan.
const DefaultPathVar = "PATH"

// Builder scans the search path and produces a Catalog.
type Builder struct {
	pathVar string
	policy  model.PermissionPolicy
	lookup  func(string) (string, bool)
	readDir func(string) ([]os.DirEntry, error)
	logger  *log.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPathVar reads the search path from a different environment variable.
func WithPathVar(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.pathVar = name
		}
	}
}

// WithPolicy sets the permission policy used to accept files.
func WithPolicy(p model.PermissionPolicy) Option {
	return func(b *Builder) {
		if p.Valid() {
			b.policy = p
		}
	}
}

// WithLookupEnv replaces os.LookupEnv, mainly for tests.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(b *Builder) {
		if fn != nil {
			b.lookup = fn
		}
	}
}

// NewBuilder returns a Builder reading $PATH with the executable policy.
// A nil logger discards all output.
func NewBuilder(logger *log.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	b := &Builder{
		pathVar: DefaultPathVar,
		policy:  model.PolicyExecutable,
		lookup:  os.LookupEnv,
		readDir: os.ReadDir,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Policy returns the permission policy the builder applies.
func (b *Builder) Policy() model.PermissionPolicy {
	return b.policy
}

// Build scans every search-path directory once. Directories that cannot be
// listed and entries that cannot be stat'ed are logged and skipped; Build
// itself never fails.
func (b *Builder) Build() (model.Catalog, model.ScanReport) {
	start := time.Now()
	report := model.ScanReport{
		PathVar: b.pathVar,
		Policy:  b.policy,
	}

	value, ok := b.lookup(b.pathVar)
	if !ok || value == "" {
		b.logger.Warn("search path is empty", "var", b.pathVar)
		report.Diagnostics = append(report.Diagnostics, "$"+b.pathVar+" is not set or empty")
	}

	seen := make(map[string]struct{})
	var names []string

	for _, dir := range filepath.SplitList(value) {
		b.logger.Debug("looking for binaries", "dir", dir)
		dr := model.DirReport{Path: dir}

		// Entries read before a listing error are still used.
		entries, err := b.readDir(dir)
		if err != nil {
			b.logger.Warn("cannot list directory", "dir", dir, "err", err, "read", len(entries))
			dr.Err = err.Error()
			if len(entries) == 0 {
				report.Dirs = append(report.Dirs, dr)
				continue
			}
		}
		dr.Listed = len(entries)

		for _, entry := range entries {
			name := entry.Name()
			if name == "" || !utf8.ValidString(name) {
				b.logger.Debug("skipping entry with unreadable name", "dir", dir, "name", name)
				dr.Skipped++
				continue
			}
			if _, dup := seen[name]; dup {
				dr.Shadowed = append(dr.Shadowed, name)
				continue
			}

			full := filepath.Join(dir, name)
			info, err := os.Stat(full)
			if err != nil {
				b.logger.Warn("cannot stat entry", "path", full, "err", err)
				dr.Skipped++
				continue
			}
			if !b.policy.Allows(info.Mode()) {
				dr.Skipped++
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
			dr.Accepted++
		}
		report.Dirs = append(report.Dirs, dr)
	}

	slices.Sort(names)

	report.Total = len(names)
	report.Duration = time.Since(start)
	for _, dr := range report.Dirs {
		if !dr.Available() {
			report.Diagnostics = append(report.Diagnostics, "cannot list "+dr.Path+": "+dr.Err)
		}
	}

	b.logger.Info("found binaries for autocompletion",
		"count", len(names), "dirs", len(report.Dirs), "elapsed", report.Duration)

	return model.Catalog(names), report
}
