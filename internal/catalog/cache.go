package catalog

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"runbox/internal/model"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
)

// ScanFunc produces a catalog and the diagnostics of the scan that built it.
// (*Builder).Build is the production implementation.
type ScanFunc func() (model.Catalog, model.ScanReport)

// Cache holds the result of a single scan. The scan runs at most once per
// Cache, however many goroutines call WarmUp or Query.
type Cache struct {
	scan   ScanFunc
	logger *log.Logger

	once sync.Once
	done chan struct{}

	// Written once by build before done is closed, read-only afterwards.
	catalog model.Catalog
	report  model.ScanReport
	err     error
}

// New returns a Cache that will fill itself by calling scan once.
func New(scan ScanFunc, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cache{
		scan:   scan,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// WarmUp starts the scan in the background if it has not been started yet.
// It never blocks.
func (c *Cache) WarmUp() {
	c.once.Do(func() {
		go c.build()
	})
}

func (c *Cache) build() {
	defer close(c.done)
	defer func() {
		if r := recover(); r != nil {
			c.catalog = nil
			c.report = model.ScanReport{}
			c.err = fmt.Errorf("catalog scan panicked: %v", r)
			c.logger.Error("catalog scan failed, serving an empty catalog", "err", c.err)
		}
	}()

	c.catalog, c.report = c.scan()
}

// Wait starts the scan if needed and blocks until it has finished.
func (c *Cache) Wait() {
	c.WarmUp()
	<-c.done
}

// Ready reports whether the scan has finished, without blocking.
func (c *Cache) Ready() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Query returns every catalog entry starting with prefix, in catalog order.
// The result shares memory with the snapshot and must not be modified; its
// capacity is clipped so appending to it copies.
func (c *Cache) Query(prefix string) []string {
	c.Wait()
	cat := c.catalog

	lo, _ := slices.BinarySearch(cat, prefix)
	n := sort.Search(len(cat)-lo, func(i int) bool {
		return !strings.HasPrefix(cat[lo+i], prefix)
	})
	hi := lo + n
	return cat[lo:hi:hi]
}

// Catalog returns the complete snapshot.
func (c *Cache) Catalog() model.Catalog {
	c.Wait()
	return c.catalog[:len(c.catalog):len(c.catalog)]
}

// Report returns the diagnostics of the scan that built the snapshot.
func (c *Cache) Report() model.ScanReport {
	c.Wait()
	return c.report
}

// Err is non-nil when the scan panicked. The cache then holds an empty
// catalog.
func (c *Cache) Err() error {
	c.Wait()
	return c.err
}

// Fuzzy ranks catalog entries against pattern, best match first, and returns
// at most limit names. An empty pattern returns the first limit entries in
// catalog order. A limit <= 0 means no limit.
func (c *Cache) Fuzzy(pattern string, limit int) []string {
	c.Wait()
	if pattern == "" {
		if limit <= 0 || limit > len(c.catalog) {
			limit = len(c.catalog)
		}
		return c.catalog[:limit:limit]
	}

	matches := fuzzy.Find(pattern, c.catalog)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}
