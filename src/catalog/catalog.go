// backend/src/catalog/catalog.go
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/username/tradeflow/backend/src/logger"
	"github.com/username/tradeflow/backend/src/metrics"
)

// MissingNamePrefix is prepended to the product id when a lookup finds
// no mapping. Absence is never an error.
const MissingNamePrefix = "Missing Product Name for ID="

// ErrEmptyCatalog is returned when a load produces zero usable entries.
// The previously active snapshot, if any, stays in force.
var ErrEmptyCatalog = errors.New("product catalog is empty")

type snapshot map[string]string

// Catalog maps product ids to product names. The mapping lives in an
// immutable snapshot behind an atomic pointer: concurrent pipeline runs
// read without locking, and a reload publishes a complete replacement
// snapshot or nothing at all.
type Catalog struct {
	current atomic.Pointer[snapshot]
}

func New() *Catalog {
	return &Catalog{}
}

// Lookup returns the product name for id, or the deterministic
// missing-name placeholder when the current snapshot has no entry.
func (c *Catalog) Lookup(productID string) string {
	if snap := c.current.Load(); snap != nil {
		if name, ok := (*snap)[productID]; ok {
			return name
		}
	}
	metrics.CatalogMissesTotal.Inc()
	return MissingNamePrefix + productID
}

// Size reports the entry count of the current snapshot.
func (c *Catalog) Size() int {
	if snap := c.current.Load(); snap != nil {
		return len(*snap)
	}
	return 0
}

// LoadFromFile reads the two-column product reference file at path and
// atomically swaps in the resulting snapshot. See Load for the format
// and rejection rules.
func (c *Catalog) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening product catalog %s: %w", path, err)
	}
	defer f.Close()
	return c.Load(f)
}

// Load parses "id,name" lines from r. A line that does not split into
// exactly two non-blank fields is logged and skipped; a duplicate id
// overwrites the earlier entry with a warning. An empty result is
// rejected with ErrEmptyCatalog and the previous snapshot is retained.
func (c *Catalog) Load(r io.Reader) error {
	next := make(snapshot)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			logger.L.Warn("Invalid product line, skipping", "line", line)
			continue
		}
		id := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if _, dup := next[id]; dup {
			logger.L.Warn("Duplicated product line, keeping latest", "line", line)
		}
		next[id] = name
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading product catalog: %w", err)
	}

	if len(next) == 0 {
		logger.L.Warn("Product catalog load produced no entries, keeping previous snapshot")
		return ErrEmptyCatalog
	}

	c.current.Store(&next)
	metrics.CatalogProducts.Set(float64(len(next)))
	logger.L.Info("Product catalog snapshot published", "products", len(next))
	return nil
}
