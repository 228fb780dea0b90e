package heapfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Entry is a catalog record: a table's identity and the heap file page
// it begins at. Mirrors the teacher's CatalogEntry, narrowed to what a
// slotted-page heap (rather than a B+Tree-indexed SQL table) needs.
type Entry struct {
	Tenant      string    `json:"tenant"`
	Table       string    `json:"table"`
	TableID     uuid.UUID `json:"table_id"`
	FirstPageID uint16    `json:"first_page_id"`
}

func catalogKey(tenant, table string) string {
	return tenant + "\x00" + table
}

// Catalog maps (tenant, table) names to a generated table id and first
// page, and persists that mapping as a JSON sidecar file. The teacher
// keeps this mapping in a B+Tree rooted at a page recorded in the
// superblock; a heap of slotted pages has no index to root it in, so
// the mapping is kept as a small flat file instead — same key shape
// and API, simpler backing store.
type Catalog struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Entry
}

// OpenCatalog loads the catalog at path, creating an empty one if it
// doesn't exist yet.
func OpenCatalog(path string) (*Catalog, error) {
	c := &Catalog{path: path, entries: make(map[string]Entry)}
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(buf) == 0 {
		return c, nil
	}
	var list []Entry
	if err := json.Unmarshal(buf, &list); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for _, e := range list {
		c.entries[catalogKey(e.Tenant, e.Table)] = e
	}
	return c, nil
}

// Register creates a new table entry with a fresh table id, persists
// the catalog, and returns the entry.
func (c *Catalog) Register(tenant, table string, firstPageID uint16) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := catalogKey(tenant, table)
	if _, exists := c.entries[key]; exists {
		return Entry{}, fmt.Errorf("heapfile: table %s/%s already registered", tenant, table)
	}
	e := Entry{Tenant: tenant, Table: table, TableID: uuid.New(), FirstPageID: firstPageID}
	c.entries[key] = e
	return e, c.saveLocked()
}

// Lookup returns the entry for (tenant, table), or ErrNotFound.
func (c *Catalog) Lookup(tenant, table string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[catalogKey(tenant, table)]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// ListTables returns every table name registered for tenant, sorted.
func (c *Catalog) ListTables(tenant string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var names []string
	for _, e := range c.entries {
		if e.Tenant == tenant {
			names = append(names, e.Table)
		}
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) saveLocked() error {
	list := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Tenant != list[j].Tenant {
			return list[i].Tenant < list[j].Tenant
		}
		return list[i].Table < list[j].Table
	})
	buf, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return os.WriteFile(c.path, buf, 0644)
}
