// Package cache persists interpreter results between runs so unchanged
// schedule tables do not trigger repeat completion API calls.
package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ekinay/dropin-schedules/internal/interpreter"
)

// TableCache maps a fingerprint of cleaned table HTML to the schedule
// entries previously extracted from it. Entries looked up or stored during
// the current run are carried into the next cache file; stale entries for
// tables that no longer appear upstream are dropped on save.
type TableCache struct {
	path string
	prev map[string][]interpreter.RawSchedule
	next map[string][]interpreter.RawSchedule
}

// Key fingerprints cleaned table HTML.
func Key(tableHTML string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(tableHTML)))
}

// New creates an empty cache that will save to path.
func New(path string) *TableCache {
	return &TableCache{
		path: path,
		prev: make(map[string][]interpreter.RawSchedule),
		next: make(map[string][]interpreter.RawSchedule),
	}
}

// Load reads the cache file at path. A missing file yields an empty cache;
// a corrupt file is an error so drift is noticed rather than silently
// re-billed.
func Load(path string) (*TableCache, error) {
	c := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	if err := json.Unmarshal(data, &c.prev); err != nil {
		return nil, fmt.Errorf("parsing cache: %w", err)
	}
	return c, nil
}

// Get returns the cached entries for key, marking them live so they survive
// the next Save.
func (c *TableCache) Get(key string) ([]interpreter.RawSchedule, bool) {
	if schedules, ok := c.next[key]; ok {
		return schedules, true
	}
	if schedules, ok := c.prev[key]; ok {
		c.next[key] = schedules
		return schedules, true
	}
	return nil, false
}

// Put stores freshly extracted entries for key.
func (c *TableCache) Put(key string, schedules []interpreter.RawSchedule) {
	if len(schedules) == 0 {
		return
	}
	c.next[key] = schedules
}

// Len reports how many entries are live in the current run.
func (c *TableCache) Len() int {
	return len(c.next)
}

// Save writes the live entries back to the cache file. Nothing is written
// when no entry was touched this run.
func (c *TableCache) Save() error {
	if len(c.next) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(c.next, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}
