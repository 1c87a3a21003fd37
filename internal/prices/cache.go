package prices

import (
	"maps"

	"scryfallprices/internal/jsonfile"
)

// Cache stores raw price records by card name.
type Cache interface {
	Get(name string) (Record, bool)
	Put(name string, record Record)
	Len() int
	// Snapshot returns a copy of every stored record.
	Snapshot() map[string]Record
}

// MemoryCache is a Cache backed by a plain map.
type MemoryCache struct {
	records map[string]Record
}

// NewMemoryCache creates a cache seeded with a copy of seed, which may be nil.
func NewMemoryCache(seed map[string]Record) *MemoryCache {
	records := make(map[string]Record, len(seed))
	maps.Copy(records, seed)
	return &MemoryCache{records: records}
}

// LoadCache seeds a cache from a JSON file such as a recovery file.
func LoadCache(path string) (*MemoryCache, error) {
	var seed map[string]Record
	if err := jsonfile.Read(path, &seed); err != nil {
		return nil, err
	}
	return NewMemoryCache(seed), nil
}

func (c *MemoryCache) Get(name string) (Record, bool) {
	r, ok := c.records[name]
	return r, ok
}

func (c *MemoryCache) Put(name string, record Record) {
	c.records[name] = record
}

func (c *MemoryCache) Len() int {
	return len(c.records)
}

func (c *MemoryCache) Snapshot() map[string]Record {
	return maps.Clone(c.records)
}
