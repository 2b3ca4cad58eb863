package xsd2jsonschema

import (
	"context"
	"errors"
	"sync"
)

// LoadFunc reads and parses the XSD document at an absolute location.
type LoadFunc func(ctx context.Context, location string) (*XsdFile, error)

// DocumentCache parses each location at most once, also when several
// goroutines ask for it at the same time.
type DocumentCache struct {
	mu      sync.RWMutex
	entries map[string]*documentEntry
	load    LoadFunc
}

type documentEntry struct {
	once sync.Once
	file *XsdFile
	err  error
}

func NewDocumentCache(load LoadFunc) *DocumentCache {
	return &DocumentCache{
		entries: make(map[string]*documentEntry),
		load:    load,
	}
}

// Get returns the document at location, loading it on first use. A failed
// load is cached as well, unless it failed because its context was
// cancelled or timed out.
func (c *DocumentCache) Get(ctx context.Context, location string) (*XsdFile, error) {
	c.mu.RLock()
	entry, ok := c.entries[location]
	c.mu.RUnlock()
	if !ok {
		c.mu.Lock()
		if entry, ok = c.entries[location]; !ok {
			entry = &documentEntry{}
			c.entries[location] = entry
		}
		c.mu.Unlock()
	}
	entry.once.Do(func() {
		entry.file, entry.err = c.load(ctx, location)
		if errors.Is(entry.err, context.Canceled) || errors.Is(entry.err, context.DeadlineExceeded) {
			c.forget(location, entry)
		}
	})
	return entry.file, entry.err
}

func (c *DocumentCache) forget(location string, entry *documentEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[location] == entry {
		delete(c.entries, location)
	}
}

// Len returns the number of cached locations.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Remove forgets location so the next Get loads it again.
func (c *DocumentCache) Remove(location string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, location)
}

// Clear forgets every location.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*documentEntry)
}
