// Package cache provides an LRU cache for analysis results with disk
// persistence, so repeated runs over unchanged sources skip the solver.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/go-dataflow-query/pkg/dataflow"
)

// ErrKeyNotFound is returned when a key is not found in the cache.
var ErrKeyNotFound = errors.New("key not found")

// Results holds the cached output of one or more analyses over one
// function's graph, keyed by analysis name.
type Results map[string]*dataflow.Result

// Entry is one cache entry with metadata.
type Entry struct {
	Key        string
	Results    Results
	CreatedAt  time.Time
	AccessedAt time.Time
}

// ResultCache is an in-memory LRU cache of analysis results with optional
// disk persistence.
type ResultCache struct {
	mu      sync.RWMutex
	items   map[string]*listItem
	lru     *list // most recent at front
	maxSize int
}

// listItem is an item in the doubly-linked list.
type listItem struct {
	Entry
	prev *listItem
	next *listItem
}

// list is a doubly-linked list ordered by recency of access.
type list struct {
	head *listItem
	tail *listItem
	len  int
}

func (l *list) moveToFront(item *listItem) {
	if item == l.head {
		return
	}
	if item.prev != nil {
		item.prev.next = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	}
	if item == l.tail {
		l.tail = item.prev
	}

	item.prev = nil
	item.next = l.head
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item
	if l.tail == nil {
		l.tail = item
	}
}

func (l *list) pushFront(item *listItem) {
	item.next = l.head
	item.prev = nil
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item
	if l.tail == nil {
		l.tail = item
	}
	l.len++
}

func (l *list) removeBack() *listItem {
	if l.tail == nil {
		return nil
	}
	item := l.tail
	l.tail = item.prev
	if l.tail != nil {
		l.tail.next = nil
	} else {
		l.head = nil
	}
	l.len--
	return item
}

// New creates a result cache holding at most maxSize entries; 0 means
// unlimited.
func New(maxSize int) *ResultCache {
	return &ResultCache{
		items:   make(map[string]*listItem),
		lru:     &list{},
		maxSize: maxSize,
	}
}

// Key derives the cache key for one function of one source file. The
// content hash invalidates entries when the file changes.
func Key(path, function string, content []byte) string {
	sum := sha256.Sum256(content)
	return path + ":" + function + ":" + hex.EncodeToString(sum[:8])
}

// Get retrieves cached results by key.
func (c *ResultCache) Get(key string) (Results, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}
	item.AccessedAt = time.Now()
	c.lru.moveToFront(item)
	return item.Results, true
}

// Set stores results under key, evicting the least recently used entry when
// the cache is full.
func (c *ResultCache) Set(key string, results Results) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, exists := c.items[key]; exists {
		item.Results = results
		item.AccessedAt = time.Now()
		c.lru.moveToFront(item)
		return
	}

	item := &listItem{
		Entry: Entry{
			Key:        key,
			Results:    results,
			CreatedAt:  time.Now(),
			AccessedAt: time.Now(),
		},
	}
	c.items[key] = item
	c.lru.pushFront(item)

	for c.maxSize > 0 && c.lru.len > c.maxSize {
		evicted := c.lru.removeBack()
		if evicted == nil {
			break
		}
		delete(c.items, evicted.Key)
	}
}

// Delete removes a key from the cache.
func (c *ResultCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		return
	}
	if item.prev != nil {
		item.prev.next = item.next
	} else {
		c.lru.head = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	} else {
		c.lru.tail = item.prev
	}
	c.lru.len--
	delete(c.items, key)
}

// Clear removes all entries from the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*listItem)
	c.lru = &list{}
}

// Len returns the number of entries in the cache.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Save persists the cache to a writer using msgpack, most recently used
// first.
func (c *ResultCache) Save(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.items))
	for item := c.lru.head; item != nil; item = item.next {
		entries = append(entries, item.Entry)
	}
	return msgpack.NewEncoder(w).Encode(entries)
}

// Load restores the cache from a reader using msgpack. Existing entries are
// kept; loaded entries that exceed the size cap are evicted as usual.
func (c *ResultCache) Load(r io.Reader) error {
	var entries []Entry
	if err := msgpack.NewDecoder(r).Decode(&entries); err != nil {
		return err
	}
	// Oldest first so recency survives the roundtrip
	for i := len(entries) - 1; i >= 0; i-- {
		c.Set(entries[i].Key, entries[i].Results)
	}
	return nil
}

// SaveFile persists the cache to a file, creating parent directories.
func (c *ResultCache) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Save(f)
}

// LoadFile restores the cache from a file; a missing file is not an error.
func (c *ResultCache) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return c.Load(f)
}
