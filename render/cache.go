// Package render provides the page raster cache and the background
// workers that re-render documents for thumbnails and zoom changes.
package render

import "image"

// DefaultCacheSize is the number of rendered pages kept in memory.
const DefaultCacheSize = 10

// CacheKey identifies one rendered raster. Two renders of the same
// page differ whenever zoom or rotation differ.
type CacheKey struct {
	Page     int
	Zoom     float64
	Rotation int
}

// Cache is an LRU cache of rendered page rasters. It is not safe for
// concurrent use; the session serializes access to it.
type Cache struct {
	capacity    int
	entries     map[CacheKey]*cacheEntry
	first, last *cacheEntry
}

type cacheEntry struct {
	prev, next *cacheEntry
	key        CacheKey
	img        image.Image
}

// NewCache creates a cache holding up to capacity rasters. A
// non-positive capacity falls back to DefaultCacheSize.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[CacheKey]*cacheEntry, capacity),
	}
}

// Get returns a cached raster and marks it as recently used.
func (c *Cache) Get(key CacheKey) (image.Image, bool) {
	ent, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(ent)
	return ent.img, true
}

// Put stores a raster, evicting the least recently used entry when the
// cache is full.
func (c *Cache) Put(key CacheKey, img image.Image) {
	if ent, ok := c.entries[key]; ok {
		ent.img = img
		c.moveToFront(ent)
		return
	}
	ent := &cacheEntry{key: key, img: img}
	c.entries[key] = ent
	c.moveToFront(ent)
	if len(c.entries) > c.capacity {
		c.removeLast()
	}
}

// Len returns the number of cached rasters.
func (c *Cache) Len() int { return len(c.entries) }

// InvalidatePage drops every cached raster of one page, across all
// zoom and rotation combinations.
func (c *Cache) InvalidatePage(page int) {
	for key, ent := range c.entries {
		if key.Page == page {
			c.unlink(ent)
			delete(c.entries, key)
		}
	}
}

// Clear drops everything.
func (c *Cache) Clear() {
	c.entries = make(map[CacheKey]*cacheEntry, c.capacity)
	c.first = nil
	c.last = nil
}

func (c *Cache) moveToFront(ent *cacheEntry) {
	if ent == c.first {
		return
	}
	c.unlink(ent)
	ent.next = c.first
	if c.first != nil {
		c.first.prev = ent
	}
	c.first = ent
	if c.last == nil {
		c.last = ent
	}
}

func (c *Cache) removeLast() {
	ent := c.last
	if ent == nil {
		return
	}
	c.unlink(ent)
	delete(c.entries, ent.key)
}

func (c *Cache) unlink(ent *cacheEntry) {
	if ent.prev != nil {
		ent.prev.next = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	}
	if c.first == ent {
		c.first = ent.next
	}
	if c.last == ent {
		c.last = ent.prev
	}
	ent.prev = nil
	ent.next = nil
}
