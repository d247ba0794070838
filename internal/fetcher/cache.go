package fetcher

import (
	"container/list"
	"sync"
)

// pageCache is a bounded FIFO map from normalized URL to page. Reads do not
// refresh an entry's position.
type pageCache struct {
	mu      sync.Mutex
	max     int
	order   *list.List
	entries map[string]*list.Element
}

type cacheEntry struct {
	key  string
	page Page
}

func newPageCache(max int) *pageCache {
	return &pageCache{
		max:     max,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

func (c *pageCache) get(key string) (Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return Page{}, false
	}
	return el.Value.(*cacheEntry).page, true
}

func (c *pageCache) put(key string, p Page) {
	if c.max <= 0 || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).page = p
		return
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, page: p})
	for c.order.Len() > c.max {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *pageCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
