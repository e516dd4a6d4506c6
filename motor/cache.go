package motor

import (
	"container/list"
	"sync"

	"github.com/pb33f/browserkit/response"
)

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(index int) (*response.Response, bool) {
	return nil, false
}

func (c *NoOpCache) Put(index int, resp *response.Response) {}

func (c *NoOpCache) Clear() {}

func (c *NoOpCache) Size() int {
	return 0
}

// LRUCache keeps the most recently used responses up to a fixed capacity.
// Responses are immutable so they are shared, not copied.
type LRUCache struct {
	capacity int
	items    map[int]*list.Element
	order    *list.List
	mu       sync.Mutex
}

type lruItem struct {
	index int
	resp  *response.Response
}

func NewLRUCache(capacity int) *LRUCache {
	if capacity < 1 {
		capacity = 1
	}
	return &LRUCache{
		capacity: capacity,
		items:    make(map[int]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *LRUCache) Get(index int) (*response.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[index]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruItem).resp, true
}

func (c *LRUCache) Put(index int, resp *response.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[index]; ok {
		el.Value.(*lruItem).resp = resp
		c.order.MoveToFront(el)
		return
	}

	c.items[index] = c.order.PushFront(&lruItem{index: index, resp: resp})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*lruItem).index)
	}
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[int]*list.Element, c.capacity)
	c.order.Init()
}

func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
