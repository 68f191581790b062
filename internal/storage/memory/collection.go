package memory

import (
	"fmt"
	"sync"

	"github.com/mmynk/hecovacka/internal/storage"
)

// collection is an insertion-ordered set of records keyed by ID.
// Records are stored as copies so callers cannot mutate stored state.
type collection[T any] struct {
	mu    sync.RWMutex
	name  string
	idOf  func(*T) string
	order []string
	items map[string]*T
}

func newCollection[T any](name string, idOf func(*T) string) *collection[T] {
	return &collection[T]{
		name:  name,
		idOf:  idOf,
		items: make(map[string]*T),
	}
}

// insert stores a copy of item. The ID must be unique within the collection.
func (c *collection[T]) insert(item *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(item)
}

func (c *collection[T]) insertLocked(item *T) error {
	id := c.idOf(item)
	if _, exists := c.items[id]; exists {
		return fmt.Errorf("%s %s: %w", c.name, id, storage.ErrDuplicate)
	}
	stored := *item
	c.items[id] = &stored
	c.order = append(c.order, id)
	return nil
}

// findByID returns a copy of the record or ErrNotFound.
func (c *collection[T]) findByID(id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, storage.ErrNotFound)
	}
	found := *item
	return &found, nil
}

// findAll returns copies of every record in insertion order.
func (c *collection[T]) findAll() []*T {
	return c.findBy(func(*T) bool { return true })
}

// findBy returns copies of the records matching pred in insertion order.
// The result is never nil.
func (c *collection[T]) findBy(pred func(*T) bool) []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*T, 0)
	for _, id := range c.order {
		item := c.items[id]
		if pred(item) {
			found := *item
			out = append(out, &found)
		}
	}
	return out
}

// findOne returns a copy of the first record matching pred or ErrNotFound.
func (c *collection[T]) findOne(pred func(*T) bool, key string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		if item := c.items[id]; pred(item) {
			found := *item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", c.name, key, storage.ErrNotFound)
}

func (c *collection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
