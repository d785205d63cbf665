// Package store implements the in-memory entity store backing the event
// reduction. Collections are concurrent maps so the query server can read
// while the single-threaded reduction writes.
package store

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
)

// Key is any composite key with a canonical string serialization. Keys are
// structs rather than ad hoc concatenations so that delimiter collisions are
// impossible by construction.
type Key interface {
	fmt.Stringer
}

// Collection is a typed keyspace of one entity type.
type Collection[T any] struct {
	m *xsync.Map[string, *T]
}

func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{m: xsync.NewMap[string, *T]()}
}

// Load returns the entity for key, or nil when absent.
func (c *Collection[T]) Load(key Key) *T {
	v, ok := c.m.Load(key.String())
	if !ok {
		return nil
	}
	return v
}

// LoadID is Load for callers that already hold a canonical id string.
func (c *Collection[T]) LoadID(id string) *T {
	v, ok := c.m.Load(id)
	if !ok {
		return nil
	}
	return v
}

// MustLoad returns the entity for key and panics when it does not exist.
// Used for "must already exist" lookups where absence means an invariant was
// broken upstream.
func (c *Collection[T]) MustLoad(key Key) *T {
	v, ok := c.m.Load(key.String())
	if !ok {
		panic(fmt.Sprintf("store: required entity %q does not exist", key.String()))
	}
	return v
}

// MustLoadID is MustLoad by canonical id string.
func (c *Collection[T]) MustLoadID(id string) *T {
	v, ok := c.m.Load(id)
	if !ok {
		panic(fmt.Sprintf("store: required entity %q does not exist", id))
	}
	return v
}

// Save upserts the entity under key.
func (c *Collection[T]) Save(key Key, v *T) {
	c.m.Store(key.String(), v)
}

// SaveID upserts the entity under a canonical id string.
func (c *Collection[T]) SaveID(id string, v *T) {
	c.m.Store(id, v)
}

// Delete removes the entity under key, if present.
func (c *Collection[T]) Delete(key Key) {
	c.m.Delete(key.String())
}

// DeleteID removes the entity under a canonical id string, if present.
func (c *Collection[T]) DeleteID(id string) {
	c.m.Delete(id)
}

// Has reports whether an entity exists under key.
func (c *Collection[T]) Has(key Key) bool {
	_, ok := c.m.Load(key.String())
	return ok
}

// Len returns the number of stored entities.
func (c *Collection[T]) Len() int {
	return c.m.Size()
}

// Range iterates all entities. Iteration order is unspecified.
func (c *Collection[T]) Range(fn func(id string, v *T) bool) {
	c.m.Range(fn)
}

// StringID adapts a raw string into a Key. Reserved for synthesized ids
// (historical forks, raw event rows) whose format is owned by the caller.
type StringID string

func (s StringID) String() string { return string(s) }
