package cache

import (
	"context"
	"time"
)

// NullCache never stores anything. Use it to disable caching.
type NullCache[V any] struct{}

// NewNullCache creates a null cache.
func NewNullCache[V any]() Cache[V] {
	return NullCache[V]{}
}

// Get always returns a miss.
func (NullCache[V]) Get(context.Context, string) (V, bool, error) {
	var zero V
	return zero, false, nil
}

// Set does nothing.
func (NullCache[V]) Set(context.Context, string, V, time.Duration) error { return nil }

// Delete does nothing.
func (NullCache[V]) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (NullCache[V]) Close() error { return nil }

var _ Cache[int] = NullCache[int]{}
