// Package cache memoizes derived values in process.
//
// The topology of a key tree depends only on the root spelling and the
// geometry, so a computed tree can be reused across ticks, frames and
// requests. Caches here are typed and never persist anything.
//
//	c := cache.NewMemoryCache[*radial.Topology]()
//	key := cache.NewDefaultKeyer().TopologyKey("C", cache.TopologyKeyOpts{...})
//	if topo, ok, _ := c.Get(ctx, key); ok {
//	    return topo
//	}
package cache

import (
	"context"
	"time"
)

// TTLTopology is how long a topology stays cached. Topologies never go stale,
// so the TTL only bounds memory held by a long-running server.
const TTLTopology = time.Hour

// Cache stores values of type V under string keys.
// A ttl of zero means the entry never expires.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
