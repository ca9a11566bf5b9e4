package cache

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache[string]()
	defer c.Close()

	v, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || v != "" {
		t.Errorf("Get = %q, %v; want miss", v, hit)
	}

	if err := c.Set(ctx, "key", "value", time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int]()

	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Fatal("empty cache returned a hit")
	}
	if err := c.Set(ctx, "a", 7, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	v, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || v != 7 {
		t.Errorf("Get = %d, %v, %v; want 7, true, nil", v, hit, err)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Delete returned a hit")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string]()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", "x", time.Minute)
	_ = c.Set(ctx, "forever", "y", 0)

	now = now.Add(30 * time.Second)
	if _, hit, _ := c.Get(ctx, "short"); !hit {
		t.Error("entry expired before its TTL")
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("entry still served after its TTL")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL expired")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after lazy eviction", c.Len())
	}
}

func TestMemoryCacheClose(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int]()
	_ = c.Set(ctx, "a", 1, 0)

	if err := c.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", c.Len())
	}
	_ = c.Set(ctx, "b", 2, 0)
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("Set after Close stored a value")
	}
}

func TestMemoryCacheCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewMemoryCache[int]()
	if err := c.Set(ctx, "a", 1, 0); err != context.Canceled {
		t.Errorf("Set error = %v, want context.Canceled", err)
	}
	if _, _, err := c.Get(ctx, "a"); err != context.Canceled {
		t.Errorf("Get error = %v, want context.Canceled", err)
	}
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int]()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i%8))
			_ = c.Set(ctx, key, i, time.Minute)
			_, _, _ = c.Get(ctx, key)
		}()
	}
	wg.Wait()

	if c.Len() != 8 {
		t.Errorf("Len() = %d, want 8", c.Len())
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := TopologyKeyOpts{Rings: [3]float64{150, 300, 450}, Slices: [3]float64{360, 60, 10}}

	key := k.TopologyKey("C", base)
	if !strings.HasPrefix(key, "topology:C:") {
		t.Errorf("TopologyKey = %s, want topology:C: prefix", key)
	}
	if key != k.TopologyKey("C", base) {
		t.Error("TopologyKey should be deterministic")
	}
	if key == k.TopologyKey("Cm", base) {
		t.Error("Different roots should produce different keys")
	}

	wider := base
	wider.Slices[1] = 90
	if key == k.TopologyKey("C", wider) {
		t.Error("Different slices should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := TopologyKeyOpts{}
	scoped := NewScopedKeyer(NewDefaultKeyer(), "serve:")

	got := scoped.TopologyKey("Am", opts)
	want := "serve:" + NewDefaultKeyer().TopologyKey("Am", opts)
	if got != want {
		t.Errorf("TopologyKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.TopologyKey("G", TopologyKeyOpts{}); !strings.HasPrefix(key, "prefix:topology:G:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
