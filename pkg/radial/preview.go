package radial

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/keywheel/pkg/theory"
)

// Preview lays out several roots at the same tick concurrently.
// The result is keyed by root spelling. Cancelling ctx stops roots that have
// not started yet and returns the context error.
func Preview(ctx context.Context, roots []theory.Key, tick uint, cfg Config, opts ...Option) (map[string][]Node, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu sync.Mutex
	out := make(map[string][]Node, len(roots))

	for _, root := range roots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			nodes := ComputeLayout(root, tick, cfg, opts...)
			mu.Lock()
			out[root.Spelling()] = nodes
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
