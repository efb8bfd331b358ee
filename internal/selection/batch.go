package selection

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"verigraph/internal/classification"
)

// Selector is anything that can produce a Selection. Both *Engine and the
// caching wrapper satisfy it.
type Selector interface {
	SelectAndExplain(c classification.Classification) (Selection, error)
}

// SelectBatch runs one selection per classification with at most concurrency
// selections in flight. Results are index-aligned with cs.
//
// The first failure cancels the remaining work and is returned wrapped with
// its input index. concurrency <= 0 means GOMAXPROCS.
func SelectBatch(ctx context.Context, s Selector, cs []classification.Classification, concurrency int) ([]Selection, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	out := make([]Selection, len(cs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, c := range cs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sel, err := s.SelectAndExplain(c)
			if err != nil {
				return fmt.Errorf("classification %d: %w", i, err)
			}
			out[i] = sel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
