package dataflow

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RunAll runs every given analysis over one graph concurrently and returns
// the results keyed by analysis name. Each run owns disjoint state and only
// reads the shared graph, so the runs are independent; the caller must not
// mutate the graph while RunAll is in flight. With no analyses given, both
// built-in analyses are run.
func RunAll(ctx context.Context, g CFG, analyses ...Analysis) (map[string]*Result, error) {
	if len(analyses) == 0 {
		analyses = []Analysis{ReachingDefinitions{}, ReachableReferences{}}
	}

	var mu sync.Mutex
	results := make(map[string]*Result, len(analyses))

	eg, ctx := errgroup.WithContext(ctx)
	for _, a := range analyses {
		a := a
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Run(g, a)
			if err != nil {
				return err
			}
			mu.Lock()
			results[a.Name()] = res
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
