package surf

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// forEach calls fn for every index in [0, n) using at most workers
// concurrent goroutines (GOMAXPROCS when workers is 0). fn must only write
// to state owned by its index.
func forEach(n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
