package ingest

import "golang.org/x/sync/errgroup"

// parallelForEach runs body(i) for every i in [0, n) across threads
// goroutines at most, joining before returning. It is the
// parallel_for_each(begin, end, n_threads, body) primitive spec §5/§6
// describes as a consumed interface, built the same way the teacher's
// database.ConcurrentMapFuncWithError bounds fan-out: a single
// errgroup.Group with SetLimit, rather than a hand-rolled worker pool.
func parallelForEach(n, threads int, body func(i int) error) error {
	eg := errgroup.Group{}
	if threads <= 0 {
		threads = 1
	}
	eg.SetLimit(threads)

	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			return body(i)
		})
	}
	return eg.Wait()
}
