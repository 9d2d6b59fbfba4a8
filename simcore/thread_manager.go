package simcore

import (
	"runtime"
	"sync"

	"github.com/alitto/pond"
)

// ThreadManager is the fixed-size worker pool spec §5 calls out as an
// external collaborator: "work may be parallelised inside one tick
// across a fixed-size worker pool (provided by an external
// ThreadManager), but the tick boundary is a global barrier." Grounded
// on sixy6e-go-gsf's pond.New(n, 0, pond.MinWorkers(n)) fixed-pool
// idiom, reused here for the simulation's own per-ship PreUpdate/Update/
// PostUpdate stages (simcore/modules.go) instead of file-conversion jobs.
type ThreadManager struct {
	pool *pond.WorkerPool
}

// NewThreadManager builds a pool of workers workers wide; workers<=0
// defaults to runtime.NumCPU().
func NewThreadManager(workers int) *ThreadManager {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ThreadManager{pool: pond.New(workers, 0, pond.MinWorkers(workers))}
}

// Parallelize runs fn(0)..fn(n-1), each on a pool worker, and joins
// before returning — a "join-before-next-phase" barrier per spec §5
// ("no cancellation tokens"). n<=1 runs inline without touching the
// pool, since most callers invoke this with one entry per ship and a
// single-ship world shouldn't pay scheduling overhead.
func (tm *ThreadManager) Parallelize(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if n == 1 || tm == nil || tm.pool == nil {
		fn(0)
		return
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		tm.pool.Submit(func() {
			defer wg.Done()
			fn(i)
		})
	}
	wg.Wait()
}

// Close stops the pool, waiting for any in-flight task to finish.
func (tm *ThreadManager) Close() {
	if tm != nil && tm.pool != nil {
		tm.pool.StopAndWait()
	}
}
