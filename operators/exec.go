package operators

import (
	"sync"

	"github.com/axisolve/gopde/utils"
)

// Executor runs a kernel sweep over the independent lanes of one grid
// axis, either in a single pass or fanned out over PartitionMap buckets
// with one goroutine per bucket. The per-lane work is identical either
// way, so both paths produce bit-for-bit identical output.
type Executor struct {
	lanes    int
	parallel bool
	pm       *utils.PartitionMap
}

// NewExecutor fixes the execution plan for a kernel whose sweep covers
// cells grid cells split into lanes independent lanes.
func NewExecutor(opts Options, cells, lanes int) (ex *Executor) {
	ex = &Executor{lanes: lanes}
	parallel, workers := opts.Decide(cells, lanes)
	if parallel {
		ex.parallel = true
		ex.pm = utils.NewPartitionMap(workers, lanes)
	}
	return
}

// Parallel reports whether Run fans out over goroutines.
func (ex *Executor) Parallel() bool { return ex.parallel }

// Run invokes sweep over half-open lane ranges covering [0, lanes).
func (ex *Executor) Run(sweep func(jMin, jMax int)) {
	if !ex.parallel {
		sweep(0, ex.lanes)
		return
	}
	wg := sync.WaitGroup{}
	for np := 0; np < ex.pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			jMin, jMax := ex.pm.GetBucketRange(np)
			sweep(jMin, jMax)
			wg.Done()
		}(np)
	}
	wg.Wait()
}
