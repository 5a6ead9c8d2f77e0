package operators

import "runtime"

// ParallelThreshold2D is the default edge length past which kernels fan out
// over goroutines: with no explicit option a kernel parallelizes when its
// grid holds at least ParallelThreshold2D squared cells.
const ParallelThreshold2D = 256

// Strategy selects the execution plan for a kernel sweep.
type Strategy uint8

const (
	// Auto parallelizes when the grid crosses the cell threshold.
	Auto Strategy = iota
	// Serial always runs the sweep in the calling goroutine.
	Serial
	// Concurrent always fans the sweep out over goroutines.
	Concurrent
)

// Options collects the construction time execution choices. The zero value
// auto-selects based on grid size with one worker per CPU.
type Options struct {
	Strategy  Strategy
	Workers   int // goroutine count when fanning out, NumCPU when 0
	Threshold int // Auto cell threshold, ParallelThreshold2D^2 when 0
}

// Option adjusts the execution plan of a kernel at construction.
type Option func(*Options)

// Sequential forces the single goroutine path.
func Sequential() Option {
	return func(o *Options) { o.Strategy = Serial }
}

// Parallel forces the fan-out path with the given worker count;
// workers <= 0 selects one worker per CPU.
func Parallel(workers int) Option {
	return func(o *Options) {
		o.Strategy = Concurrent
		o.Workers = workers
	}
}

// Threshold overrides the cell count at which Auto switches to the
// fan-out path.
func Threshold(cells int) Option {
	return func(o *Options) { o.Threshold = cells }
}

// Gather applies opts to the zero Options.
func Gather(opts []Option) (o Options) {
	for _, opt := range opts {
		opt(&o)
	}
	return
}

// Decide resolves the options into the execution plan for a kernel whose
// sweep covers cells grid cells fanned out over lanes independent lanes.
func (o Options) Decide(cells, lanes int) (parallel bool, workers int) {
	threshold := o.Threshold
	if threshold <= 0 {
		threshold = ParallelThreshold2D * ParallelThreshold2D
	}
	switch o.Strategy {
	case Serial:
		parallel = false
	case Concurrent:
		parallel = true
	default:
		parallel = cells >= threshold
	}
	workers = o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > lanes {
		workers = lanes
	}
	if workers <= 1 {
		parallel = false
	}
	return
}
