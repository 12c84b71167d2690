// Package compute dispatches subdivision kernel batches across a worker
// pool. The kernels themselves carry no synchronization; the controller
// owns the ordering contract, inserting a full barrier between kernel
// phases and between refinement levels.
package compute

import (
	"go.uber.org/zap"

	"github.com/martijnberger/OpenSubdiv/internal/parallel"
	"github.com/martijnberger/OpenSubdiv/pkg/subdiv"
)

const defaultGrain = 64

// Options configures a Controller.
type Options struct {
	// Workers is the number of worker goroutines. 0 means GOMAXPROCS,
	// 1 disables the pool and runs batches inline.
	Workers int

	// Grain is the number of destination records per dispatched task.
	Grain int

	Logger *zap.Logger
}

// Controller executes kernel batches for one or more refinement levels.
type Controller struct {
	pool  *parallel.Pool
	grain int
	log   *zap.Logger
}

// NewController creates a controller. Close must be called to release the
// worker pool.
func NewController(opts Options) *Controller {
	grain := opts.Grain
	if grain <= 0 {
		grain = defaultGrain
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Controller{grain: grain, log: log}
	if opts.Workers != 1 {
		c.pool = parallel.New(opts.Workers)
	}
	return c
}

// Close shuts down the worker pool.
func (c *Controller) Close() {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

// Refine executes the batch sequence on buf. Batches sharing a level and a
// kernel phase are dispatched together and chunked across the pool; a
// barrier separates consecutive phases and levels so every kernel only ever
// reads finalized records. Results are identical to sequential execution.
func (c *Controller) Refine(t *subdiv.Tables, buf subdiv.Buffer, batches []subdiv.KernelBatch) error {
	if err := t.CheckBatches(buf, batches); err != nil {
		return err
	}

	if c.pool == nil {
		for _, b := range batches {
			b.Run(t, buf, b.Start, b.End)
		}
		return nil
	}

	for _, group := range phaseGroups(batches) {
		var tasks []func()
		for _, b := range group {
			tasks = append(tasks, c.chunk(t, buf, b)...)
		}
		c.log.Debug("dispatching kernel phase",
			zap.Int("level", group[0].Level),
			zap.Int("phase", group[0].Kind.Phase()),
			zap.Int("batches", len(group)),
			zap.Int("tasks", len(tasks)))
		c.pool.ExecuteAll(tasks)
	}
	return nil
}

// chunk splits a batch into grain-sized tasks over disjoint row ranges.
func (c *Controller) chunk(t *subdiv.Tables, buf subdiv.Buffer, b subdiv.KernelBatch) []func() {
	var tasks []func()
	for from := b.Start; from < b.End; from += c.grain {
		to := from + c.grain
		if to > b.End {
			to = b.End
		}
		from, to := from, to
		tasks = append(tasks, func() { b.Run(t, buf, from, to) })
	}
	return tasks
}

// phaseGroups splits the sequence into maximal runs of batches sharing a
// level and phase. The sequence is already validated, so this is a linear
// scan.
func phaseGroups(batches []subdiv.KernelBatch) [][]subdiv.KernelBatch {
	var groups [][]subdiv.KernelBatch
	for start := 0; start < len(batches); {
		end := start + 1
		for end < len(batches) &&
			batches[end].Level == batches[start].Level &&
			batches[end].Kind.Phase() == batches[start].Kind.Phase() {
			end++
		}
		groups = append(groups, batches[start:end])
		start = end
	}
	return groups
}
