package rendering

import (
	"raymaze/internal/caster"
	"raymaze/internal/mathutil"
	"raymaze/internal/player"
	"raymaze/internal/projection"
	"raymaze/internal/threading/core"
)

const (
	inlineColumns = 8
	minBatchSize  = 4
	maxBatchSize  = 32
)

// ColumnCaster projects every screen column of a frame, spreading batches of
// columns over a runner.
type ColumnCaster struct {
	runner  core.Runner
	columns []projection.Column
}

// NewColumnCaster creates a column caster backed by runner. A nil runner projects
// on the calling goroutine.
func NewColumnCaster(runner core.Runner) *ColumnCaster {
	if runner == nil {
		runner = core.Serial{}
	}
	return &ColumnCaster{runner: runner}
}

// Project casts one ray per column and returns the columns indexed by screen x.
// The returned slice is reused by the next call.
func (cc *ColumnCaster) Project(c *caster.Caster, pose player.Pose, params projection.Params) []projection.Column {
	numColumns := mathutil.IntMax(0, params.ScreenWidth)
	if cap(cc.columns) < numColumns {
		cc.columns = make([]projection.Column, numColumns)
	}
	results := cc.columns[:numColumns]

	project := func(lo, hi int) {
		for x := lo; x < hi; x++ {
			results[x] = projection.ProjectColumn(c, pose, params, x)
		}
	}

	workers := cc.runner.Workers()
	if workers <= 1 || numColumns <= inlineColumns {
		project(0, numColumns)
		return results
	}

	batchSize := mathutil.ClampInt(numColumns/workers, minBatchSize, maxBatchSize)
	cc.runner.ParallelRange(numColumns, batchSize, project)
	return results
}

// Stop shuts down the runner when it is a worker pool.
func (cc *ColumnCaster) Stop() {
	if pool, ok := cc.runner.(*core.WorkerPool); ok {
		pool.Stop()
	}
}
