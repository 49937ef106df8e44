package threading

import (
	"raymaze/internal/config"
	"raymaze/internal/threading/core"
	"raymaze/internal/threading/monitoring"
	"raymaze/internal/threading/rendering"
)

// ThreadingComponents holds all threading-related components
type ThreadingComponents struct {
	WorkerPool         *core.WorkerPool // nil when threading is disabled
	ColumnCaster       *rendering.ColumnCaster
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewThreadingComponents creates the worker pool, column caster and monitor from cfg.
func NewThreadingComponents(cfg *config.Config) *ThreadingComponents {
	tc := &ThreadingComponents{
		PerformanceMonitor: monitoring.NewPerformanceMonitor(cfg.Threading.TargetFPS),
	}
	if cfg.Threading.Enabled {
		tc.WorkerPool = core.CreateDefaultWorkerPool(cfg.GetWorkers())
	}
	tc.ColumnCaster = rendering.NewColumnCaster(tc.Runner())
	return tc
}

// Runner returns the pool, or a serial runner when threading is disabled.
func (tc *ThreadingComponents) Runner() core.Runner {
	if tc.WorkerPool == nil {
		return core.Serial{}
	}
	return tc.WorkerPool
}

// Shutdown gracefully shuts down all threading components
func (tc *ThreadingComponents) Shutdown() {
	if tc.ColumnCaster != nil {
		tc.ColumnCaster.Stop()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// GetPerformanceMetrics returns current performance metrics
func (tc *ThreadingComponents) GetPerformanceMetrics() monitoring.FrameMetrics {
	return tc.PerformanceMonitor.GetCurrentMetrics()
}
