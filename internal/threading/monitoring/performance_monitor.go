package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// smoothing is the weight of the newest sample in the running averages.
	smoothing = 0.1
	// alertInterval rate-limits LogAlerts.
	alertInterval = time.Second
	// memoryAlertMB is the heap size above which a high_memory alert fires.
	memoryAlertMB = 500
)

// PerformanceMonitor tracks frame and raycast timing plus per-frame column counts.
// Counters are atomics so render workers can record without locking.
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds, last frame

	// Raycast metrics
	raycastTime    atomic.Uint64 // nanoseconds, last frame
	columnsCast    atomic.Uint64 // last frame
	wallHits       atomic.Uint64 // last frame
	skippedColumns atomic.Uint64 // last frame

	// Statistics
	mutex          sync.RWMutex
	avgFrameTime   float64
	avgRaycastTime float64
	startTime      time.Time
	lastAlert      time.Time

	// Configuration
	targetFPS      float64
	enableDetailed atomic.Bool
}

// NewPerformanceMonitor creates a monitor that alerts when the frame rate falls
// below targetFPS. targetFPS <= 0 disables the low_fps alert.
func NewPerformanceMonitor(targetFPS float64) *PerformanceMonitor {
	pm := &PerformanceMonitor{
		startTime: time.Now(),
		targetFPS: targetFPS,
	}
	pm.enableDetailed.Store(true)
	return pm
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.recordFrame(time.Since(ft.startTime))
}

func (pm *PerformanceMonitor) recordFrame(d time.Duration) {
	pm.frameTime.Store(uint64(d.Nanoseconds()))
	pm.frameCount.Add(1)

	if pm.enableDetailed.Load() {
		pm.mutex.Lock()
		pm.avgFrameTime = ewma(pm.avgFrameTime, float64(d.Nanoseconds()))
		pm.mutex.Unlock()
	}
}

// RaycastTimer helps measure raycasting performance
type RaycastTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartRaycast begins raycast timing
func (pm *PerformanceMonitor) StartRaycast() *RaycastTimer {
	return &RaycastTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndRaycast completes raycast timing and stores the column counts of the frame.
func (rt *RaycastTimer) EndRaycast(columns, hits, skipped int) {
	raycastTime := time.Since(rt.startTime)
	pm := rt.monitor
	pm.raycastTime.Store(uint64(raycastTime.Nanoseconds()))
	pm.columnsCast.Store(uint64(columns))
	pm.wallHits.Store(uint64(hits))
	pm.skippedColumns.Store(uint64(skipped))

	if pm.enableDetailed.Load() {
		pm.mutex.Lock()
		pm.avgRaycastTime = ewma(pm.avgRaycastTime, float64(raycastTime.Nanoseconds()))
		pm.mutex.Unlock()
	}
}

func ewma(avg, sample float64) float64 {
	if avg == 0 {
		return sample
	}
	return avg + smoothing*(sample-avg)
}

// FrameMetrics is a snapshot of the most recent frame.
type FrameMetrics struct {
	FramesPerSecond float64
	FrameTime       time.Duration
	RaycastTime     time.Duration
	ColumnsCast     uint64
	WallHits        uint64
	SkippedColumns  uint64
	FrameCount      uint64
	MemoryUsageMB   uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return FrameMetrics{
		FramesPerSecond: fps,
		FrameTime:       time.Duration(frameTime),
		RaycastTime:     time.Duration(pm.raycastTime.Load()),
		ColumnsCast:     pm.columnsCast.Load(),
		WallHits:        pm.wallHits.Load(),
		SkippedColumns:  pm.skippedColumns.Load(),
		FrameCount:      pm.frameCount.Load(),
		MemoryUsageMB:   memStats.Alloc / 1024 / 1024,
	}
}

// GetDetailedStats returns the running averages and runtime figures as log fields.
func (pm *PerformanceMonitor) GetDetailedStats() logrus.Fields {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return logrus.Fields{
		"uptime_seconds":      time.Since(pm.startTime).Seconds(),
		"frame_count":         pm.frameCount.Load(),
		"avg_frame_time_ms":   pm.avgFrameTime / 1e6,
		"avg_raycast_time_ms": pm.avgRaycastTime / 1e6,
		"columns_cast":        pm.columnsCast.Load(),
		"wall_hits":           pm.wallHits.Load(),
		"skipped_columns":     pm.skippedColumns.Load(),
		"memory_alloc_mb":     memStats.Alloc / 1024 / 1024,
		"gc_cycles":           memStats.NumGC,
		"goroutines":          runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	var alerts []PerformanceAlert
	now := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 && pm.targetFPS > 0 {
		fps := float64(time.Second) / float64(frameTime)
		if fps < pm.targetFPS {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below target",
				Value:     fps,
				Threshold: pm.targetFPS,
				Timestamp: now,
			})
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	if memoryMB := float64(memStats.Alloc) / 1024 / 1024; memoryMB > memoryAlertMB {
		alerts = append(alerts, PerformanceAlert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: memoryAlertMB,
			Timestamp: now,
		})
	}

	return alerts
}

// LogAlerts writes current alerts at warn level, at most once per second.
// It returns the number of alerts logged.
func (pm *PerformanceMonitor) LogAlerts(logger logrus.FieldLogger) int {
	pm.mutex.Lock()
	if time.Since(pm.lastAlert) < alertInterval {
		pm.mutex.Unlock()
		return 0
	}
	pm.lastAlert = time.Now()
	pm.mutex.Unlock()

	alerts := pm.CheckPerformanceAlerts()
	for _, a := range alerts {
		logger.WithFields(logrus.Fields{
			"alert":     a.Type,
			"value":     a.Value,
			"threshold": a.Threshold,
		}).Warn(a.Message)
	}
	return len(alerts)
}

// EnableDetailedLogging enables/disables the running averages
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.enableDetailed.Store(enabled)
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.raycastTime.Store(0)
	pm.columnsCast.Store(0)
	pm.wallHits.Store(0)
	pm.skippedColumns.Store(0)

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.avgRaycastTime = 0
	pm.startTime = time.Now()
	pm.lastAlert = time.Time{}
	pm.mutex.Unlock()
}
