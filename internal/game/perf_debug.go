package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	perfLowFpsDuration = 3 * time.Second
	perfLogInterval    = 3 * time.Second
)

// perfWatch reports when FPS stays under a threshold for perfLowFpsDuration,
// at most once per perfLogInterval.
type perfWatch struct {
	threshold  float64
	lowSince   time.Time
	lastReport time.Time
}

func (w *perfWatch) observe(now time.Time, fps float64) bool {
	if fps >= w.threshold {
		w.lowSince = time.Time{}
		w.lastReport = time.Time{}
		return false
	}
	if w.lowSince.IsZero() {
		w.lowSince = now
		return false
	}
	if now.Sub(w.lowSince) < perfLowFpsDuration {
		return false
	}
	if !w.lastReport.IsZero() && now.Sub(w.lastReport) < perfLogInterval {
		return false
	}
	w.lastReport = now
	return true
}

func (gl *GameLoop) maybeLogPerfDrop() {
	if !gl.game.config.Logging.PerfDebug {
		return
	}
	fps := ebiten.ActualFPS()
	if gl.perf.observe(time.Now(), fps) {
		gl.logPerfSnapshot(fps)
	}
}

func (gl *GameLoop) logPerfSnapshot(fps float64) {
	fields := gl.game.threading.PerformanceMonitor.GetDetailedStats()
	fields["fps"] = fps
	fields["tps"] = ebiten.ActualTPS()
	fields["update_ms"] = durationMs(gl.lastUpdateDuration)
	fields["draw_ms"] = durationMs(gl.lastDrawDuration)
	fields["budget_ms"] = frameBudgetMs(fps)
	fields["idle_ms"] = idleBudgetMs(fps, gl.lastUpdateDuration, gl.lastDrawDuration)
	fields["view"] = gl.game.mode.String()
	fields["minimap"] = gl.game.showMinimap
	fields["workers"] = workerCount(gl.game.threading)
	fields["vsync"] = ebiten.IsVsyncEnabled()

	gl.game.log.WithFields(fields).Warn("sustained low frame rate")
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func frameBudgetMs(fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return 1000.0 / fps
}

func idleBudgetMs(fps float64, updateDur, drawDur time.Duration) float64 {
	idle := frameBudgetMs(fps) - durationMs(updateDur) - durationMs(drawDur)
	if idle < 0 {
		return 0
	}
	return idle
}
