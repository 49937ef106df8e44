package render

import (
	"raymaze/internal/caster"
	"raymaze/internal/framebuffer"
	"raymaze/internal/player"
	"raymaze/internal/projection"
	"raymaze/internal/threading/monitoring"
	"raymaze/internal/threading/rendering"
)

// Stats summarises one 3D frame.
type Stats struct {
	Columns int
	Hits    int // Columns whose ray hit a wall
	Skipped int // Hits with a degenerate distance, left at background
}

// View3D renders first-person frames.
type View3D struct {
	Caster  *caster.Caster
	Params  projection.Params
	Palette Palette
	Columns *rendering.ColumnCaster        // nil projects serially
	Monitor *monitoring.PerformanceMonitor // optional
}

// Render clears fb and draws one wall span per column. The projection screen size
// always follows the framebuffer.
func (v *View3D) Render(fb *framebuffer.Framebuffer, pose player.Pose) Stats {
	fb.Clear()

	params := v.Params
	params.ScreenWidth = fb.Width()
	params.ScreenHeight = fb.Height()

	columns := v.Columns
	if columns == nil {
		columns = rendering.NewColumnCaster(nil)
		v.Columns = columns
	}

	var timer *monitoring.RaycastTimer
	if v.Monitor != nil {
		timer = v.Monitor.StartRaycast()
	}

	stats := Stats{}
	for _, col := range columns.Project(v.Caster, pose, params) {
		stats.Columns++
		if !col.HasHit {
			continue
		}
		stats.Hits++
		if !col.Visible {
			stats.Skipped++
			continue
		}
		fb.Span(col.Index, col.Start, col.End, v.Palette.Color(col.Cell))
	}

	if timer != nil {
		timer.EndRaycast(stats.Columns, stats.Hits, stats.Skipped)
	}
	return stats
}

// Render3D draws a first-person frame on the calling goroutine.
func Render3D(fb *framebuffer.Framebuffer, c *caster.Caster, pose player.Pose, params projection.Params, palette Palette) Stats {
	v := View3D{Caster: c, Params: params, Palette: palette}
	return v.Render(fb, pose)
}
