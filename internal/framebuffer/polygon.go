package framebuffer

import (
	"math"
	"slices"

	"raymaze/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// Polygon draws the closed outline through points.
func (f *Framebuffer) Polygon(points []mgl64.Vec2) {
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		f.Line(round(a[0]), round(a[1]), round(b[0]), round(b[1]))
	}
}

// FilledPolygon fills points with an even-odd scanline fill sampled at pixel centres.
func (f *Framebuffer) FilledPolygon(points []mgl64.Vec2) {
	if len(points) < 3 {
		f.Polygon(points)
		return
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}
	if math.IsNaN(minY) || math.IsNaN(maxY) {
		return
	}
	y0 := mathutil.IntMax(0, int(math.Floor(minY)))
	y1 := mathutil.IntMin(f.height-1, int(math.Floor(maxY)))

	crossings := make([]float64, 0, len(points))
	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		crossings = crossings[:0]
		for i := range points {
			a := points[i]
			b := points[(i+1)%len(points)]
			if (a[1] <= sy && b[1] > sy) || (b[1] <= sy && a[1] > sy) {
				crossings = append(crossings, a[0]+(sy-a[1])*(b[0]-a[0])/(b[1]-a[1]))
			}
		}
		slices.Sort(crossings)

		for i := 0; i+1 < len(crossings); i += 2 {
			xa := mathutil.IntMax(0, int(math.Ceil(crossings[i]-0.5)))
			xb := mathutil.IntMin(f.width-1, int(math.Floor(crossings[i+1]-0.5)))
			for x := xa; x <= xb; x++ {
				f.buffer[y*f.width+x] = f.current
			}
		}
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
