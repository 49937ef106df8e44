package framebuffer

import "raymaze/internal/mathutil"

// Line draws from (x0, y0) to (x1, y1) inclusive with Bresenham's algorithm.
func (f *Framebuffer) Line(x0, y0, x1, y1 int) {
	dx := mathutil.IntAbs(x1 - x0)
	dy := -mathutil.IntAbs(y1 - y0)
	sx := mathutil.IntSign(x1 - x0)
	sy := mathutil.IntSign(y1 - y0)
	err := dx + dy

	for {
		f.Point(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
