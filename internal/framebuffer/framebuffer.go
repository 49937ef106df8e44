package framebuffer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"raymaze/internal/logging"
	"raymaze/internal/mathutil"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Framebuffer is a packed 0xRRGGBB pixel buffer with a current drawing colour.
//
// Point and the other primitives that use the current colour must not be called
// concurrently. Renderers filling distinct columns in parallel use Span.
type Framebuffer struct {
	width  int
	height int
	buffer []uint32

	background uint32
	current    uint32
	image      []uint32 // Background image resized to the buffer, nil when unset
}

// New allocates a width x height framebuffer, black background and white pen.
func New(width, height int) *Framebuffer {
	width = mathutil.IntMax(0, width)
	height = mathutil.IntMax(0, height)
	return &Framebuffer{
		width:   width,
		height:  height,
		buffer:  make([]uint32, width*height),
		current: 0xFFFFFF,
	}
}

func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }

// Buffer exposes the packed pixels, row-major.
func (f *Framebuffer) Buffer() []uint32 { return f.buffer }

func (f *Framebuffer) SetBackgroundColor(color uint32) {
	f.background = color & 0xFFFFFF
}

func (f *Framebuffer) SetCurrentColor(color uint32) {
	f.current = color & 0xFFFFFF
}

func (f *Framebuffer) CurrentColor() uint32 {
	return f.current
}

// Clear fills the buffer with the background image, or the background colour when no
// image is loaded.
func (f *Framebuffer) Clear() {
	if f.image != nil {
		copy(f.buffer, f.image)
		return
	}
	for i := range f.buffer {
		f.buffer[i] = f.background
	}
}

// Pixel returns the colour at (x, y).
func (f *Framebuffer) Pixel(x, y int) (uint32, bool) {
	if !f.inside(x, y) {
		return 0, false
	}
	return f.buffer[y*f.width+x], true
}

// Point sets (x, y) to the current colour. Out-of-range coordinates are ignored.
func (f *Framebuffer) Point(x, y int) {
	if f.inside(x, y) {
		f.buffer[y*f.width+x] = f.current
	}
}

// VerticalSpan draws column x from start to end (exclusive) in the current colour.
func (f *Framebuffer) VerticalSpan(x, start, end int) {
	f.Span(x, start, end, f.current)
}

// Span draws column x from start to end (exclusive) in color. The range is clipped.
// Calls for different columns may run concurrently.
func (f *Framebuffer) Span(x, start, end int, color uint32) {
	if x < 0 || x >= f.width {
		return
	}
	start = mathutil.ClampInt(start, 0, f.height)
	end = mathutil.ClampInt(end, 0, f.height)
	for y := start; y < end; y++ {
		f.buffer[y*f.width+x] = color
	}
}

// FillRect fills the w x h rectangle with top-left corner (x, y).
func (f *Framebuffer) FillRect(x, y, w, h int) {
	x0 := mathutil.ClampInt(x, 0, f.width)
	x1 := mathutil.ClampInt(x+w, 0, f.width)
	y0 := mathutil.ClampInt(y, 0, f.height)
	y1 := mathutil.ClampInt(y+h, 0, f.height)
	for row := y0; row < y1; row++ {
		line := f.buffer[row*f.width : (row+1)*f.width]
		for col := x0; col < x1; col++ {
			line[col] = f.current
		}
	}
}

// SetBackgroundImage loads an image and scales it to the buffer size with
// nearest-neighbour sampling. On failure the previous background stays in effect
// and a warning is logged.
func (f *Framebuffer) SetBackgroundImage(path string) error {
	img, err := loadImage(path)
	if err != nil {
		logging.For("framebuffer").WithError(err).Warn("background image not loaded")
		return err
	}

	dst := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	packed := make([]uint32, f.width*f.height)
	for i := range packed {
		p := dst.Pix[i*4 : i*4+3]
		packed[i] = uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
	}
	f.image = packed
	return nil
}

// ClearBackgroundImage reverts Clear to the background colour.
func (f *Framebuffer) ClearBackgroundImage() {
	f.image = nil
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open background image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode background image %s: %w", path, err)
	}
	return img, nil
}

// RGBA copies the buffer into an opaque image.
func (f *Framebuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	f.WritePixels(img.Pix)
	return img
}

// WritePixels writes the buffer as RGBA bytes into dst, which must hold
// 4*width*height bytes.
func (f *Framebuffer) WritePixels(dst []byte) {
	n := mathutil.IntMin(len(f.buffer), len(dst)/4)
	for i := 0; i < n; i++ {
		c := f.buffer[i]
		dst[i*4] = byte(c >> 16)
		dst[i*4+1] = byte(c >> 8)
		dst[i*4+2] = byte(c)
		dst[i*4+3] = 0xFF
	}
}

func (f *Framebuffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.width && y < f.height
}
