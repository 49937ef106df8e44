package snapshot

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"raymaze/internal/config"
	"raymaze/internal/maze"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Player.StartX = 250
	cfg.Player.StartY = 250
	cfg.Player.StartHeading = 0
	return cfg
}

func testGrid() *maze.Grid {
	return maze.NewGrid([]string{
		"#####",
		"#   #",
		"#   #",
		"#   #",
		"#####",
	})
}

func TestSweep_WritesFrames(t *testing.T) {
	dir := t.TempDir()

	paths, err := Sweep(context.Background(), testConfig(), testGrid(), Options{
		Dir:    dir,
		Frames: 4,
		Width:  64,
		Height: 48,
		Map:    true,
	})
	require.NoError(t, err)
	require.Len(t, paths, 5)
	assert.Equal(t, filepath.Join(dir, "frame_000.png"), paths[0])
	assert.Equal(t, filepath.Join(dir, "frame_003.png"), paths[3])
	assert.Equal(t, filepath.Join(dir, "map.png"), paths[4])

	for _, path := range paths {
		f, err := os.Open(path)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err, path)
		assert.Equal(t, 64, img.Bounds().Dx())
		assert.Equal(t, 48, img.Bounds().Dy())
	}
}

func TestSweep_FrameShowsWallAtHorizon(t *testing.T) {
	dir := t.TempDir()

	paths, err := Sweep(context.Background(), testConfig(), testGrid(), Options{
		Dir: dir, Frames: 1, Width: 32, Height: 32,
	})
	require.NoError(t, err)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	// Enclosed room: every column hits a wall, so the horizon row is wall colour.
	r, g, b, _ := img.At(16, 16).RGBA()
	assert.Equal(t, [3]uint32{0xFF, 0xDD, 0xDD}, [3]uint32{r >> 8, g >> 8, b >> 8})

	// The top row stays background.
	r, g, b, _ = img.At(16, 0).RGBA()
	assert.Equal(t, [3]uint32{0x33, 0x33, 0x55}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestSweep_Errors(t *testing.T) {
	_, err := Sweep(context.Background(), testConfig(), testGrid(), Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoFrames)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Sweep(ctx, testConfig(), testGrid(), Options{Dir: t.TempDir(), Frames: 3, Width: 8, Height: 8})
	assert.ErrorIs(t, err, context.Canceled)
}
