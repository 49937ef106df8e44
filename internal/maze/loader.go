package maze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"raymaze/internal/logging"

	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyMaze is returned when the source holds no rows.
	ErrEmptyMaze = errors.New("maze contains no rows")
	// ErrNotRectangular is returned when rows differ in length and padding is off.
	ErrNotRectangular = errors.New("maze rows have inconsistent width")
)

// Options controls how a maze source is turned into a grid.
type Options struct {
	// PadRows pads short rows with spaces up to the widest row instead of rejecting them.
	PadRows bool
}

// Load reads a maze from a text file.
func Load(path string, opts Options) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open maze file %s: %w", path, err)
	}
	defer file.Close()

	grid, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("maze file %s: %w", path, err)
	}

	rows, cols := grid.Size()
	logging.For("maze").WithFields(logrus.Fields{
		"path": path,
		"rows": rows,
		"cols": cols,
	}).Info("maze loaded")
	return grid, nil
}

// Parse reads one grid row per line from r.
func Parse(r io.Reader, opts Options) (*Grid, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading maze: %w", err)
	}

	// Trailing blank lines are editor noise, not rows.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, ErrEmptyMaze
	}

	width := 0
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line))
	}
	if width == 0 {
		return nil, ErrEmptyMaze
	}

	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		if n == width {
			continue
		}
		if !opts.PadRows {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrNotRectangular, i+1, n, width)
		}
		lines[i] = line + strings.Repeat(" ", width-n)
	}

	return NewGrid(lines), nil
}
