package render

// Palette maps maze characters to packed 0xRRGGBB wall colours.
type Palette struct {
	Default uint32
	Colors  map[rune]uint32
}

// NewPalette copies colors so later edits to the source map do not race renderers.
func NewPalette(def uint32, colors map[rune]uint32) Palette {
	p := Palette{Default: def, Colors: make(map[rune]uint32, len(colors))}
	for r, c := range colors {
		p.Colors[r] = c
	}
	return p
}

// Color returns the colour for a cell character, or Default.
func (p Palette) Color(cell rune) uint32 {
	if c, ok := p.Colors[cell]; ok {
		return c
	}
	return p.Default
}
