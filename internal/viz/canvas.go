package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Layer tags what was drawn into a cell so it can be colored.
type Layer uint8

const (
	LayerFrame Layer = 1 << iota
	LayerPartition
	LayerGasA
	LayerGasB
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Layers        [][]Layer
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Layers: make([][]Layer, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Layers[i] = make([]Layer, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, rune(pixelMap[y%4][x%2]), true
}

// Set sets a pixel at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) { c.SetLayer(x, y, LayerFrame) }

// SetLayer sets a pixel and tags its cell with layer.
func (c *Canvas) SetLayer(x, y int, layer Layer) {
	row, col, bit, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= bit
	c.Layers[row][col] |= layer
}

// Unset clears a pixel. The cell keeps its layer tags until it is empty.
func (c *Canvas) Unset(x, y int) {
	row, col, bit, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= bit
	if c.Grid[row][col] == brailleBase {
		c.Layers[row][col] = 0
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Layers[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, layer Layer) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetLayer(x0, y0, layer)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDot draws a plus-shaped dot of the given sub-pixel radius.
func (c *Canvas) DrawDot(x, y, r int, layer Layer) {
	c.SetLayer(x, y, layer)
	for i := 1; i <= r; i++ {
		c.SetLayer(x+i, y, layer)
		c.SetLayer(x-i, y, layer)
		c.SetLayer(x, y+i, layer)
		c.SetLayer(x, y-i, layer)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Palette maps cell layers to the colors used when rendering.
type Palette struct {
	Frame, Partition, GasA, GasB, Mixed lipgloss.Style
}

// PaletteFor builds a render palette from a theme.
func PaletteFor(t Theme) Palette {
	return Palette{
		Frame:     lipgloss.NewStyle().Foreground(t.Muted),
		Partition: lipgloss.NewStyle().Foreground(t.Accent),
		GasA:      lipgloss.NewStyle().Foreground(t.GasA),
		GasB:      lipgloss.NewStyle().Foreground(t.GasB),
		Mixed:     lipgloss.NewStyle().Foreground(t.Text),
	}
}

func (p Palette) style(l Layer) (lipgloss.Style, bool) {
	switch {
	case l&LayerGasA != 0 && l&LayerGasB != 0:
		return p.Mixed, true
	case l&LayerGasA != 0:
		return p.GasA, true
	case l&LayerGasB != 0:
		return p.GasB, true
	case l&LayerPartition != 0:
		return p.Partition, true
	case l&LayerFrame != 0:
		return p.Frame, true
	}
	return lipgloss.Style{}, false
}

// Render draws the canvas with each cell colored by its topmost layer.
// Runs of equally-colored cells are styled together.
func (c *Canvas) Render(p Palette) string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		var runLayer Layer
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := p.style(runLayer); ok {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for j, r := range row {
			l := effective(c.Layers[i][j])
			if l != runLayer {
				flush()
				runLayer = l
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

// effective reduces a cell's tags to the one that decides its color.
func effective(l Layer) Layer {
	switch {
	case l&(LayerGasA|LayerGasB) != 0:
		return l & (LayerGasA | LayerGasB)
	case l&LayerPartition != 0:
		return LayerPartition
	}
	return l
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
