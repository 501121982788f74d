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
const blank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel grid. Each cell also remembers which layers
// (galaxies) lit it so the two populations can be colored apart.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Layers        [][]uint8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Layers: make([][]uint8, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Layers[i] = make([]uint8, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the sub-pixel (x, y) on layer 0.
func (c *Canvas) Set(x, y int) { c.Plot(x, y, 0) }

// Plot lights the sub-pixel (x, y) and tags its cell with layer.
func (c *Canvas) Plot(x, y, layer int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Layers[row][col] |= 1 << uint(layer)
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Layers[i][j] = 0
		}
	}
}

// Lit counts the sub-pixels currently set.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := int(r - blank); bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors each cell by the layers that lit it. Cells lit by more
// than one layer use mixed.
func (c *Canvas) Render(layers []lipgloss.Style, mixed lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			mask := c.Layers[i][j]
			switch {
			case mask == 0:
				b.WriteRune(r)
			case mask&(mask-1) != 0:
				b.WriteString(mixed.Render(string(r)))
			default:
				b.WriteString(layerStyle(layers, mask).Render(string(r)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func layerStyle(layers []lipgloss.Style, mask uint8) lipgloss.Style {
	for i := range layers {
		if mask == 1<<uint(i) {
			return layers[i]
		}
	}
	return lipgloss.NewStyle()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
