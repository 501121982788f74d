// Package export writes frames of a recorded run as SVG images.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/galaxysim/internal/analysis"
	"github.com/san-kum/galaxysim/internal/series"
	"github.com/san-kum/galaxysim/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

var galaxyColors = [2]string{"#66ccff", "#ffaa33"}

// Plane selects the two coordinates an SVG projects onto.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

func ParsePlane(s string) (Plane, error) {
	switch p := Plane(s); p {
	case PlaneXY, PlaneXZ, PlaneYZ:
		return p, nil
	}
	return "", fmt.Errorf("unknown plane: %s (want xy, xz or yz)", s)
}

func (p Plane) coords(v r3.Vec) (float64, float64) {
	switch p {
	case PlaneXZ:
		return v.X, v.Z
	case PlaneYZ:
		return v.Y, v.Z
	default:
		return v.X, v.Y
	}
}

type bounds struct{ minX, maxX, minY, maxY float64 }

func newBounds() bounds {
	return bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

func (b *bounds) add(x, y float64) {
	b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
	b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
}

// square pads the box by 10% and makes it square so both axes share one
// scale.
func (b bounds) square() bounds {
	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		span = 1
	}
	span *= 1.2
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	return bounds{cx - span/2, cx + span/2, cy - span/2, cy + span/2}
}

func (b bounds) toPixel(x, y float64, size int) (float64, float64) {
	px := (x - b.minX) / (b.maxX - b.minX) * float64(size)
	py := float64(size) - (y-b.minY)/(b.maxY-b.minY)*float64(size)
	return px, py
}

func header(sb *strings.Builder, size int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))
}

// FrameToSVG draws frame t of ser as a scatter plot on plane, one color per
// galaxy.
func FrameToSVG(w io.Writer, ser *series.Series, t int, plane Plane, size int) error {
	pos, _, err := ser.Frame(t)
	if err != nil {
		return err
	}

	b := newBounds()
	for _, p := range pos {
		b.add(plane.coords(p))
	}
	b = b.square()

	half := len(pos) / 2
	dot := math.Max(float64(size)/400, 0.5)

	var sb strings.Builder
	header(&sb, size)
	for g, group := range [2][]r3.Vec{pos[:half], pos[half:]} {
		sb.WriteString(fmt.Sprintf("<g fill=\"%s\" fill-opacity=\"0.8\">\n", galaxyColors[g]))
		for _, p := range group {
			px, py := plane.coords(p)
			x, y := b.toPixel(px, py, size)
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", x, y, dot))
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString(fmt.Sprintf("<text x=\"8\" y=\"20\" fill=\"#888899\" font-family=\"monospace\" font-size=\"14\">frame %d/%d  %s plane  %s</text>\n",
		t+1, ser.Len(), plane, ser.Unit()))
	sb.WriteString("</svg>\n")

	_, err = io.WriteString(w, sb.String())
	return err
}

// CentroidTracksToSVG draws the path of each galaxy centroid across every
// recorded frame.
func CentroidTracksToSVG(w io.Writer, ser *series.Series, plane Plane, size int) error {
	if ser.Len() < 2 {
		return fmt.Errorf("need at least 2 frames, have %d", ser.Len())
	}

	tracks := [2][]r3.Vec{make([]r3.Vec, ser.Len()), make([]r3.Vec, ser.Len())}
	b := newBounds()
	for t := 0; t < ser.Len(); t++ {
		bottom, top, err := analysis.Centroids(ser, t)
		if err != nil {
			return err
		}
		tracks[0][t], tracks[1][t] = bottom, top
		b.add(plane.coords(bottom))
		b.add(plane.coords(top))
	}
	b = b.square()

	var sb strings.Builder
	header(&sb, size)
	for g, track := range tracks {
		sb.WriteString(fmt.Sprintf("<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", galaxyColors[g]))
		for i, p := range track {
			px, py := plane.coords(p)
			x, y := b.toPixel(px, py, size)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// CanvasToSVG converts a braille canvas to SVG, coloring dots by layer.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}

			fill := "#ffffff"
			switch canvas.Layers[row][col] {
			case 1:
				fill = galaxyColors[0]
			case 2:
				fill = galaxyColors[1]
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, dotRadius, fill))
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
