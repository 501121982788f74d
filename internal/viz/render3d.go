package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera projects world coordinates onto the canvas. Points are first
// centred and normalised by Fit so any length unit renders the same.
type Camera struct {
	Center           r3.Vec
	Scale            float64
	Distance, Near   float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

// NewCamera looks at the scene tilted so both discs and their vertical
// separation are visible.
func NewCamera() *Camera {
	return &Camera{Scale: 1, Distance: 4, Near: 0.1, RotX: -math.Pi / 3, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(20, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.05, c.Zoom/1.2) }

// Fit centres the camera on the centroid of every given frame and scales
// the farthest point to unit distance.
func (c *Camera) Fit(frames ...[]r3.Vec) {
	var sum r3.Vec
	n := 0
	for _, pos := range frames {
		for _, p := range pos {
			sum = r3.Add(sum, p)
			n++
		}
	}
	if n == 0 {
		return
	}
	c.Center = r3.Scale(1/float64(n), sum)

	extent := 0.0
	for _, pos := range frames {
		for _, p := range pos {
			extent = math.Max(extent, r3.Norm(r3.Sub(p, c.Center)))
		}
	}
	if extent > 0 {
		c.Scale = 1 / extent
	}
}

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts world coordinates to sub-pixel coordinates on a
// sw×sh surface. Returns x, y, depth, and visibility.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(r3.Scale(c.Scale*c.Zoom, r3.Sub(p, c.Center)))
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 2.5
	sx := int(math.Round(rot.X*persp*pScale)) + sw/2
	sy := int(math.Round(-rot.Y*persp*pScale)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// RenderBodies plots every position on the canvas. Bodies before half go
// to layer 0, the rest to layer 1.
func RenderBodies(c *Canvas, pos []r3.Vec, half int, cam *Camera) int {
	if c == nil || cam == nil {
		return 0
	}
	sw, sh := c.PixelSize()
	visible := 0
	for i, p := range pos {
		x, y, _, ok := cam.Project(p, sw, sh)
		if !ok {
			continue
		}
		layer := 0
		if i >= half {
			layer = 1
		}
		c.Plot(x, y, layer)
		visible++
	}
	return visible
}
