package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gasmix/internal/gas"
)

// viewSpan is the normalized width, in extents, visible across the
// shorter screen axis.
const viewSpan = 4.2

// Camera manages 3D projection to a 2D plane. Extent is the world-space
// half width that fits the viewport at zoom 1.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Extent           float64
}

func NewCamera(extent float64) *Camera {
	if !(extent > 0) {
		extent = 1
	}
	return &Camera{Distance: 6, Near: 0.1, Zoom: 1.0, Extent: extent, RotX: 0.35, RotY: -0.5}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DZ(c.RotZ).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DX(c.RotX))
}

// RotatePoint applies the camera's X, then Y, then Z rotation.
func (c *Camera) RotatePoint(p mgl64.Vec3) mgl64.Vec3 {
	return c.rotation().Mul3x1(p)
}

// Project converts world coordinates to sub-pixel screen coordinates on a
// sw x sh surface. Returns x, y, depth, and visibility.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	return c.project(c.rotation(), p, sw, sh)
}

func (c *Camera) project(rot mgl64.Mat3, p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	r := rot.Mul3x1(p).Mul(c.Zoom / c.Extent)
	if r.Z() >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - r.Z())
	pScale := float64(min(sw, sh)) / viewSpan
	sx := int(math.Round(r.X()*persp*pScale)) + sw/2
	sy := int(math.Round(-r.Y()*persp*pScale)) + sh/2
	return sx, sy, r.Z(), sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// PixelScale is the number of sub-pixels per world unit at the screen centre.
func (c *Camera) PixelScale(sw, sh int) float64 {
	return c.Zoom / c.Extent * float64(min(sw, sh)) / viewSpan
}

type Edge struct {
	Start, End mgl64.Vec3
	Layer      Layer
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e mgl64.Vec3, l Layer) { w.Edges = append(w.Edges, Edge{s, e, l}) }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
	layer          Layer
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Width*2, c.Height*4
	rot := cam.rotation()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.project(rot, e.Start, cw, ch)
		x2, y2, d2, v2 := cam.project(rot, e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Layer})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2, e.layer)
	}
}

// BoxWireframe outlines the cube [-h, h]^3.
func BoxWireframe(h float64) *Wireframe {
	w := NewWireframe()
	v := []mgl64.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]], LayerFrame)
	}
	return w
}

// AddPartition outlines the X = 0 plane with its diagonals.
func (w *Wireframe) AddPartition(h float64) {
	v := []mgl64.Vec3{{0, -h, -h}, {0, h, -h}, {0, h, h}, {0, -h, h}}
	for i := range v {
		w.AddEdge(v[i], v[(i+1)%len(v)], LayerPartition)
	}
	w.AddEdge(v[0], v[2], LayerPartition)
	w.AddEdge(v[1], v[3], LayerPartition)
}

// DrawParticles projects every particle as a dot sized by its radius.
func DrawParticles(c *Canvas, ps []gas.Particle, cam *Camera) {
	if c == nil || cam == nil {
		return
	}
	cw, ch := c.Width*2, c.Height*4
	rot := cam.rotation()
	scale := cam.PixelScale(cw, ch)
	for _, p := range ps {
		x, y, _, ok := cam.project(rot, p.Position, cw, ch)
		if !ok {
			continue
		}
		layer := LayerGasA
		if p.Population == gas.PopulationB {
			layer = LayerGasB
		}
		c.DrawDot(x, y, int(p.Radius*scale), layer)
	}
}
