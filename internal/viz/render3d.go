package viz

import (
	"math"
	"sort"

	"github.com/siglab/linksim/internal/constellation"
	"github.com/siglab/linksim/internal/signal"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// vecFromPoint maps a signal point into render space, scaled so that
// coordinates of magnitude ref land at 0.5. Missing axes read as 0.
func vecFromPoint(p signal.Point, ref float64) Vec3 {
	s := 1.0
	if ref > 0 {
		s = 0.5 / ref
	}
	var v Vec3
	if p.Dim() > 0 {
		v.X = p[0] * s
	}
	if p.Dim() > 1 {
		v.Y = p[1] * s
	}
	if p.Dim() > 2 {
		v.Z = p[2] * s
	}
	return v
}

// Camera projects render space onto the canvas with user-adjustable
// rotation and zoom.
type Camera struct {
	Position   Vec3
	Near       float64
	RotX, RotY float64
	RotZ       float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Position: Vec3{0, 0, 5}, Near: 0.1, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts render-space coordinates to dot coordinates.
// Returns x, y, depth, and whether the point lands on the canvas.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	dist := c.Position.Z
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe         { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()            { w.Edges = w.Edges[:0] }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Width*2, c.Height*4
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// ConstellationWireframe builds the edge skeleton of a constellation:
// one segment per pair of points differing in a single axis. For the
// cube constellation this is the 12-edge cube outline.
func ConstellationWireframe(set *constellation.Set) *Wireframe {
	w := NewWireframe()
	pts := set.Points()
	for _, e := range set.Edges() {
		w.AddEdge(vecFromPoint(pts[e[0]], set.Amplitude()), vecFromPoint(pts[e[1]], set.Amplitude()))
	}
	return w
}

// AxesWireframe marks the positive coordinate half-axes.
func AxesWireframe(l float64) *Wireframe {
	w, o := NewWireframe(), Vec3{0, 0, 0}
	w.AddEdge(o, Vec3{l, 0, 0})
	w.AddEdge(o, Vec3{0, l, 0})
	w.AddEdge(o, Vec3{0, 0, l})
	return w
}
