// Package plot renders run artifacts as PNG files: the noise
// histogram against its theoretical density, the received cloud, the
// decision-region slice, and the error-rate sweep curve.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/siglab/linksim/internal/analysis"
	"github.com/siglab/linksim/internal/constellation"
	"github.com/siglab/linksim/internal/detect"
	"github.com/siglab/linksim/internal/link"
	"github.com/siglab/linksim/internal/signal"
)

const histogramBins = 50

var (
	cloudColor  = color.RGBA{R: 31, G: 119, B: 180, A: 96}
	markerColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	theoryColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// NoiseHistogram renders a density-normalized histogram of every noise
// coordinate with the N(0, sigma) curve overlaid.
func NoiseHistogram(path string, noise []signal.Point, sigma float64) error {
	flat := analysis.Flatten(noise)
	if len(flat) == 0 {
		return fmt.Errorf("%w: no noise samples to plot", signal.ErrInvalidParameter)
	}

	p := plot.New()
	p.Title.Text = "Noise distribution"
	p.X.Label.Text = "noise value"
	p.Y.Label.Text = "density"

	h, err := plotter.NewHist(plotter.Values(flat), histogramBins)
	if err != nil {
		return err
	}
	h.Normalize(1)
	h.FillColor = color.RGBA{R: 31, G: 119, B: 180, A: 160}
	p.Add(h)

	if sigma > 0 {
		pdf := plotter.NewFunction(func(x float64) float64 {
			return analysis.NormalPDF(x, sigma)
		})
		pdf.Samples = 200
		pdf.Color = theoryColor
		pdf.Width = vg.Points(1.5)
		p.Add(pdf)
		p.Legend.Add(fmt.Sprintf("N(0, %.3g)", sigma), pdf)
		p.Legend.Top = true
	}

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// RxScatter renders the received cloud projected on the first two
// axes, with the constellation marked on top.
func RxScatter(path string, result *link.Result) error {
	if result == nil || len(result.RxPoints) == 0 {
		return fmt.Errorf("%w: no received points to plot", signal.ErrInvalidParameter)
	}

	p := plot.New()
	p.Title.Text = "Received cloud (x-y)"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	cloud := make(plotter.XYs, 0, len(result.RxPoints))
	for _, pt := range result.RxPoints {
		if pt.Dim() < 2 {
			continue
		}
		cloud = append(cloud, plotter.XY{X: pt[0], Y: pt[1]})
	}
	rxs, err := plotter.NewScatter(cloud)
	if err != nil {
		return err
	}
	rxs.GlyphStyle.Color = cloudColor
	rxs.GlyphStyle.Radius = vg.Points(1.2)
	rxs.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(rxs)
	p.Legend.Add("received", rxs)

	corners := make(plotter.XYs, 0, len(result.Constellation))
	for _, pt := range result.Constellation {
		if pt.Dim() < 2 {
			continue
		}
		corners = append(corners, plotter.XY{X: pt[0], Y: pt[1]})
	}
	cs, err := plotter.NewScatter(corners)
	if err != nil {
		return err
	}
	cs.GlyphStyle.Color = markerColor
	cs.GlyphStyle.Radius = vg.Points(4)
	cs.GlyphStyle.Shape = draw.CrossGlyph{}
	p.Add(cs)
	p.Legend.Add("constellation", cs)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// regionGrid adapts a RegionMap to the heat-map grid interface.
type regionGrid struct {
	m *detect.RegionMap
}

func (g regionGrid) Dims() (c, r int)   { return len(g.m.Xs), len(g.m.Ys) }
func (g regionGrid) Z(c, r int) float64 { return float64(g.m.Index[r][c]) }
func (g regionGrid) X(c int) float64    { return g.m.Xs[c] }
func (g regionGrid) Y(r int) float64    { return g.m.Ys[r] }

// octantPalette colors symbol indices categorically: one color per
// constellation point.
type octantPalette []color.Color

func (p octantPalette) Colors() []color.Color { return p }

// RegionHeatMap renders the decision-region slice with one color per
// winning symbol and the constellation projected onto the swept axes.
func RegionHeatMap(path string, m *detect.RegionMap, set *constellation.Set) error {
	if m == nil || len(m.Index) == 0 {
		return fmt.Errorf("%w: no region map to plot", signal.ErrInvalidParameter)
	}

	p := plot.New()
	p.Title.Text = "Decision regions"
	p.X.Label.Text = axisName(m.Spec.AxisX)
	p.Y.Label.Text = axisName(m.Spec.AxisY)
	if m.Spec.Fixed >= 0 {
		p.Title.Text = fmt.Sprintf("Decision regions (%s = %g)", axisName(m.Spec.Fixed), m.Spec.FixedValue)
	}

	hm := plotter.NewHeatMap(regionGrid{m}, octantPalette(symbolColors(set.Size())))
	hm.Min = -0.5
	hm.Max = float64(set.Size()) - 0.5
	p.Add(hm)

	corners := make(plotter.XYs, 0, set.Size())
	for _, pt := range set.Points() {
		corners = append(corners, plotter.XY{X: pt[m.Spec.AxisX], Y: pt[m.Spec.AxisY]})
	}
	cs, err := plotter.NewScatter(corners)
	if err != nil {
		return err
	}
	cs.GlyphStyle.Color = color.Black
	cs.GlyphStyle.Radius = vg.Points(4)
	cs.GlyphStyle.Shape = draw.CrossGlyph{}
	p.Add(cs)

	return p.Save(7*vg.Inch, 6*vg.Inch, path)
}

// SweepCurve renders measured symbol error rate against Es/N0 with the
// theoretical curve for comparison. Zero rates are left off the
// logarithmic axis.
func SweepCurve(path string, points []link.SweepPoint) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: no sweep points to plot", signal.ErrInvalidParameter)
	}

	p := plot.New()
	p.Title.Text = "Symbol error rate"
	p.X.Label.Text = "Es/N0 (dB)"
	p.Y.Label.Text = "SER"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	measured := make(plotter.XYs, 0, len(points))
	theory := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		if pt.SER > 0 {
			measured = append(measured, plotter.XY{X: pt.EsN0DB, Y: pt.SER})
		}
		if pt.TheorySER > 0 {
			theory = append(theory, plotter.XY{X: pt.EsN0DB, Y: pt.TheorySER})
		}
	}
	if len(measured) == 0 && len(theory) == 0 {
		return fmt.Errorf("%w: every sweep point has zero error rate", signal.ErrInvalidParameter)
	}

	if len(measured) > 0 {
		line, marks, err := plotter.NewLinePoints(measured)
		if err != nil {
			return err
		}
		line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
		line.Width = vg.Points(1.5)
		marks.GlyphStyle.Color = line.Color
		marks.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(line, marks)
		p.Legend.Add("measured", line, marks)
	}

	if len(theory) > 0 {
		tl, err := plotter.NewLine(theory)
		if err != nil {
			return err
		}
		tl.Color = theoryColor
		tl.Width = vg.Points(1)
		tl.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(tl)
		p.Legend.Add("theory", tl)
	}
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

func axisName(axis int) string {
	names := []string{"x", "y", "z"}
	if axis >= 0 && axis < len(names) {
		return names[axis]
	}
	return fmt.Sprintf("x%d", axis)
}

// symbolColors returns n distinguishable colors, one per symbol. The
// first eight are fixed; beyond that hues are spread evenly.
func symbolColors(n int) []color.Color {
	fixed := []color.Color{
		color.RGBA{R: 31, G: 119, B: 180, A: 255},
		color.RGBA{R: 255, G: 127, B: 14, A: 255},
		color.RGBA{R: 44, G: 160, B: 44, A: 255},
		color.RGBA{R: 214, G: 39, B: 40, A: 255},
		color.RGBA{R: 148, G: 103, B: 189, A: 255},
		color.RGBA{R: 140, G: 86, B: 75, A: 255},
		color.RGBA{R: 227, G: 119, B: 194, A: 255},
		color.RGBA{R: 127, G: 127, B: 127, A: 255},
	}
	if n <= len(fixed) {
		return fixed[:n]
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
