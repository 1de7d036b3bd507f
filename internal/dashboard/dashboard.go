// Package dashboard renders one run as a self-contained HTML page of
// interactive charts: the received cloud in 2D and 3D, the
// decision-region slice, and the noise histogram.
package dashboard

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/siglab/linksim/internal/analysis"
	"github.com/siglab/linksim/internal/detect"
	"github.com/siglab/linksim/internal/link"
	"github.com/siglab/linksim/internal/signal"
)

// maxCloudPoints caps the 3D cloud so the page stays responsive, the
// rest of the samples are dropped by stride.
const maxCloudPoints = 2000

// maxRegionSide bounds the region scatter to at most this many grid
// columns and rows per axis.
const maxRegionSide = 100

// symbolPalette has one hex color per symbol index of the default
// constellation.
var symbolPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
	"#9467bd", "#8c564b", "#e377c2", "#7f7f7f",
}

// Render writes the dashboard page for a finished run. A nil region
// map omits the region chart.
func Render(w io.Writer, result *link.Result, regions *detect.RegionMap) error {
	if result == nil || len(result.RxPoints) == 0 {
		return fmt.Errorf("%w: nothing to render", signal.ErrInvalidParameter)
	}

	page := components.NewPage()
	page.AddCharts(rxScatter(result))
	if dimOf(result) >= 3 {
		page.AddCharts(cloud3D(result))
	}
	if regions != nil {
		page.AddCharts(regionScatter(regions))
	}
	page.AddCharts(noiseHistogram(result))

	return page.Render(w)
}

func dimOf(result *link.Result) int {
	if len(result.Constellation) == 0 {
		return 0
	}
	return result.Constellation[0].Dim()
}

func rxScatter(result *link.Result) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(result.RxPoints))
	maxAbs := 0.0
	for i, p := range result.RxPoints {
		if p.Dim() < 2 {
			continue
		}
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(p[0]), math.Abs(p[1])))
		data = append(data, opts.ScatterData{Value: []interface{}{p[0], p[1], result.Detected[i]}})
	}
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title: "Received cloud (x-y), colored by detection",
			Subtitle: fmt.Sprintf("N=%d errors=%d SER=%.4f seed=%d",
				len(result.TxIndices), result.ErrorCount, result.ErrorRate, result.Seed),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "y"}),
		symbolVisualMap(len(result.Constellation)-1),
	)
	scatter.AddSeries("received", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	return scatter
}

func cloud3D(result *link.Result) *charts.Scatter3D {
	stride := 1
	if len(result.RxPoints) > maxCloudPoints {
		stride = int(math.Ceil(float64(len(result.RxPoints)) / float64(maxCloudPoints)))
	}

	cloud := make([]opts.Chart3DData, 0, maxCloudPoints+1)
	for i := 0; i < len(result.RxPoints); i += stride {
		p := result.RxPoints[i]
		if p.Dim() < 3 {
			continue
		}
		cloud = append(cloud, opts.Chart3DData{Value: []interface{}{p[0], p[1], p[2]}})
	}
	corners := make([]opts.Chart3DData, 0, len(result.Constellation))
	for _, p := range result.Constellation {
		if p.Dim() < 3 {
			continue
		}
		corners = append(corners, opts.Chart3DData{Value: []interface{}{p[0], p[1], p[2]}})
	}

	sc := charts.NewScatter3D()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Received cloud (3D)",
			Subtitle: fmt.Sprintf("showing %d of %d points", len(cloud), len(result.RxPoints)),
		}),
	)
	sc.AddSeries("received", cloud,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#1f77b4", Opacity: opts.Float(0.55)}))
	sc.AddSeries("constellation", corners,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"}))
	return sc
}

func regionScatter(m *detect.RegionMap) *charts.Scatter {
	stride := 1
	if len(m.Xs) > maxRegionSide {
		stride = int(math.Ceil(float64(len(m.Xs)) / float64(maxRegionSide)))
	}

	maxIdx := 0
	data := make([]opts.ScatterData, 0, maxRegionSide*maxRegionSide)
	for yi := 0; yi < len(m.Ys); yi += stride {
		for xi := 0; xi < len(m.Xs); xi += stride {
			idx := m.Index[yi][xi]
			if idx > maxIdx {
				maxIdx = idx
			}
			data = append(data, opts.ScatterData{Value: []interface{}{m.Xs[xi], m.Ys[yi], idx}})
		}
	}
	pad := math.Max(math.Abs(m.Spec.Min), math.Abs(m.Spec.Max)) * 1.05

	title := "Decision regions"
	if m.Spec.Fixed >= 0 {
		title = fmt.Sprintf("Decision regions (axis %d = %g)", m.Spec.Fixed, m.Spec.FixedValue)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "700px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%dx%d grid", len(m.Xs), len(m.Ys)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "y"}),
		symbolVisualMap(maxIdx),
	)
	scatter.AddSeries("region", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	return scatter
}

func noiseHistogram(result *link.Result) *charts.Bar {
	centers, density := analysis.Histogram(analysis.Flatten(result.Noise), 50)

	x := make([]string, len(centers))
	y := make([]opts.BarData, len(centers))
	for i := range centers {
		x[i] = fmt.Sprintf("%.3g", centers[i])
		y[i] = opts.BarData{Value: density[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title: "Noise distribution",
			Subtitle: fmt.Sprintf("sigma=%.4g sample variance=%.4g",
				result.Sigma, result.Metrics["noise_variance"]),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("density", y)
	return bar
}

// symbolVisualMap colors an integer symbol dimension with one palette
// stop per index, matching the categorical palette used elsewhere.
func symbolVisualMap(maxIdx int) charts.GlobalOpts {
	colors := symbolPalette
	if maxIdx+1 < len(colors) {
		colors = colors[:maxIdx+1]
	}
	return charts.WithVisualMapOpts(opts.VisualMap{
		Show:      opts.Bool(true),
		Min:       0,
		Max:       float32(maxIdx),
		Dimension: "2",
		InRange:   &opts.VisualMapInRange{Color: colors},
	})
}
