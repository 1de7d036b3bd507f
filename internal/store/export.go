package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/siglab/linksim/internal/detect"
	"github.com/siglab/linksim/internal/link"
	"github.com/siglab/linksim/internal/signal"
)

// ExportData is the full artifact set of one run in a single JSON
// document: constellation, parameters, every per-symbol sequence, the
// error accounting, and optionally the decision-region map.
type ExportData struct {
	Constellation []signal.Point     `json:"constellation"`
	Amplitude     float64            `json:"amplitude"`
	Symbols       int                `json:"symbols"`
	NoisePower    float64            `json:"noise_power"`
	Sigma         float64            `json:"sigma"`
	EsN0DB        float64            `json:"esn0_db"`
	Seed          uint64             `json:"seed"`
	TxIndices     []int              `json:"tx_indices"`
	TxPoints      []signal.Point     `json:"tx_points"`
	Noise         []signal.Point     `json:"noise"`
	RxPoints      []signal.Point     `json:"rx_points"`
	Detected      []int              `json:"detected"`
	ErrorCount    int                `json:"error_count"`
	ErrorRate     float64            `json:"error_rate"`
	Confusion     [][]int            `json:"confusion"`
	Metrics       map[string]float64 `json:"metrics"`
	Regions       *RegionData        `json:"regions,omitempty"`
}

// RegionData is the decision-region slice in export form.
type RegionData struct {
	AxisX      int       `json:"axis_x"`
	AxisY      int       `json:"axis_y"`
	Fixed      int       `json:"fixed"`
	FixedValue float64   `json:"fixed_value"`
	Xs         []float64 `json:"xs"`
	Ys         []float64 `json:"ys"`
	Index      [][]int   `json:"index"`
}

func newExportData(cfg link.Config, result *link.Result, regions *detect.RegionMap) ExportData {
	data := ExportData{
		Constellation: result.Constellation,
		Amplitude:     cfg.Amplitude,
		Symbols:       cfg.Symbols,
		NoisePower:    cfg.NoisePower,
		Sigma:         result.Sigma,
		EsN0DB:        finite(result.EsN0DB),
		Seed:          result.Seed,
		TxIndices:     result.TxIndices,
		TxPoints:      result.TxPoints,
		Noise:         result.Noise,
		RxPoints:      result.RxPoints,
		Detected:      result.Detected,
		ErrorCount:    result.ErrorCount,
		ErrorRate:     result.ErrorRate,
		Confusion:     result.Confusion,
		Metrics:       result.Metrics,
	}
	if regions != nil {
		data.Regions = &RegionData{
			AxisX:      regions.Spec.AxisX,
			AxisY:      regions.Spec.AxisY,
			Fixed:      regions.Spec.Fixed,
			FixedValue: regions.Spec.FixedValue,
			Xs:         regions.Xs,
			Ys:         regions.Ys,
			Index:      regions.Index,
		}
	}
	return data
}

// ExportJSONTo writes the artifact document to w. A nil regions map
// omits the regions block.
func ExportJSONTo(w io.Writer, cfg link.Config, result *link.Result, regions *detect.RegionMap) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExportData(cfg, result, regions))
}

// ExportJSON writes the artifact document to a file.
func ExportJSON(path string, cfg link.Config, result *link.Result, regions *detect.RegionMap) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSONTo(file, cfg, result, regions)
}
