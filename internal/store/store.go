// Package store persists finished runs to disk, one directory per run
// with a JSON metadata file and a CSV of every per-symbol sample, and
// exports runs as a single JSON document for external tools.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/siglab/linksim/internal/link"
	"github.com/siglab/linksim/internal/signal"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Constellation string             `json:"constellation"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          uint64             `json:"seed"`
	Amplitude     float64            `json:"amplitude"`
	Symbols       int                `json:"symbols"`
	NoisePower    float64            `json:"noise_power"`
	Sigma         float64            `json:"sigma"`
	EsN0DB        float64            `json:"esn0_db"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Samples is the per-symbol record of a run read back from disk. All
// slices share length N and positional correspondence.
type Samples struct {
	TxIndices []int
	TxPoints  []signal.Point
	Noise     []signal.Point
	RxPoints  []signal.Point
	Detected  []int
}

// Save writes one run under <base>/<name>_<unixtime>/ and returns the
// run ID. Sample coordinates are written with full precision so a
// reloaded run reproduces the stored one exactly.
func (s *Store) Save(cfg link.Config, result *link.Result) (string, error) {
	name := fmt.Sprintf("cube%d", len(result.Constellation))
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Constellation: name,
		Timestamp:     time.Now(),
		Seed:          result.Seed,
		Amplitude:     cfg.Amplitude,
		Symbols:       cfg.Symbols,
		NoisePower:    cfg.NoisePower,
		Sigma:         result.Sigma,
		EsN0DB:        finite(result.EsN0DB),
		Metrics:       result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamples(csvFile, result); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteSamples writes the per-symbol record as CSV: index, transmitted
// symbol, then the transmitted, noise, and received coordinates, then
// the detected symbol.
func WriteSamples(out io.Writer, result *link.Result) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if len(result.TxIndices) == 0 {
		return w.Error()
	}

	dim := result.TxPoints[0].Dim()
	header := []string{"i", "tx"}
	for _, group := range []string{"tx", "noise", "rx"} {
		for _, axis := range axisNames(dim) {
			header = append(header, group+"_"+axis)
		}
	}
	header = append(header, "detected")
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.TxIndices {
		row := []string{strconv.Itoa(i), strconv.Itoa(result.TxIndices[i])}
		for _, p := range []signal.Point{result.TxPoints[i], result.Noise[i], result.RxPoints[i]} {
			for _, v := range p {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		row = append(row, strconv.Itoa(result.Detected[i]))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// finite zeroes non-finite values; encoding/json rejects Inf and NaN,
// and a noiseless run has no finite Es/N0.
func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

func axisNames(dim int) []string {
	if dim <= 3 {
		return []string{"x", "y", "z"}[:dim]
	}
	names := make([]string, dim)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	return names
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSamples reads a run's per-symbol record back. Rows that do not
// parse are skipped rather than failing the whole load.
func (s *Store) LoadSamples(runID string) (*Samples, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := &Samples{}
	if len(records) < 2 {
		return samples, nil
	}

	// i, tx, three dim-wide coordinate groups, detected.
	dim := (len(records[0]) - 3) / 3

	for _, record := range records[1:] {
		if len(record) != 3+3*dim {
			continue
		}

		tx, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		det, err := strconv.Atoi(record[len(record)-1])
		if err != nil {
			continue
		}

		points := make([]signal.Point, 3)
		bad := false
		for g := range points {
			p := make(signal.Point, dim)
			for d := 0; d < dim; d++ {
				v, err := strconv.ParseFloat(record[2+g*dim+d], 64)
				if err != nil {
					bad = true
					break
				}
				p[d] = v
			}
			if bad {
				break
			}
			points[g] = p
		}
		if bad {
			continue
		}

		samples.TxIndices = append(samples.TxIndices, tx)
		samples.TxPoints = append(samples.TxPoints, points[0])
		samples.Noise = append(samples.Noise, points[1])
		samples.RxPoints = append(samples.RxPoints, points[2])
		samples.Detected = append(samples.Detected, det)
	}

	return samples, nil
}

// Delete removes one stored run. The ID must name a directory directly
// under the store root.
func (s *Store) Delete(runID string) error {
	if runID == "" || strings.ContainsAny(runID, `/\`) || runID == "." || runID == ".." {
		return fmt.Errorf("%w: bad run id %q", signal.ErrInvalidParameter, runID)
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, runID, "metadata.json")); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
