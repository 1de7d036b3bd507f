package analysis

import (
	"math"
	"testing"

	"github.com/siglab/linksim/internal/signal"
)

func TestQFunction(t *testing.T) {
	if got := Q(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Q(0) = %g, want 0.5", got)
	}
	if got := Q(1); math.Abs(got-0.15865525) > 1e-6 {
		t.Errorf("Q(1) = %g, want 0.15865525", got)
	}
	if got := Q(-1) + Q(1); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Q(-1)+Q(1) = %g, want 1", got)
	}
	if got := Q(10); got > 1e-20 {
		t.Errorf("Q(10) = %g, want about 0", got)
	}
}

func TestTheorySERDefaults(t *testing.T) {
	// A=0.01, N0=2e-4 puts sigma at exactly A, so the per-axis error is
	// Q(1) and the symbol error rate sits near 0.404.
	got := TheorySER(0.01, 2e-4, 3)
	p := Q(1)
	want := 1 - math.Pow(1-p, 3)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("TheorySER = %g, want %g", got, want)
	}
	if got < 0.40 || got > 0.41 {
		t.Errorf("TheorySER = %g, want about 0.404", got)
	}
}

func TestTheorySEREdges(t *testing.T) {
	if got := TheorySER(0.01, 0, 3); got != 0 {
		t.Errorf("noiseless TheorySER = %g, want 0", got)
	}
	if !math.IsNaN(TheorySER(-1, 2e-4, 3)) {
		t.Error("negative amplitude should yield NaN")
	}
	low := TheorySER(0.01, 1e-4, 3)
	high := TheorySER(0.01, 4e-4, 3)
	if low >= high {
		t.Errorf("SER must grow with noise power: %g vs %g", low, high)
	}
}

func TestDecibelHelpers(t *testing.T) {
	if got := DB(10); math.Abs(got-10) > 1e-12 {
		t.Errorf("DB(10) = %g, want 10", got)
	}
	if got := FromDB(DB(1.5)); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("FromDB(DB(1.5)) = %g, want 1.5", got)
	}

	// Es = 3*A^2 = 3e-4, N0 = 2e-4: ratio 1.5 = 1.76 dB.
	got := EsN0DB(0.01, 2e-4, 3)
	if math.Abs(got-1.7609) > 1e-3 {
		t.Errorf("EsN0DB = %g, want 1.7609", got)
	}
	if !math.IsInf(EsN0DB(0.01, 0, 3), 1) {
		t.Error("EsN0DB with N0=0 should be +Inf")
	}
}

func TestSERConfidence(t *testing.T) {
	got := SERConfidence(0.5, 10000)
	if math.Abs(got-0.0098) > 1e-4 {
		t.Errorf("SERConfidence(0.5, 10000) = %g, want about 0.0098", got)
	}
	if SERConfidence(0.5, 0) != 0 {
		t.Error("n=0 should yield 0")
	}
}

func TestNoiseStats(t *testing.T) {
	noise := []signal.Point{{1, -1}, {1, -1}}
	s := NoiseStats(noise)
	if s.Samples != 4 {
		t.Errorf("Samples = %d, want 4", s.Samples)
	}
	if math.Abs(s.Mean) > 1e-15 {
		t.Errorf("Mean = %g, want 0", s.Mean)
	}
	// Sample variance with Bessel's correction: 4/3.
	if math.Abs(s.Variance-4.0/3.0) > 1e-12 {
		t.Errorf("Variance = %g, want 4/3", s.Variance)
	}

	empty := NoiseStats(nil)
	if empty.Samples != 0 || empty.Variance != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestHistogram(t *testing.T) {
	centers, density := Histogram([]float64{0, 0.5, 1}, 2)
	if len(centers) != 2 || len(density) != 2 {
		t.Fatalf("bins = %d/%d, want 2/2", len(centers), len(density))
	}
	if math.Abs(centers[0]-0.25) > 1e-12 || math.Abs(centers[1]-0.75) > 1e-12 {
		t.Errorf("centers = %v, want [0.25 0.75]", centers)
	}

	// Density integrates to 1.
	width := 0.5
	total := (density[0] + density[1]) * width
	if math.Abs(total-1.0) > 1e-12 {
		t.Errorf("density integral = %g, want 1", total)
	}

	if c, d := Histogram(nil, 10); c != nil || d != nil {
		t.Error("empty input should yield nil histogram")
	}
}

func TestNormalPDF(t *testing.T) {
	got := NormalPDF(0, 0.01)
	want := 1 / (0.01 * math.Sqrt(2*math.Pi))
	if math.Abs(got-want) > 1e-9*want {
		t.Errorf("NormalPDF(0, 0.01) = %g, want %g", got, want)
	}
	if NormalPDF(0, 0) != 0 {
		t.Error("sigma=0 should yield 0")
	}
}
