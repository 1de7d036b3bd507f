package detect

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/siglab/linksim/internal/constellation"
	"github.com/siglab/linksim/internal/signal"
)

func mustCube(t testing.TB, a float64, dim int) *constellation.Set {
	t.Helper()
	set, err := constellation.Cube(a, dim)
	if err != nil {
		t.Fatalf("Cube: %v", err)
	}
	return set
}

// naiveNearest is the reference rule: scan all symbols, keep the first
// strict improvement, so ties stay at the lowest index.
func naiveNearest(set *constellation.Set, p signal.Point) int {
	best, bestDist := 0, math.Inf(1)
	for i := 0; i < set.Size(); i++ {
		if d := p.DistSq(set.Point(i)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func TestDetectConstellationPointsExactly(t *testing.T) {
	set := mustCube(t, 0.01, 3)
	det, err := New(set)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := det.Detect(set.Points())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for i, g := range got {
		if g != i {
			t.Errorf("Detect(point %d) = %d, want %d", i, g, i)
		}
	}
}

func TestDetectNearCorners(t *testing.T) {
	const a = 0.01
	set := mustCube(t, a, 3)
	det, _ := New(set)

	rx := make([]signal.Point, set.Size())
	for i := range rx {
		p := set.Point(i)
		// Perturb by much less than the half-spacing a.
		for d := range p {
			p[d] += a / 10
		}
		rx[i] = p
	}

	got, err := det.Detect(rx)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for i, g := range got {
		if g != i {
			t.Errorf("perturbed point %d detected as %d", i, g)
		}
	}
}

func TestDetectMatchesNaiveSearch(t *testing.T) {
	const a = 0.01
	set := mustCube(t, a, 3)
	det, _ := New(set)

	rng := rand.New(rand.NewPCG(17, 17))
	const n = 5000
	rx := make([]signal.Point, n)
	for i := range rx {
		p := make(signal.Point, 3)
		for d := range p {
			p[d] = (rng.Float64()*4 - 2) * a
		}
		rx[i] = p
	}

	got, err := det.Detect(rx)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for i := range rx {
		if want := naiveNearest(set, rx[i]); got[i] != want {
			t.Fatalf("point %d: Detect = %d, naive = %d (point %v)", i, got[i], want, rx[i])
		}
	}
}

func TestDetectTieBreakLowestIndex(t *testing.T) {
	set := mustCube(t, 0.01, 3)
	det, _ := New(set)

	tests := []struct {
		name string
		p    signal.Point
		want int
	}{
		// Origin ties all eight corners.
		{"origin", signal.Point{0, 0, 0}, 0},
		// x=0 ties the two x-sign groups; y>0, z>0 narrows to {3, 7}.
		{"x boundary", signal.Point{0, 0.01, 0.01}, 3},
		// y=0, signs fixed elsewhere: ties {4, 6}.
		{"y boundary", signal.Point{0.01, 0, -0.01}, 4},
		// z=0 with x,y negative: ties {0, 1}.
		{"z boundary", signal.Point{-0.01, -0.01, 0}, 0},
		// x=y=0 plane line, z positive: ties {1, 3, 5, 7}.
		{"two boundaries", signal.Point{0, 0, 0.01}, 1},
	}

	for _, tt := range tests {
		for trial := 0; trial < 3; trial++ {
			got, err := det.Detect([]signal.Point{tt.p})
			if err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			if got[0] != tt.want {
				t.Errorf("%s (trial %d): Detect = %d, want %d", tt.name, trial, got[0], tt.want)
			}
		}
	}
}

func TestDetectChunkingInvariant(t *testing.T) {
	set := mustCube(t, 1.0, 3)
	det, _ := New(set)

	rng := rand.New(rand.NewPCG(23, 23))
	n := batchRows + 137 // force a chunk boundary
	rx := make([]signal.Point, n)
	for i := range rx {
		p := make(signal.Point, 3)
		for d := range p {
			p[d] = rng.Float64()*4 - 2
		}
		rx[i] = p
	}

	got, err := det.Detect(rx)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(got) != n {
		t.Fatalf("len = %d, want %d", len(got), n)
	}
	for _, i := range []int{0, batchRows - 1, batchRows, n - 1} {
		if want := naiveNearest(set, rx[i]); got[i] != want {
			t.Errorf("row %d across chunk boundary: got %d, want %d", i, got[i], want)
		}
	}
}

func TestDetectDimensionMismatch(t *testing.T) {
	set := mustCube(t, 0.01, 3)
	det, _ := New(set)

	_, err := det.Detect([]signal.Point{{0.01, 0.01}})
	if !errors.Is(err, signal.ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}

	_, err = det.Detect([]signal.Point{{0, 0, 0}, {0, 0, 0, 0}})
	if !errors.Is(err, signal.ErrDimensionMismatch) {
		t.Errorf("mixed dims: err = %v, want ErrDimensionMismatch", err)
	}
}

func TestDetectEmptyInput(t *testing.T) {
	set := mustCube(t, 0.01, 3)
	det, _ := New(set)

	got, err := det.Detect(nil)
	if err != nil {
		t.Fatalf("Detect(nil): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func BenchmarkDetect(b *testing.B) {
	set := mustCube(b, 0.01, 3)
	det, _ := New(set)

	rng := rand.New(rand.NewPCG(1, 1))
	rx := make([]signal.Point, 10000)
	for i := range rx {
		p := make(signal.Point, 3)
		for d := range p {
			p[d] = (rng.Float64()*4 - 2) * 0.01
		}
		rx[i] = p
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := det.Detect(rx); err != nil {
			b.Fatal(err)
		}
	}
}
