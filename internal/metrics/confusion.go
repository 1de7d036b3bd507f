package metrics

// Confusion tallies transmitted-to-detected transitions in an M x M
// matrix. Indices must be in [0, M); the pipeline validates them before
// observing.
type Confusion struct {
	m      int
	counts []int
	total  int
}

func NewConfusion(m int) *Confusion {
	return &Confusion{m: m, counts: make([]int, m*m)}
}

func (c *Confusion) Name() string {
	return "confusion"
}

func (c *Confusion) Observe(tx, detected int) {
	c.counts[tx*c.m+detected]++
	c.total++
}

// Value is the off-diagonal fraction, which equals the symbol error
// rate of everything observed.
func (c *Confusion) Value() float64 {
	if c.total == 0 {
		return 0
	}
	wrong := 0
	for i := 0; i < c.m; i++ {
		for j := 0; j < c.m; j++ {
			if i != j {
				wrong += c.counts[i*c.m+j]
			}
		}
	}
	return float64(wrong) / float64(c.total)
}

// Count returns how often symbol tx was detected as symbol detected.
func (c *Confusion) Count(tx, detected int) int {
	return c.counts[tx*c.m+detected]
}

// Matrix returns a copy of the counts, rows indexed by transmitted
// symbol.
func (c *Confusion) Matrix() [][]int {
	out := make([][]int, c.m)
	for i := range out {
		out[i] = make([]int, c.m)
		copy(out[i], c.counts[i*c.m:(i+1)*c.m])
	}
	return out
}

func (c *Confusion) Size() int {
	return c.m
}

func (c *Confusion) Total() int {
	return c.total
}

func (c *Confusion) Reset() {
	for i := range c.counts {
		c.counts[i] = 0
	}
	c.total = 0
}
