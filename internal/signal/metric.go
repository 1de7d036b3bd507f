package signal

// Metric accumulates a scalar statistic over (transmitted, detected)
// symbol index pairs, observed in transmission order.
type Metric interface {
	Name() string
	Observe(tx, detected int)
	Value() float64
	Reset()
}
