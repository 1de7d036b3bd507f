// Package metrics implements error accounting over detected symbol
// sequences.
package metrics

import (
	"fmt"

	"github.com/siglab/linksim/internal/signal"
)

// Compare counts the positions where detected differs from tx and
// returns the empirical symbol error rate. Pure function; both
// sequences must have the same length.
func Compare(tx, detected []int) (count int, rate float64, err error) {
	if len(tx) != len(detected) {
		return 0, 0, fmt.Errorf("%w: transmitted %d symbols, detected %d",
			signal.ErrLengthMismatch, len(tx), len(detected))
	}
	if len(tx) == 0 {
		return 0, 0, nil
	}
	for i := range tx {
		if tx[i] != detected[i] {
			count++
		}
	}
	return count, float64(count) / float64(len(tx)), nil
}

// SymbolError is the running empirical symbol error rate.
type SymbolError struct {
	observed int
	errors   int
}

func NewSymbolError() *SymbolError {
	return &SymbolError{}
}

func (s *SymbolError) Name() string {
	return "symbol_error_rate"
}

func (s *SymbolError) Observe(tx, detected int) {
	s.observed++
	if tx != detected {
		s.errors++
	}
}

// Value is the error rate over everything observed so far, in [0, 1].
func (s *SymbolError) Value() float64 {
	if s.observed == 0 {
		return 0
	}
	return float64(s.errors) / float64(s.observed)
}

func (s *SymbolError) Count() int {
	return s.errors
}

func (s *SymbolError) Observed() int {
	return s.observed
}

func (s *SymbolError) Reset() {
	s.observed = 0
	s.errors = 0
}
