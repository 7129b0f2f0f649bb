package statistics

import (
	"fmt"
	"math"
	"strings"

	"github.com/caio/go-tdigest"
)

// DefaultQuantiles are reported when a summary is built without explicit ones.
var DefaultQuantiles = []float64{0.5, 0.9, 0.99}

// TimingSummary keeps a t-digest of timings per class.
// It only serves diagnostics; the verdict never depends on it.
type TimingSummary struct {
	digests   [2]*tdigest.TDigest
	quantiles []float64
}

// NewTimingSummary creates an empty summary reporting the given quantiles.
func NewTimingSummary(quantiles ...float64) (*TimingSummary, error) {
	if len(quantiles) == 0 {
		quantiles = DefaultQuantiles
	}
	for _, q := range quantiles {
		if q < 0 || q > 1 {
			return nil, fmt.Errorf("time quantile %v out of [0, 1]", q)
		}
	}

	s := &TimingSummary{quantiles: quantiles}
	for i := range s.digests {
		td, err := tdigest.New()
		if err != nil {
			return nil, err
		}
		s.digests[i] = td
	}
	return s, nil
}

// Add records value for class. NaN and infinite values are rejected.
func (s *TimingSummary) Add(class uint8, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("timing value %v is not finite", value)
	}
	return s.digests[class].Add(value)
}

func (s *TimingSummary) Count(class uint8) uint64 {
	return s.digests[class].Count()
}

// Quantile returns the estimated q-quantile of class, or 0 if class is empty.
func (s *TimingSummary) Quantile(class uint8, q float64) float64 {
	if s.digests[class].Count() == 0 {
		return 0
	}
	return s.digests[class].Quantile(q)
}

func (s *TimingSummary) Quantiles() []float64 {
	return s.quantiles
}

// String renders the configured quantiles of both classes, e.g.
// "p50 102/104 p90 110/131 p99 180/260".
func (s *TimingSummary) String() string {
	var sb strings.Builder
	for i, q := range s.quantiles {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "p%g %.0f/%.0f", q*100, s.Quantile(0, q), s.Quantile(1, q))
	}
	return sb.String()
}
