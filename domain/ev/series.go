package ev

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// MeasurementSeries is an ordered sequence of per-event sample values for one
// acquisition (forward scatter, side scatter, or estimated diameter). Index
// position is the stable event identifier; anomaly membership and histogram
// attribution cross-reference events by index. The series is immutable once
// produced by the upstream parser.
type MeasurementSeries []float64

// FiniteCount returns the number of finite samples in the series.
// NaN and ±Inf samples are excluded from all statistics.
func (s MeasurementSeries) FiniteCount() int {
	n := 0
	for _, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n++
		}
	}
	return n
}

// DetectionMethod selects the statistical method used to flag anomalous events.
type DetectionMethod string

const (
	MethodZScore DetectionMethod = "zscore"
	MethodIQR    DetectionMethod = "iqr"
	MethodBoth   DetectionMethod = "both" // union of zscore and iqr sets
)

// AnomalyConfig holds the user-adjustable anomaly detection settings.
// The core never reads ambient state: this value is passed explicitly into
// every classification call.
type AnomalyConfig struct {
	Enabled              bool            `json:"enabled"`
	Method               DetectionMethod `json:"method"`
	ZScoreThreshold      float64         `json:"zscore_threshold"` // sigmas, > 0
	IQRFactor            float64         `json:"iqr_factor"`       // fence multiplier, > 0
	HighlightOnScatter   bool            `json:"highlight_on_scatter"`
	HighlightOnHistogram bool            `json:"highlight_on_histogram"`
}

// DefaultAnomalyConfig returns the standard detection settings
// (3-sigma z-score, Tukey 1.5x IQR fences, union of both).
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		Enabled:              true,
		Method:               MethodBoth,
		ZScoreThreshold:      3.0,
		IQRFactor:            1.5,
		HighlightOnScatter:   true,
		HighlightOnHistogram: true,
	}
}

// Validate rejects structurally invalid configuration. Thresholds must be
// strictly positive; silently coercing them would change classification
// semantics without the caller noticing.
func (c AnomalyConfig) Validate() error {
	switch c.Method {
	case MethodZScore, MethodIQR, MethodBoth:
	default:
		return fmt.Errorf("unknown detection method %q", c.Method)
	}
	if c.ZScoreThreshold <= 0 {
		return fmt.Errorf("zscore threshold must be positive, got %g", c.ZScoreThreshold)
	}
	if c.IQRFactor <= 0 {
		return fmt.Errorf("iqr factor must be positive, got %g", c.IQRFactor)
	}
	return nil
}

// AnomalySet is the set of event indices determined anomalous under the
// active configuration. Always derived, never persisted: it is a pure
// function of (series, config) and is recomputed when either changes.
type AnomalySet map[int]bool

// Contains reports whether event index i is flagged anomalous.
func (s AnomalySet) Contains(i int) bool { return s[i] }

// Add flags event index i.
func (s AnomalySet) Add(i int) { s[i] = true }

// Len returns the number of flagged events.
func (s AnomalySet) Len() int { return len(s) }

// Union returns a new set containing the indices of both sets.
func (s AnomalySet) Union(other AnomalySet) AnomalySet {
	out := make(AnomalySet, len(s)+len(other))
	for i := range s {
		out[i] = true
	}
	for i := range other {
		out[i] = true
	}
	return out
}

// Indices returns the flagged indices in ascending order.
func (s AnomalySet) Indices() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// MarshalJSON encodes the set as a sorted index array, the shape chart and
// export collaborators consume.
func (s AnomalySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Indices())
}

// UnmarshalJSON accepts the sorted-index-array form, including the optional
// anomaly-index payloads supplied by the remote analysis backend.
func (s *AnomalySet) UnmarshalJSON(data []byte) error {
	var indices []int
	if err := json.Unmarshal(data, &indices); err != nil {
		return err
	}
	set := make(AnomalySet, len(indices))
	for _, i := range indices {
		set[i] = true
	}
	*s = set
	return nil
}
