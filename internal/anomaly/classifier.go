// Package anomaly classifies individual measurement events as statistical
// outliers using z-score and IQR fencing.
package anomaly

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"evcore/domain/ev"
	"evcore/internal/errors"
)

// Result is one classification of a measurement series.
// Set is a pure function of (series, config): recomputing with identical
// inputs yields an identical set.
type Result struct {
	Set ev.AnomalySet `json:"anomaly_indices"`
	// NonFiniteCount reports NaN/Inf samples that were excluded from the
	// statistics and never flagged. Surfaced so callers can report dropped
	// events instead of silently shrinking totals.
	NonFiniteCount int `json:"non_finite_count"`
}

// Classify flags anomalous event indices in series under cfg.
// Disabled detection and empty series both yield an empty set; only a
// structurally invalid config is an error.
func Classify(series ev.MeasurementSeries, cfg ev.AnomalyConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, errors.Wrap(errors.ConfigInvalid(err.Error()), "invalid anomaly config")
	}

	res := Result{Set: ev.AnomalySet{}}

	values, indices := finiteSamples(series)
	res.NonFiniteCount = len(series) - len(values)

	if !cfg.Enabled || len(values) == 0 {
		return res, nil
	}

	switch cfg.Method {
	case ev.MethodZScore:
		res.Set = zscoreSet(values, indices, cfg.ZScoreThreshold)
	case ev.MethodIQR:
		res.Set = iqrSet(values, indices, cfg.IQRFactor)
	case ev.MethodBoth:
		res.Set = zscoreSet(values, indices, cfg.ZScoreThreshold).
			Union(iqrSet(values, indices, cfg.IQRFactor))
	}

	return res, nil
}

// finiteSamples filters out NaN/Inf values, keeping the original event index
// of each surviving sample so flags map back to series positions.
func finiteSamples(series ev.MeasurementSeries) ([]float64, []int) {
	values := make([]float64, 0, len(series))
	indices := make([]int, 0, len(series))
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
		indices = append(indices, i)
	}
	return values, indices
}

// zscoreSet flags samples whose distance from the population mean exceeds
// threshold standard deviations. A zero-variance series flags nothing: with
// sigma = 0 no sample has a defined z-score.
func zscoreSet(values []float64, indices []int, threshold float64) ev.AnomalySet {
	set := ev.AnomalySet{}

	mean, err := stats.Mean(values)
	if err != nil {
		return set
	}
	stdDev, err := stats.StandardDeviationPopulation(values)
	if err != nil || stdDev == 0 {
		return set
	}

	for i, v := range values {
		if math.Abs(v-mean)/stdDev > threshold {
			set.Add(indices[i])
		}
	}
	return set
}

// iqrSet flags samples outside the Tukey fences Q1 - factor*IQR and
// Q3 + factor*IQR. An all-equal series has IQR = 0 and flags nothing.
func iqrSet(values []float64, indices []int, factor float64) ev.AnomalySet {
	set := ev.AnomalySet{}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := percentileLinear(sorted, 25)
	q3 := percentileLinear(sorted, 75)
	iqr := q3 - q1
	lower := q1 - factor*iqr
	upper := q3 + factor*iqr

	for i, v := range values {
		if v < lower || v > upper {
			set.Add(indices[i])
		}
	}
	return set
}

// percentileLinear computes the p-th percentile of sorted data by linear
// interpolation between closest ranks (the method used across the EV
// analysis pipeline for quartiles and D10/D50/D90). The montanaflynn
// Percentile/Quartile helpers use nearest-rank and median-of-halves
// respectively, which disagree with the fences the classifier commits to.
func percentileLinear(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// PercentileLinear exposes the pipeline's quantile method to the profiler so
// quartiles and D-percentiles agree with the classifier's fences.
func PercentileLinear(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileLinear(sorted, p)
}
