// Package profiling summarizes the shape of a measurement series: central
// tendency, spread, size percentiles and a distribution-normality check.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"evcore/domain/ev"
	"evcore/internal/anomaly"
)

// SeriesProfile is the summary-statistics record for one measurement series.
// D10/D50/D90 use the same linear-interpolation quantile as the classifier's
// IQR fences so the two never disagree about the distribution.
type SeriesProfile struct {
	SampleSize     int     `json:"sample_size"`
	NonFiniteCount int     `json:"non_finite_count"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Median         float64 `json:"median"`
	Q1             float64 `json:"q1"`
	Q3             float64 `json:"q3"`
	D10            float64 `json:"d10"`
	D50            float64 `json:"d50"`
	D90            float64 `json:"d90"`
	CVPercent      float64 `json:"cv_percent"` // 100 * stddev / mean, 0 when mean == 0
	Skewness       float64 `json:"skewness"`
	Kurtosis       float64 `json:"kurtosis"`
	IsNormal       bool    `json:"is_normal"`
	NormalityP     float64 `json:"normality_p"`
}

// Profile computes the summary profile of series. Non-finite samples are
// excluded; degenerate inputs (empty, constant) yield neutral values rather
// than NaN. The zero profile is returned for an empty series.
func Profile(series ev.MeasurementSeries) SeriesProfile {
	data := make([]float64, 0, len(series))
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		data = append(data, v)
	}

	p := SeriesProfile{
		SampleSize:     len(data),
		NonFiniteCount: len(series) - len(data),
	}
	if len(data) == 0 {
		return p
	}

	p.Mean, _ = stats.Mean(data)
	p.StdDev, _ = stats.StandardDeviationPopulation(data)
	p.Min, _ = stats.Min(data)
	p.Max, _ = stats.Max(data)

	p.D10 = anomaly.PercentileLinear(data, 10)
	p.D50 = anomaly.PercentileLinear(data, 50)
	p.D90 = anomaly.PercentileLinear(data, 90)
	p.Q1 = anomaly.PercentileLinear(data, 25)
	p.Q3 = anomaly.PercentileLinear(data, 75)
	p.Median = p.D50

	if p.Mean != 0 {
		p.CVPercent = 100 * p.StdDev / p.Mean
	}

	if p.StdDev > 0 {
		p.Skewness = sampleSkewness(data, p.Mean, p.StdDev)
		p.Kurtosis = sampleKurtosis(data, p.Mean, p.StdDev)
		p.IsNormal, p.NormalityP = testNormality(p.Skewness, p.Kurtosis, len(data))
	}

	return p
}

// sampleSkewness computes the adjusted Fisher-Pearson skewness coefficient.
func sampleSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 {
		return 0
	}

	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}

	// Bias correction for sample skewness
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// sampleKurtosis computes sample kurtosis (3 = normal distribution).
func sampleKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 {
		return 3
	}

	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	return sum / n
}

// testNormality approximates a normality test from combined skewness and
// excess-kurtosis magnitude against a chi-square distribution. Coarse, but
// enough to annotate whether z-score fencing assumptions hold.
func testNormality(skewness, kurtosis float64, n int) (bool, float64) {
	if n < 3 {
		return false, 1.0
	}

	testStat := math.Abs(skewness) + math.Abs(kurtosis-3)/2

	chiDist := distuv.ChiSquared{K: 2}
	pValue := 1 - chiDist.CDF(testStat*testStat)

	return pValue > 0.05, pValue
}
