// Package testkit provides deterministic synthetic fixtures for the EV
// analysis engines.
package testkit

import (
	"math"
	"math/rand"

	"evcore/domain/ev"
)

// SeriesConfig configures the synthetic measurement-series generator.
type SeriesConfig struct {
	EventCount int     `json:"event_count"`
	MedianNm   float64 `json:"median_nm"`   // geometric median of the lognormal body
	GeoSpread  float64 `json:"geo_spread"`  // lognormal sigma (log-space)
	OutlierNm  float64 `json:"outlier_nm"`  // center of the injected outlier tail
	Outliers   int     `json:"outliers"`    // events drawn from the outlier tail
	NonFinite  int     `json:"non_finite"`  // NaN samples appended at the end
	Seed       int64   `json:"seed"`
}

// DefaultSeriesConfig returns a typical small-EV acquisition: a lognormal
// body around 110nm with a handful of large aggregates.
func DefaultSeriesConfig() SeriesConfig {
	return SeriesConfig{
		EventCount: 2000,
		MedianNm:   110,
		GeoSpread:  0.25,
		OutlierNm:  600,
		Outliers:   20,
		Seed:       42,
	}
}

// SeriesGenerator generates reproducible synthetic EV size distributions.
type SeriesGenerator struct {
	config SeriesConfig
	rng    *rand.Rand
}

// NewSeriesGenerator creates a generator for the given config.
func NewSeriesGenerator(config SeriesConfig) *SeriesGenerator {
	return &SeriesGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces one measurement series: EventCount lognormal body
// samples, then Outliers samples around OutlierNm, then NonFinite NaNs.
// Outliers occupy the trailing indices before the NaNs, so tests know
// exactly which event indices should be flagged.
func (g *SeriesGenerator) Generate() ev.MeasurementSeries {
	series := make(ev.MeasurementSeries, 0, g.config.EventCount+g.config.Outliers+g.config.NonFinite)

	mu := math.Log(g.config.MedianNm)
	for i := 0; i < g.config.EventCount; i++ {
		series = append(series, math.Exp(mu+g.config.GeoSpread*g.rng.NormFloat64()))
	}
	for i := 0; i < g.config.Outliers; i++ {
		series = append(series, g.config.OutlierNm+g.rng.NormFloat64()*g.config.OutlierNm/20)
	}
	for i := 0; i < g.config.NonFinite; i++ {
		series = append(series, math.NaN())
	}
	return series
}

// OutlierIndices returns the indices Generate assigns to the injected
// outlier tail.
func (g *SeriesGenerator) OutlierIndices() []int {
	out := make([]int, 0, g.config.Outliers)
	for i := 0; i < g.config.Outliers; i++ {
		out = append(out, g.config.EventCount+i)
	}
	return out
}
