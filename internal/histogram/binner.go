// Package histogram partitions measurement events into fixed-width bins and
// attributes normal vs anomalous counts to each bin for display.
package histogram

import (
	"math"

	"github.com/montanaflynn/stats"

	"evcore/domain/ev"
	"evcore/internal/errors"
)

// Options configures one binning pass.
type Options struct {
	BinCount int `json:"bin_count"` // >= 1
	// HighlightThreshold is the anomaly percentage above which a bin is
	// marked hot (IsAnomalous). A bin also needs at least one anomaly.
	HighlightThreshold float64 `json:"highlight_threshold"`
	// DemoFallback opts in to a deterministic synthetic placeholder shape
	// when the series is empty, for non-blank previews. Off by default:
	// an empty series yields an empty bin slice.
	DemoFallback bool `json:"demo_fallback"`
}

// DefaultOptions returns the standard display binning: 20 bins, bins with
// more than 20% anomalous events highlighted.
func DefaultOptions() Options {
	return Options{BinCount: 20, HighlightThreshold: 20.0}
}

// Bin partitions series into opts.BinCount equal-width bins covering
// [min, max] and attributes each event as normal or anomalous per the given
// set. Bins are closed-open except the last, which also includes max.
// Non-finite samples are excluded from binning and reported in
// Histogram.NonFiniteCount.
func Bin(series ev.MeasurementSeries, anomalies ev.AnomalySet, opts Options) (*ev.Histogram, error) {
	if opts.BinCount < 1 {
		return nil, errors.InvalidInput("bin count must be at least 1")
	}

	values := make([]float64, 0, len(series))
	indices := make([]int, 0, len(series))
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
		indices = append(indices, i)
	}
	nonFinite := len(series) - len(values)

	if len(values) == 0 {
		if opts.DemoFallback {
			h := demoHistogram(opts)
			h.NonFiniteCount = nonFinite
			return h, nil
		}
		return &ev.Histogram{Bins: []ev.HistogramBin{}, NonFiniteCount: nonFinite}, nil
	}

	minVal, err := stats.Min(values)
	if err != nil {
		return nil, errors.Wrap(err, "histogram min")
	}
	maxVal, err := stats.Max(values)
	if err != nil {
		return nil, errors.Wrap(err, "histogram max")
	}

	width := (maxVal - minVal) / float64(opts.BinCount)
	if width == 0 {
		// All samples equal: fall back to unit-width bins so the single
		// occupied bin still has a drawable extent.
		width = 1
	}

	bins := make([]ev.HistogramBin, opts.BinCount)
	for b := range bins {
		start := minVal + float64(b)*width
		bins[b].BinStart = start
		bins[b].BinEnd = start + width
		bins[b].BinCenter = start + width/2
	}

	for i, v := range values {
		b := int(math.Floor((v - minVal) / width))
		if b >= opts.BinCount {
			b = opts.BinCount - 1 // v == maxVal lands in the closed last bin
		}
		if anomalies.Contains(indices[i]) {
			bins[b].AnomalyCount++
		} else {
			bins[b].NormalCount++
		}
	}

	totalAnomalies := 0
	for b := range bins {
		finalizeBin(&bins[b], opts.HighlightThreshold)
		totalAnomalies += bins[b].AnomalyCount
	}

	h := &ev.Histogram{
		Bins:           bins,
		TotalEvents:    len(values),
		TotalAnomalies: totalAnomalies,
		NonFiniteCount: nonFinite,
	}
	if h.TotalEvents > 0 {
		h.AnomalyPercentage = 100 * float64(h.TotalAnomalies) / float64(h.TotalEvents)
	}
	return h, nil
}

func finalizeBin(bin *ev.HistogramBin, highlightThreshold float64) {
	bin.Count = bin.NormalCount + bin.AnomalyCount
	if bin.Count > 0 {
		bin.AnomalyPercentage = 100 * float64(bin.AnomalyCount) / float64(bin.Count)
	}
	bin.IsAnomalous = bin.AnomalyPercentage > highlightThreshold && bin.AnomalyCount > 0
}

// Demo shape parameters: a representative EV size distribution centered at
// 120nm with a sparse large-particle tail. No RNG: repeated calls must be
// bit-identical.
const (
	demoRangeMin  = 30.0
	demoRangeMax  = 330.0
	demoPeakNm    = 120.0
	demoSpreadNm  = 45.0
	demoPeakCount = 400.0
	demoTailStart = 250.0
	demoTailCount = 12
)

func demoHistogram(opts Options) *ev.Histogram {
	width := (demoRangeMax - demoRangeMin) / float64(opts.BinCount)
	bins := make([]ev.HistogramBin, opts.BinCount)
	totalEvents, totalAnomalies := 0, 0

	for b := range bins {
		start := demoRangeMin + float64(b)*width
		center := start + width/2
		z := (center - demoPeakNm) / demoSpreadNm
		normal := int(math.Round(demoPeakCount * math.Exp(-0.5*z*z)))
		anomalous := 0
		if center > demoTailStart {
			anomalous = demoTailCount
		}

		bins[b] = ev.HistogramBin{
			BinStart:     start,
			BinEnd:       start + width,
			BinCenter:    center,
			NormalCount:  normal,
			AnomalyCount: anomalous,
		}
		finalizeBin(&bins[b], opts.HighlightThreshold)
		totalEvents += bins[b].Count
		totalAnomalies += anomalous
	}

	h := &ev.Histogram{
		Bins:           bins,
		TotalEvents:    totalEvents,
		TotalAnomalies: totalAnomalies,
		Synthetic:      true,
	}
	if totalEvents > 0 {
		h.AnomalyPercentage = 100 * float64(totalAnomalies) / float64(totalEvents)
	}
	return h
}
