package profiling

import (
	"math"
	"testing"

	"evcore/domain/ev"
	"evcore/internal/testkit"
)

func TestProfile_KnownSeries(t *testing.T) {
	series := ev.MeasurementSeries{10, 12, 11, 13, 12, 11, 50}

	p := Profile(series)

	if p.SampleSize != 7 {
		t.Fatalf("Expected 7 samples, got %d", p.SampleSize)
	}
	if math.Abs(p.Mean-17) > 1e-9 {
		t.Errorf("Expected mean 17, got %g", p.Mean)
	}
	if math.Abs(p.Median-12) > 1e-9 {
		t.Errorf("Expected median 12, got %g", p.Median)
	}
	if math.Abs(p.Q1-11) > 1e-9 || math.Abs(p.Q3-12.5) > 1e-9 {
		t.Errorf("Expected quartiles 11/12.5, got %g/%g", p.Q1, p.Q3)
	}
	if p.Min != 10 || p.Max != 50 {
		t.Errorf("Expected min/max 10/50, got %g/%g", p.Min, p.Max)
	}
	if p.D50 != p.Median {
		t.Errorf("D50 %g should equal median %g", p.D50, p.Median)
	}
	if p.CVPercent <= 0 {
		t.Errorf("Expected positive CV for spread data, got %g", p.CVPercent)
	}
	if p.Skewness <= 0 {
		t.Errorf("Right-tailed series should have positive skewness, got %g", p.Skewness)
	}
}

func TestProfile_EmptySeries(t *testing.T) {
	p := Profile(ev.MeasurementSeries{})
	if p.SampleSize != 0 {
		t.Errorf("Expected zero sample size, got %d", p.SampleSize)
	}
	if p.Mean != 0 || p.StdDev != 0 || p.CVPercent != 0 {
		t.Errorf("Empty profile should be neutral, got %+v", p)
	}
}

func TestProfile_NonFiniteExcluded(t *testing.T) {
	series := ev.MeasurementSeries{100, math.NaN(), 110, math.Inf(1), 120}

	p := Profile(series)

	if p.SampleSize != 3 {
		t.Errorf("Expected 3 finite samples, got %d", p.SampleSize)
	}
	if p.NonFiniteCount != 2 {
		t.Errorf("Expected 2 non-finite samples, got %d", p.NonFiniteCount)
	}
	if math.Abs(p.Mean-110) > 1e-9 {
		t.Errorf("Expected mean 110 over finite samples, got %g", p.Mean)
	}
	if math.IsNaN(p.StdDev) || math.IsNaN(p.Skewness) {
		t.Error("Profile must not propagate NaN")
	}
}

func TestProfile_ConstantSeries(t *testing.T) {
	p := Profile(ev.MeasurementSeries{42, 42, 42, 42})

	if p.StdDev != 0 {
		t.Errorf("Expected zero stddev, got %g", p.StdDev)
	}
	if p.CVPercent != 0 {
		t.Errorf("Expected zero CV, got %g", p.CVPercent)
	}
	if p.Skewness != 0 {
		t.Errorf("Constant series skewness should stay neutral, got %g", p.Skewness)
	}
}

// TestProfile_SyntheticDistribution sanity-checks percentile ordering and
// plausibility on a realistic lognormal EV distribution.
func TestProfile_SyntheticDistribution(t *testing.T) {
	gen := testkit.NewSeriesGenerator(testkit.DefaultSeriesConfig())
	p := Profile(gen.Generate())

	if !(p.D10 < p.D50 && p.D50 < p.D90) {
		t.Errorf("Expected D10 < D50 < D90, got %g/%g/%g", p.D10, p.D50, p.D90)
	}
	// Lognormal body has geometric median 110nm; the small outlier tail
	// shifts percentiles only slightly.
	if p.D50 < 90 || p.D50 > 130 {
		t.Errorf("Expected D50 near 110nm, got %g", p.D50)
	}
	if p.NormalityP < 0 || p.NormalityP > 1 {
		t.Errorf("Normality p-value out of range: %g", p.NormalityP)
	}
}
