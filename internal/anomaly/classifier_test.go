package anomaly

import (
	"math"
	"reflect"
	"testing"

	"evcore/domain/ev"
)

func zscoreConfig(threshold float64) ev.AnomalyConfig {
	cfg := ev.DefaultAnomalyConfig()
	cfg.Method = ev.MethodZScore
	cfg.ZScoreThreshold = threshold
	return cfg
}

func iqrConfig(factor float64) ev.AnomalyConfig {
	cfg := ev.DefaultAnomalyConfig()
	cfg.Method = ev.MethodIQR
	cfg.IQRFactor = factor
	return cfg
}

// TestClassify_ZScoreOutlier verifies the canonical single-outlier case:
// only the value 100 lies more than 2 sigmas from the mean.
func TestClassify_ZScoreOutlier(t *testing.T) {
	series := ev.MeasurementSeries{1, 2, 3, 4, 5, 100}

	res, err := Classify(series, zscoreConfig(2.0))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if got := res.Set.Indices(); !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("Expected anomaly set {5}, got %v", got)
	}
}

// TestClassify_IQRFences verifies Tukey fencing with linear-interpolation
// quartiles: Q1=11, Q3=12.5, upper fence 14.75, so only 50 is flagged.
func TestClassify_IQRFences(t *testing.T) {
	series := ev.MeasurementSeries{10, 12, 11, 13, 12, 11, 50}

	res, err := Classify(series, iqrConfig(1.5))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if got := res.Set.Indices(); !reflect.DeepEqual(got, []int{6}) {
		t.Errorf("Expected anomaly set {6}, got %v", got)
	}
}

// TestClassify_BothIsUnion verifies method=both equals the union of the two
// sub-methods computed independently.
func TestClassify_BothIsUnion(t *testing.T) {
	series := ev.MeasurementSeries{10, 12, 11, 13, 12, 11, 50, 9, 14, 11, 12, 300}

	z, err := Classify(series, zscoreConfig(2.0))
	if err != nil {
		t.Fatalf("zscore Classify failed: %v", err)
	}
	iqr, err := Classify(series, iqrConfig(1.5))
	if err != nil {
		t.Fatalf("iqr Classify failed: %v", err)
	}

	cfg := ev.DefaultAnomalyConfig()
	cfg.Method = ev.MethodBoth
	cfg.ZScoreThreshold = 2.0
	cfg.IQRFactor = 1.5
	both, err := Classify(series, cfg)
	if err != nil {
		t.Fatalf("both Classify failed: %v", err)
	}

	want := z.Set.Union(iqr.Set)
	if !reflect.DeepEqual(both.Set.Indices(), want.Indices()) {
		t.Errorf("Expected union %v, got %v", want.Indices(), both.Set.Indices())
	}
	if both.Set.Len() == 0 {
		t.Error("Expected at least one anomaly in union test data")
	}
}

func TestClassify_Disabled(t *testing.T) {
	cfg := zscoreConfig(2.0)
	cfg.Enabled = false

	res, err := Classify(ev.MeasurementSeries{1, 2, 3, 100}, cfg)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Set.Len() != 0 {
		t.Errorf("Disabled detection should flag nothing, got %v", res.Set.Indices())
	}
}

func TestClassify_EmptySeries(t *testing.T) {
	res, err := Classify(ev.MeasurementSeries{}, zscoreConfig(2.0))
	if err != nil {
		t.Fatalf("Empty series should not error: %v", err)
	}
	if res.Set.Len() != 0 {
		t.Errorf("Empty series should yield empty set, got %v", res.Set.Indices())
	}
}

// TestClassify_ZeroVariance: sigma = 0 flags nothing rather than dividing
// by zero.
func TestClassify_ZeroVariance(t *testing.T) {
	res, err := Classify(ev.MeasurementSeries{7, 7, 7, 7, 7}, zscoreConfig(2.0))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Set.Len() != 0 {
		t.Errorf("Zero-variance series should flag nothing, got %v", res.Set.Indices())
	}
}

// TestClassify_AllEqualIQR: IQR = 0 means the fences collapse onto the
// single value; nothing is outside them.
func TestClassify_AllEqualIQR(t *testing.T) {
	res, err := Classify(ev.MeasurementSeries{3, 3, 3, 3}, iqrConfig(1.5))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Set.Len() != 0 {
		t.Errorf("All-equal series should flag nothing, got %v", res.Set.Indices())
	}
}

// TestClassify_NonFiniteExcluded verifies NaN/Inf samples neither distort
// the statistics nor get flagged themselves.
func TestClassify_NonFiniteExcluded(t *testing.T) {
	series := ev.MeasurementSeries{1, 2, math.NaN(), 3, 4, 5, 100, math.Inf(1)}

	res, err := Classify(series, zscoreConfig(2.0))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if res.NonFiniteCount != 2 {
		t.Errorf("Expected 2 non-finite samples, got %d", res.NonFiniteCount)
	}
	if got := res.Set.Indices(); !reflect.DeepEqual(got, []int{6}) {
		t.Errorf("Expected only the 100 at index 6 flagged, got %v", got)
	}
}

func TestClassify_InvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ev.AnomalyConfig)
	}{
		{"zero zscore threshold", func(c *ev.AnomalyConfig) { c.ZScoreThreshold = 0 }},
		{"negative iqr factor", func(c *ev.AnomalyConfig) { c.IQRFactor = -1 }},
		{"unknown method", func(c *ev.AnomalyConfig) { c.Method = "mad" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ev.DefaultAnomalyConfig()
			tc.mutate(&cfg)
			if _, err := Classify(ev.MeasurementSeries{1, 2, 3}, cfg); err == nil {
				t.Error("Expected config validation error")
			}
		})
	}
}

// TestClassify_Idempotent: same inputs, identical output.
func TestClassify_Idempotent(t *testing.T) {
	series := ev.MeasurementSeries{10, 12, 11, 13, 12, 11, 50}
	cfg := ev.DefaultAnomalyConfig()

	first, err := Classify(series, cfg)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	second, err := Classify(series, cfg)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Repeated classification differs: %v vs %v", first, second)
	}
}

func TestPercentileLinear(t *testing.T) {
	data := []float64{10, 12, 11, 13, 12, 11, 50}

	if q1 := PercentileLinear(data, 25); math.Abs(q1-11) > 1e-9 {
		t.Errorf("Expected Q1 = 11, got %g", q1)
	}
	if q3 := PercentileLinear(data, 75); math.Abs(q3-12.5) > 1e-9 {
		t.Errorf("Expected Q3 = 12.5, got %g", q3)
	}
	if med := PercentileLinear(data, 50); math.Abs(med-12) > 1e-9 {
		t.Errorf("Expected median = 12, got %g", med)
	}
	if single := PercentileLinear([]float64{42}, 90); single != 42 {
		t.Errorf("Single-element percentile should return the element, got %g", single)
	}
}
