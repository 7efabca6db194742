package testkit

import (
	"math"
	"reflect"
	"testing"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultSeriesConfig()

	first := NewSeriesGenerator(cfg).Generate()
	second := NewSeriesGenerator(cfg).Generate()

	if !reflect.DeepEqual(first, second) {
		t.Error("Same seed must produce identical series")
	}
}

func TestGenerate_Layout(t *testing.T) {
	cfg := DefaultSeriesConfig()
	cfg.EventCount = 100
	cfg.Outliers = 5
	cfg.NonFinite = 2

	gen := NewSeriesGenerator(cfg)
	series := gen.Generate()

	if len(series) != 107 {
		t.Fatalf("Expected 107 samples, got %d", len(series))
	}

	for _, idx := range gen.OutlierIndices() {
		if series[idx] < cfg.OutlierNm/2 {
			t.Errorf("Expected index %d in the outlier tail, got %g", idx, series[idx])
		}
	}
	for i := 105; i < 107; i++ {
		if !math.IsNaN(series[i]) {
			t.Errorf("Expected NaN at trailing index %d, got %g", i, series[i])
		}
	}
}

func TestGenerate_BodyAroundMedian(t *testing.T) {
	cfg := DefaultSeriesConfig()
	gen := NewSeriesGenerator(cfg)
	series := gen.Generate()

	below, above := 0, 0
	for i := 0; i < cfg.EventCount; i++ {
		if series[i] < cfg.MedianNm {
			below++
		} else {
			above++
		}
	}

	// Lognormal body: roughly half the samples on each side of the median.
	ratio := float64(below) / float64(cfg.EventCount)
	if ratio < 0.4 || ratio > 0.6 {
		t.Errorf("Expected ~50%% of body samples below the median, got %.0f%%", ratio*100)
	}
}
