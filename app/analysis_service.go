// Package app wires the anomaly classifier, histogram binner, series
// profiler and compliance engine into analysis runs consumable by
// presentation layers.
package app

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domainCompliance "evcore/domain/compliance"
	"evcore/domain/ev"
	"evcore/internal"
	"evcore/internal/anomaly"
	"evcore/internal/compliance"
	"evcore/internal/config"
	"evcore/internal/histogram"
	"evcore/internal/profiling"
)

// AnalysisRun is the complete derived output for one measurement series.
// Runs are immutable once returned; repeated runs over identical inputs
// differ only in ID and timing.
type AnalysisRun struct {
	ID        string                  `json:"id"`
	Label     string                  `json:"label"`
	StartedAt time.Time               `json:"started_at"`
	Duration  time.Duration           `json:"duration"`
	Config    ev.AnomalyConfig        `json:"config"`
	Anomalies anomaly.Result          `json:"anomalies"`
	Histogram *ev.Histogram           `json:"histogram"`
	Profile   profiling.SeriesProfile `json:"profile"`
}

// AnalysisService runs the full classify → bin → profile pipeline and
// evaluates best-practice compliance. Safe for concurrent use: the service
// holds only immutable configuration and the static rule engine.
type AnalysisService struct {
	anomalyConfig ev.AnomalyConfig
	histOptions   histogram.Options
	engine        *compliance.Engine
	log           *internal.Logger
}

// NewAnalysisService creates a service from loaded configuration.
func NewAnalysisService(cfg *config.Config) *AnalysisService {
	return &AnalysisService{
		anomalyConfig: cfg.Anomaly,
		histOptions:   cfg.Histogram,
		engine:        compliance.NewEngine(),
		log:           internal.DefaultLogger,
	}
}

// Analyze classifies, bins and profiles one measurement series.
func (s *AnalysisService) Analyze(ctx context.Context, label string, series ev.MeasurementSeries) (*AnalysisRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := &AnalysisRun{
		ID:        uuid.New().String(),
		Label:     label,
		StartedAt: time.Now(),
		Config:    s.anomalyConfig,
	}

	result, err := anomaly.Classify(series, s.anomalyConfig)
	if err != nil {
		return nil, err
	}
	run.Anomalies = result

	hist, err := histogram.Bin(series, result.Set, s.histOptions)
	if err != nil {
		return nil, err
	}
	run.Histogram = hist
	run.Profile = profiling.Profile(series)
	run.Duration = time.Since(run.StartedAt)

	s.log.Debug("analysis %s (%s): %d events, %d anomalies (%.1f%%) in %s",
		run.ID, label, hist.TotalEvents, hist.TotalAnomalies, hist.AnomalyPercentage, run.Duration)
	return run, nil
}

// BatchAnalyze runs Analyze over multiple named series concurrently, one
// goroutine per series bounded by GOMAXPROCS. The first failure cancels the
// remaining work.
func (s *AnalysisService) BatchAnalyze(ctx context.Context, series map[string]ev.MeasurementSeries) (map[string]*AnalysisRun, error) {
	runs := make(map[string]*AnalysisRun, len(series))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for label, data := range series {
		label, data := label, data
		g.Go(func() error {
			run, err := s.Analyze(gctx, label, data)
			if err != nil {
				return err
			}
			mu.Lock()
			runs[label] = run
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// EvaluateCompliance checks an experiment record against the best-practice
// rule table.
func (s *AnalysisService) EvaluateCompliance(data domainCompliance.ExperimentData) domainCompliance.BestPracticesCheckResult {
	return s.engine.Evaluate(data)
}

// MergeRunStatistics fills the statistics-derived fields of an experiment
// record from an analysis run, without overwriting values the user already
// supplied. User metadata (concentrations, buffers) stays untouched.
func MergeRunStatistics(data domainCompliance.ExperimentData, run *AnalysisRun) domainCompliance.ExperimentData {
	p := run.Profile

	setIfNil := func(dst **float64, v float64) {
		if *dst == nil {
			value := v
			*dst = &value
		}
	}

	if p.SampleSize > 0 {
		setIfNil(&data.MedianSizeNm, p.D50)
		setIfNil(&data.D10Nm, p.D10)
		setIfNil(&data.D50Nm, p.D50)
		setIfNil(&data.D90Nm, p.D90)
		setIfNil(&data.SizeCVPercent, p.CVPercent)

		total := p.SampleSize + p.NonFiniteCount
		setIfNil(&data.TotalEvents, float64(total))
		if total > 0 {
			setIfNil(&data.ValidEventsPercent, 100*float64(p.SampleSize)/float64(total))
		}
	}
	if run.Histogram != nil && run.Histogram.TotalEvents > 0 && !run.Histogram.Synthetic {
		setIfNil(&data.AnomalyPercent, run.Histogram.AnomalyPercentage)
	}
	return data
}
