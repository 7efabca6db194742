package compliance

import (
	"math"

	"evcore/domain/compliance"
)

// extractor resolves the value a rule checks from an experiment record.
// The second return is false when the record lacks the field(s) the rule
// needs, in which case the rule is skipped.
type extractor func(compliance.ExperimentData) (float64, bool)

func opt(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// fieldResolvers maps rule ID to its extraction function. A typed table
// instead of string-keyed reflection: every rule in DefaultRules must have
// an entry here, enforced by TestDefaultRulesHaveResolvers. Derived rules
// (size spread, cross-platform difference) are extractors too, with
// zero-denominator guards reported as "absent".
var fieldResolvers = map[string]extractor{
	"ab-001":   func(d compliance.ExperimentData) (float64, bool) { return opt(d.AntibodyConcentration) },
	"prep-001": func(d compliance.ExperimentData) (float64, bool) { return opt(d.DilutionFactor) },
	"prep-002": func(d compliance.ExperimentData) (float64, bool) { return opt(d.IncubationTimeMin) },
	"prep-003": func(d compliance.ExperimentData) (float64, bool) { return opt(d.TemperatureC) },
	"prep-004": func(d compliance.ExperimentData) (float64, bool) { return opt(d.PH) },
	"size-001": func(d compliance.ExperimentData) (float64, bool) {
		// Median size with D50 fallback: NTA reports median directly,
		// FCS pipelines often only carry percentiles.
		if v, ok := opt(d.MedianSizeNm); ok {
			return v, true
		}
		return opt(d.D50Nm)
	},
	"size-002": func(d compliance.ExperimentData) (float64, bool) {
		d10, ok1 := opt(d.D10Nm)
		d90, ok2 := opt(d.D90Nm)
		if !ok1 || !ok2 {
			return 0, false
		}
		return d90 - d10, true
	},
	"size-003": func(d compliance.ExperimentData) (float64, bool) { return opt(d.SizeCVPercent) },
	"qc-001":   func(d compliance.ExperimentData) (float64, bool) { return opt(d.TotalEvents) },
	"qc-002":   func(d compliance.ExperimentData) (float64, bool) { return opt(d.ValidEventsPercent) },
	"qc-003":   func(d compliance.ExperimentData) (float64, bool) { return opt(d.AnomalyPercent) },
	"compare-001": func(d compliance.ExperimentData) (float64, bool) {
		fcs, ok1 := opt(d.FCSMedianNm)
		nta, ok2 := opt(d.NTAMedianNm)
		if !ok1 || !ok2 {
			return 0, false
		}
		mean := (fcs + nta) / 2
		if mean == 0 {
			// Both medians zero: the symmetric difference is undefined,
			// skip rather than propagate Inf into the score.
			return 0, false
		}
		return 100 * math.Abs(fcs-nta) / mean, true
	},
}
