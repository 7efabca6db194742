package compliance

import "evcore/domain/compliance"

func fp(v float64) *float64 { return &v }

// DefaultRules returns the static best-practice rule table for EV
// characterization experiments. The table is configuration data: loaded
// once and never mutated at runtime. Order matters — recommendations are
// emitted in table order.
func DefaultRules() []compliance.BestPracticeRule {
	return []compliance.BestPracticeRule{
		{
			ID:             "ab-001",
			Category:       "antibody",
			CheckType:      compliance.CheckRange,
			MinValue:       fp(0.1),
			MaxValue:       fp(50),
			OptimalMin:     fp(1),
			OptimalMax:     fp(10),
			Unit:           "µg/mL",
			Severity:       compliance.SeverityWarning,
			WarningMessage: "Antibody concentration outside recommended working range",
			Recommendation: "Titrate antibody between 1-10 µg/mL; excess antibody raises background and aggregate formation",
			Reference:      "MIFlowCyt-EV framework",
		},
		{
			ID:             "prep-001",
			Category:       "sample-prep",
			CheckType:      compliance.CheckRange,
			MinValue:       fp(2),
			MaxValue:       fp(10000),
			OptimalMin:     fp(10),
			OptimalMax:     fp(1000),
			Severity:       compliance.SeverityWarning,
			WarningMessage: "Dilution factor outside validated range",
			Recommendation: "Dilute samples so event rates stay in the instrument's linear range; serial dilution controls detect swarm effects",
			Reference:      "MISEV2018 guidelines",
		},
		{
			ID:             "prep-002",
			Category:       "sample-prep",
			CheckType:      compliance.CheckRange,
			MinValue:       fp(10),
			MaxValue:       fp(120),
			OptimalMin:     fp(20),
			OptimalMax:     fp(60),
			Unit:           "min",
			Severity:       compliance.SeverityInfo,
			WarningMessage: "Incubation time outside typical staining window",
			Recommendation: "Incubate 20-60 minutes; shorter incubations under-stain, longer ones increase non-specific binding",
		},
		{
			ID:             "prep-003",
			Category:       "sample-prep",
			CheckType:      compliance.CheckRange,
			MinValue:       fp(2),
			MaxValue:       fp(40),
			OptimalMin:     fp(18),
			OptimalMax:     fp(25),
			Unit:           "°C",
			Severity:       compliance.SeverityWarning,
			WarningMessage: "Staining temperature outside supported range",
			Recommendation: "Stain at room temperature (18-25°C) unless the antibody datasheet specifies otherwise",
		},
		{
			ID:             "prep-004",
			Category:       "sample-prep",
			CheckType:      compliance.CheckRange,
			MinValue:       fp(6.8),
			MaxValue:       fp(7.8),
			OptimalMin:     fp(7.2),
			OptimalMax:     fp(7.6),
			Severity:       compliance.SeverityWarning,
			WarningMessage: "Buffer pH outside physiological range",
			Recommendation: "Use pH 7.2-7.6 buffer; EV membrane integrity and antibody affinity degrade outside physiological pH",
		},
		{
			ID:             "size-001",
			Category:       "size-distribution",
			CheckType:      compliance.CheckRange,
			MinValue:       fp(30),
			MaxValue:       fp(500),
			OptimalMin:     fp(50),
			OptimalMax:     fp(200),
			Unit:           "nm",
			Severity:       compliance.SeverityError,
			WarningMessage: "Median particle size outside expected EV range",
			Recommendation: "Verify calibration and gating: median sizes outside 30-500nm suggest aggregates, debris or calibration drift",
			Reference:      "MISEV2018 guidelines",
		},
		{
			ID:             "size-002",
			Category:       "size-distribution",
			CheckType:      compliance.CheckThreshold,
			Threshold:      fp(400),
			Comparison:     compliance.ComparisonLess,
			Unit:           "nm",
			Severity:       compliance.SeverityWarning,
			WarningMessage: "Size distribution spread (D90-D10) is very wide",
			Recommendation: "A wide D90-D10 spread indicates a heterogeneous or aggregated sample; consider size-exclusion cleanup",
		},
		{
			ID:             "size-003",
			Category:       "size-distribution",
			CheckType:      compliance.CheckThreshold,
			Threshold:      fp(50),
			Comparison:     compliance.ComparisonLess,
			Unit:           "%",
			Severity:       compliance.SeverityWarning,
			WarningMessage: "Size coefficient of variation is high",
			Recommendation: "CV above 50% usually means mixed populations or noise events; review gating and buffer-only controls",
		},
		{
			ID:             "qc-001",
			Category:       "quality-control",
			CheckType:      compliance.CheckThreshold,
			Threshold:      fp(1000),
			Comparison:     compliance.ComparisonGreater,
			Severity:       compliance.SeverityError,
			WarningMessage: "Too few events acquired for reliable statistics",
			Recommendation: "Acquire at least 1000 events; small-N size statistics are unstable and percentiles unreliable",
		},
		{
			ID:             "qc-002",
			Category:       "quality-control",
			CheckType:      compliance.CheckThreshold,
			Threshold:      fp(50),
			Comparison:     compliance.ComparisonGreater,
			Unit:           "%",
			Severity:       compliance.SeverityWarning,
			WarningMessage: "Low fraction of valid events",
			Recommendation: "More than half of acquired events were rejected; check for coincident particles, air bubbles or carryover",
		},
		{
			ID:             "qc-003",
			Category:       "quality-control",
			CheckType:      compliance.CheckThreshold,
			Threshold:      fp(15),
			Comparison:     compliance.ComparisonLess,
			Unit:           "%",
			Severity:       compliance.SeverityWarning,
			WarningMessage: "High proportion of statistically anomalous events",
			Recommendation: "Anomaly rates above 15% point to aggregates or instrument noise; inspect the flagged events before trusting summaries",
		},
		{
			ID:             "compare-001",
			Category:       "cross-platform",
			CheckType:      compliance.CheckThreshold,
			Threshold:      fp(30),
			Comparison:     compliance.ComparisonLess,
			Unit:           "%",
			Severity:       compliance.SeverityWarning,
			WarningMessage: "FCS and NTA median sizes disagree",
			Recommendation: "A large FCS/NTA median discrepancy suggests a platform-specific bias; re-check Mie model parameters and NTA camera level",
			Reference:      "MISEV2018 guidelines",
		},
	}
}
