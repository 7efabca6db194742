// Package compliance evaluates experiment metadata and summary statistics
// against a declarative table of EV best-practice rules, producing a 0-100
// compliance score, violations and actionable recommendations.
package compliance

import (
	"fmt"
	"math"

	"evcore/domain/compliance"
)

// Engine evaluates a fixed rule table against experiment records.
// Evaluation is total: absent fields skip their rule and malformed derived
// values are guarded, so Evaluate never fails for well-formed records.
type Engine struct {
	rules []compliance.BestPracticeRule
}

// NewEngine creates an engine over the default EV best-practice rule table.
func NewEngine() *Engine {
	return &Engine{rules: DefaultRules()}
}

// NewEngineWithRules creates an engine over a caller-supplied rule table.
func NewEngineWithRules(rules []compliance.BestPracticeRule) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the engine's rule table.
func (e *Engine) Rules() []compliance.BestPracticeRule {
	return e.rules
}

// Evaluate checks every rule in table order against data.
// Skipped rules (missing data) count as passed in the score — the
// historical scoring contract — but are reported separately in
// Evaluated/Skipped so incomplete records are visible.
func (e *Engine) Evaluate(data compliance.ExperimentData) compliance.BestPracticesCheckResult {
	result := compliance.BestPracticesCheckResult{
		TotalRules:      len(e.rules),
		Violations:      []compliance.BestPracticeViolation{},
		Recommendations: []string{},
	}

	for _, rule := range e.rules {
		resolve, ok := fieldResolvers[rule.ID]
		if !ok {
			result.Skipped++
			result.Passed++
			continue
		}
		value, present := resolve(data)
		if !present {
			result.Skipped++
			result.Passed++
			continue
		}

		result.Evaluated++

		message, violated := checkRule(rule, value)
		if !violated {
			result.Passed++
			continue
		}

		result.Violations = append(result.Violations, compliance.BestPracticeViolation{
			Rule:           rule,
			ActualValue:    value,
			Severity:       rule.Severity,
			Message:        message,
			Recommendation: rule.Recommendation,
		})
		switch rule.Severity {
		case compliance.SeverityWarning:
			result.Warnings++
		case compliance.SeverityError:
			result.Errors++
		}
		if rule.Severity != compliance.SeverityInfo {
			result.Recommendations = append(result.Recommendations, rule.Recommendation)
		}
	}

	if result.TotalRules > 0 {
		result.Score = int(math.Round(100 * float64(result.Passed) / float64(result.TotalRules)))
	}
	return result
}

// checkRule applies one rule to its resolved value. At most one message is
// produced: hard bounds are checked before the optimal band.
func checkRule(rule compliance.BestPracticeRule, value float64) (string, bool) {
	switch rule.CheckType {
	case compliance.CheckRange:
		return checkRange(rule, value)
	case compliance.CheckThreshold:
		return checkThreshold(rule, value)
	}
	return "", false
}

func checkRange(rule compliance.BestPracticeRule, value float64) (string, bool) {
	if rule.MinValue != nil && value < *rule.MinValue {
		return fmt.Sprintf("%s: %g%s is below minimum (%g%s)",
			rule.WarningMessage, value, rule.Unit, *rule.MinValue, rule.Unit), true
	}
	if rule.MaxValue != nil && value > *rule.MaxValue {
		return fmt.Sprintf("%s: %g%s is above maximum (%g%s)",
			rule.WarningMessage, value, rule.Unit, *rule.MaxValue, rule.Unit), true
	}
	if rule.OptimalMin != nil && rule.OptimalMax != nil &&
		(value < *rule.OptimalMin || value > *rule.OptimalMax) {
		return fmt.Sprintf("%s: %g%s is outside optimal range (%g-%g%s)",
			rule.WarningMessage, value, rule.Unit, *rule.OptimalMin, *rule.OptimalMax, rule.Unit), true
	}
	return "", false
}

func checkThreshold(rule compliance.BestPracticeRule, value float64) (string, bool) {
	if rule.Threshold == nil {
		return "", false
	}
	switch rule.Comparison {
	case compliance.ComparisonLess:
		if value >= *rule.Threshold {
			return fmt.Sprintf("%s: %g%s is at or above threshold (%g%s)",
				rule.WarningMessage, value, rule.Unit, *rule.Threshold, rule.Unit), true
		}
	case compliance.ComparisonGreater:
		if value <= *rule.Threshold {
			return fmt.Sprintf("%s: %g%s is at or below threshold (%g%s)",
				rule.WarningMessage, value, rule.Unit, *rule.Threshold, rule.Unit), true
		}
	}
	return "", false
}
