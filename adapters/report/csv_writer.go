package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"evcore/domain/compliance"
	"evcore/domain/ev"
	"evcore/internal/errors"
)

// WriteHistogramCSV writes per-bin rows suitable for spreadsheet import.
func WriteHistogramCSV(h *ev.Histogram, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"bin_start", "bin_end", "bin_center", "count", "normal_count",
		"anomaly_count", "anomaly_percentage", "is_anomalous",
	}); err != nil {
		return errors.Wrap(err, "write histogram header")
	}

	for _, bin := range h.Bins {
		row := []string{
			formatFloat(bin.BinStart),
			formatFloat(bin.BinEnd),
			formatFloat(bin.BinCenter),
			strconv.Itoa(bin.Count),
			strconv.Itoa(bin.NormalCount),
			strconv.Itoa(bin.AnomalyCount),
			formatFloat(bin.AnomalyPercentage),
			strconv.FormatBool(bin.IsAnomalous),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write histogram row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush histogram csv")
}

// WriteViolationsCSV writes one row per best-practice violation.
func WriteViolationsCSV(check *compliance.BestPracticesCheckResult, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"rule_id", "category", "severity", "actual_value", "message", "recommendation",
	}); err != nil {
		return errors.Wrap(err, "write violations header")
	}

	for _, v := range check.Violations {
		row := []string{
			v.Rule.ID,
			v.Rule.Category,
			string(v.Severity),
			formatFloat(v.ActualValue),
			v.Message,
			v.Recommendation,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write violation row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush violations csv")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
