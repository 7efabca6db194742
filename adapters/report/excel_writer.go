// Package report exports analysis and compliance results as XLSX workbooks,
// CSV tables and markdown/HTML summaries for presentation layers.
package report

import (
	"github.com/xuri/excelize/v2"

	"evcore/domain/compliance"
	"evcore/domain/ev"
	"evcore/internal/errors"
	"evcore/internal/profiling"
)

// Report bundles the artifacts of one analysis run for export.
type Report struct {
	RunID     string
	Source    string
	Histogram *ev.Histogram
	Profile   *profiling.SeriesProfile
	Check     *compliance.BestPracticesCheckResult
}

// WriteExcel writes the report as an XLSX workbook with Summary, Histogram
// and Compliance sheets. Nil sections are omitted.
func WriteExcel(r Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, r); err != nil {
		return err
	}
	if r.Histogram != nil {
		if err := writeHistogramSheet(f, r.Histogram); err != nil {
			return err
		}
	}
	if r.Check != nil {
		if err := writeComplianceSheet(f, r.Check); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save report to %s", path)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r Report) error {
	const sheet = "Summary"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrap(err, "rename summary sheet")
	}

	rows := [][]interface{}{
		{"Run ID", r.RunID},
		{"Source", r.Source},
	}
	if r.Profile != nil {
		rows = append(rows,
			[]interface{}{"Events", r.Profile.SampleSize},
			[]interface{}{"Non-finite events", r.Profile.NonFiniteCount},
			[]interface{}{"Mean (nm)", r.Profile.Mean},
			[]interface{}{"Std dev (nm)", r.Profile.StdDev},
			[]interface{}{"Median / D50 (nm)", r.Profile.D50},
			[]interface{}{"D10 (nm)", r.Profile.D10},
			[]interface{}{"D90 (nm)", r.Profile.D90},
			[]interface{}{"CV (%)", r.Profile.CVPercent},
			[]interface{}{"Skewness", r.Profile.Skewness},
			[]interface{}{"Kurtosis", r.Profile.Kurtosis},
		)
	}
	if r.Histogram != nil {
		rows = append(rows,
			[]interface{}{"Total anomalies", r.Histogram.TotalAnomalies},
			[]interface{}{"Anomaly (%)", r.Histogram.AnomalyPercentage},
		)
	}
	if r.Check != nil {
		rows = append(rows,
			[]interface{}{"Compliance score", r.Check.Score},
			[]interface{}{"Rules evaluated", r.Check.Evaluated},
			[]interface{}{"Rules skipped", r.Check.Skipped},
		)
	}
	return writeRows(f, sheet, rows)
}

func writeHistogramSheet(f *excelize.File, h *ev.Histogram) error {
	const sheet = "Histogram"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "create histogram sheet")
	}

	rows := [][]interface{}{
		{"Bin Start", "Bin End", "Bin Center", "Count", "Normal", "Anomalous", "Anomaly %", "Hot"},
	}
	for _, bin := range h.Bins {
		rows = append(rows, []interface{}{
			bin.BinStart, bin.BinEnd, bin.BinCenter,
			bin.Count, bin.NormalCount, bin.AnomalyCount,
			bin.AnomalyPercentage, bin.IsAnomalous,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeComplianceSheet(f *excelize.File, check *compliance.BestPracticesCheckResult) error {
	const sheet = "Compliance"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "create compliance sheet")
	}

	rows := [][]interface{}{
		{"Score", check.Score},
		{"Passed", check.Passed},
		{"Warnings", check.Warnings},
		{"Errors", check.Errors},
		{},
		{"Rule", "Category", "Severity", "Actual", "Message", "Recommendation"},
	}
	for _, v := range check.Violations {
		rows = append(rows, []interface{}{
			v.Rule.ID, v.Rule.Category, string(v.Severity),
			v.ActualValue, v.Message, v.Recommendation,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for rowIdx, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.Wrapf(err, "failed to write %s!%s", sheet, cell)
			}
		}
	}
	return nil
}
