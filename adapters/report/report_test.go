package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"evcore/app"
	domainCompliance "evcore/domain/compliance"
	"evcore/domain/ev"
	"evcore/internal/compliance"
	"evcore/internal/config"
	"evcore/internal/histogram"
	"evcore/internal/testkit"
)

func buildReport(t *testing.T) Report {
	t.Helper()

	service := app.NewAnalysisService(&config.Config{
		Anomaly:   ev.DefaultAnomalyConfig(),
		Histogram: histogram.DefaultOptions(),
	})
	gen := testkit.NewSeriesGenerator(testkit.DefaultSeriesConfig())
	run, err := service.Analyze(context.Background(), "sizes", gen.Generate())
	require.NoError(t, err)

	median := 600.0
	check := compliance.NewEngine().Evaluate(domainCompliance.ExperimentData{MedianSizeNm: &median})

	return Report{
		RunID:     run.ID,
		Source:    "sizes.csv",
		Histogram: run.Histogram,
		Profile:   &run.Profile,
		Check:     &check,
	}
}

func TestMarkdown(t *testing.T) {
	r := buildReport(t)
	md := Markdown(r)

	assert.Contains(t, md, "# EV Analysis Report")
	assert.Contains(t, md, r.RunID)
	assert.Contains(t, md, "## Size Distribution")
	assert.Contains(t, md, "## Best-Practice Compliance")
	assert.Contains(t, md, "Score: 92/100")
	assert.Contains(t, md, "size-001")
}

func TestHTML(t *testing.T) {
	out := string(HTML(buildReport(t)))

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "EV Analysis Report")
	assert.Contains(t, out, "<table")
}

func TestWriteExcel(t *testing.T) {
	r := buildReport(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, WriteExcel(r, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Histogram", "Compliance"}, f.GetSheetList())

	runID, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, r.RunID, runID)

	histRows, err := f.GetRows("Histogram")
	require.NoError(t, err)
	assert.Len(t, histRows, len(r.Histogram.Bins)+1, "header plus one row per bin")
}

func TestWriteHistogramCSV(t *testing.T) {
	r := buildReport(t)
	var buf bytes.Buffer

	require.NoError(t, WriteHistogramCSV(r.Histogram, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(r.Histogram.Bins)+1)
	assert.Equal(t, "bin_start", rows[0][0])
}

func TestWriteViolationsCSV(t *testing.T) {
	r := buildReport(t)
	var buf bytes.Buffer

	require.NoError(t, WriteViolationsCSV(r.Check, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "rule_id,"))
	assert.Contains(t, out, "size-001")
	assert.Contains(t, out, "above maximum")
}
