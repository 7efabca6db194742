package excel

import (
	"evcore/domain/ev"
	"evcore/internal/errors"
)

// MeasurementFile is one parsed tabular export: named numeric columns plus
// parse bookkeeping.
type MeasurementFile struct {
	Headers      []string             `json:"headers"`
	Columns      map[string][]float64 `json:"columns"`
	Rows         int                  `json:"rows"`
	SkippedCells int                  `json:"skipped_cells"`
}

// Series returns the named column as a measurement series.
func (m *MeasurementFile) Series(column string) (ev.MeasurementSeries, error) {
	values, ok := m.Columns[column]
	if !ok {
		return nil, errors.NotFound("column " + column)
	}
	return ev.MeasurementSeries(values), nil
}

// FirstSeries returns the first header that parsed any numeric values,
// for single-column exports where callers don't name a column.
func (m *MeasurementFile) FirstSeries() (string, ev.MeasurementSeries, error) {
	for _, h := range m.Headers {
		if values, ok := m.Columns[h]; ok && len(values) > 0 {
			return h, ev.MeasurementSeries(values), nil
		}
	}
	return "", nil, errors.DataFormat("no numeric columns in file")
}
