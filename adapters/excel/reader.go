// Package excel reads per-event measurement columns from CSV and XLSX files
// exported by acquisition software. Raw instrument binary formats stay with
// the upstream analysis backend; this adapter only handles tabular exports.
package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"evcore/internal"
	"evcore/internal/errors"
)

// DataReader reads measurement tables from Excel and CSV files.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a reader for filePath, dispatching on extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, log: internal.DefaultLogger}
}

// ReadData reads the file into a MeasurementFile.
func (r *DataReader) ReadData() (*MeasurementFile, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, errors.DataFormat("unsupported file type: " + r.fileType)
	}
}

func (r *DataReader) readExcel() (*MeasurementFile, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read first sheet")
	}
	return r.processRows(rows)
}

func (r *DataReader) readCSV() (*MeasurementFile, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return r.processRows(rows)
}

// processRows parses a header row plus data rows into named numeric columns.
// Non-numeric cells are skipped and counted, not errors: exports routinely
// carry annotation columns and blank trailing cells.
func (r *DataReader) processRows(rows [][]string) (*MeasurementFile, error) {
	if len(rows) < 2 {
		return nil, errors.DataFormat("file must have a header row and at least one data row")
	}

	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	mf := &MeasurementFile{
		Headers: headers,
		Columns: make(map[string][]float64, len(headers)),
	}

	for _, row := range rows[1:] {
		mf.Rows++
		for c, header := range headers {
			if c >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				mf.SkippedCells++
				continue
			}
			mf.Columns[header] = append(mf.Columns[header], v)
		}
	}

	r.log.Debug("read %s: %d rows, %d columns, %d skipped cells",
		r.filePath, mf.Rows, len(mf.Headers), mf.SkippedCells)
	return mf, nil
}
