package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"crosstab/domain/dataset"
	"crosstab/internal"
	"crosstab/internal/errors"
)

// DataReader loads a tabular file (CSV or XLSX) into an in-memory Dataset.
// The first row supplies column names; cell values stay raw strings and
// missing cells become the missing sentinel.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for CSV and Excel files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" || ext == ".tsv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a Dataset
func (r *DataReader) Read() (*dataset.Dataset, error) {
	internal.DefaultLogger.Info("[DataReader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		f, err := os.Open(r.filePath)
		if err != nil {
			return nil, errors.IOError("failed to open CSV file", err)
		}
		defer f.Close()
		delimiter := ','
		if strings.HasSuffix(strings.ToLower(r.filePath), ".tsv") {
			delimiter = '\t'
		}
		return ReadCSV(f, delimiter)
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// ReadCSV parses delimited data from any reader into a Dataset
func ReadCSV(src io.Reader, delimiter rune) (*dataset.Dataset, error) {
	reader := csv.NewReader(src)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV data: %w", err)
	}
	return fromRows(rows)
}

func (r *DataReader) readExcel() (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets: %s", r.filePath)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("input data is empty")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	records := make([]dataset.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(dataset.Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = dataset.Missing
			}
		}
		records = append(records, rec)
	}

	internal.DefaultLogger.Debug("[DataReader] Loaded %d columns, %d records", len(headers), len(records))
	return dataset.New(headers, records), nil
}
