package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"crosstab/domain/crosstab"
	"crosstab/internal/errors"
	"crosstab/internal/report"
)

// excelSheetNameLimit is the maximum sheet name length Excel accepts
const excelSheetNameLimit = 31

// ReportWriter exports a batch report to an Excel workbook: one summary
// sheet plus one contingency-table sheet per successfully analyzed pair
type ReportWriter struct{}

// NewReportWriter creates a workbook exporter
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// Write builds and saves the workbook
func (w *ReportWriter) Write(path string, rep *report.Report, batch *crosstab.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSummary(f, rep); err != nil {
		return err
	}
	for _, result := range batch.Results {
		if result.Failed() || result.Table == nil {
			continue
		}
		if err := w.writeTable(f, result.Table); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.IOError(fmt.Sprintf("failed to save workbook %s", path), err)
	}
	return nil
}

func (w *ReportWriter) writeSummary(f *excelize.File, rep *report.Report) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"Variable A", "Variable B", "Test", "Statistic", "p-value", "df", "Odds Ratio", "Cramer's V", "Valid", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for rowIdx, row := range rep.Rows {
		note := row.Reason
		if row.Error != "" {
			note = "error: " + row.Error
		}
		values := []interface{}{
			row.VariableA, row.VariableB, row.TestUsed,
			floatOrNA(row.Statistic), floatOrNA(row.PValue), intOrNA(row.DegreesOfFreedom),
			floatOrNA(row.OddsRatio), floatOrNA(row.CramersV), row.Valid, note,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *ReportWriter) writeTable(f *excelize.File, t *crosstab.ContingencyTable) error {
	sheet := sheetName(t.RowVar + " x " + t.ColVar)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for j, c := range t.ColCats {
		cell, _ := excelize.CoordinatesToCellName(j+2, 1)
		if err := f.SetCellValue(sheet, cell, c); err != nil {
			return err
		}
	}
	for i, r := range t.RowCats {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellValue(sheet, cell, r); err != nil {
			return err
		}
		for j := range t.ColCats {
			cell, _ := excelize.CoordinatesToCellName(j+2, i+2)
			if err := f.SetCellValue(sheet, cell, t.Counts[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetName sanitizes a pair label into a valid Excel sheet name
func sheetName(label string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-")
	name := replacer.Replace(label)
	if len(name) > excelSheetNameLimit {
		name = name[:excelSheetNameLimit]
	}
	return name
}

func floatOrNA(v *float64) interface{} {
	if v == nil {
		return "n/a"
	}
	return *v
}

func intOrNA(v *int) interface{} {
	if v == nil {
		return "n/a"
	}
	return *v
}
