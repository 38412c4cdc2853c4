package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"crosstab/domain/crosstab"
	"crosstab/internal/report"
)

// WriteSummaryCSV writes report rows as CSV, one line per variable pair
func WriteSummaryCSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)
	header := []string{"variable_a", "variable_b", "test", "statistic", "p_value", "df", "odds_ratio", "cramers_v", "valid", "significant", "reason", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rep.Rows {
		record := []string{
			row.VariableA,
			row.VariableB,
			row.TestUsed,
			floatField(row.Statistic),
			floatField(row.PValue),
			intField(row.DegreesOfFreedom),
			floatField(row.OddsRatio),
			floatField(row.CramersV),
			strconv.FormatBool(row.Valid),
			boolField(row.Significant),
			row.Reason,
			row.Error,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTableCSV writes a contingency table as CSV with row and column labels
func WriteTableCSV(w io.Writer, t *crosstab.ContingencyTable) error {
	cw := csv.NewWriter(w)

	header := append([]string{t.RowVar + "\\" + t.ColVar}, t.ColCats...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, rowCat := range t.RowCats {
		record := make([]string, 0, t.Cols()+1)
		record = append(record, rowCat)
		for j := range t.ColCats {
			record = append(record, strconv.Itoa(t.Counts[i][j]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func floatField(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", *v)
}

func intField(v *int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.Itoa(*v)
}

func boolField(v *bool) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatBool(*v)
}
