package report

import (
	"fmt"
	"math"
	"strings"

	"crosstab/domain/core"
	"crosstab/domain/crosstab"
)

// Row is one report line per variable pair. Numeric fields are pointers so
// consumers always see either a valid value or an explicit absence - never a
// silently propagated NaN.
type Row struct {
	VariableA string `json:"variable_a"`
	VariableB string `json:"variable_b"`
	TestUsed  string `json:"test_used"`

	Statistic *float64 `json:"statistic,omitempty"`

	// StatisticUncorrected backs the Cramer's V column when the Yates
	// correction makes Statistic differ from the V normalization input
	StatisticUncorrected *float64 `json:"statistic_uncorrected,omitempty"`
	PValue               *float64 `json:"p_value,omitempty"`
	DegreesOfFreedom     *int     `json:"degrees_of_freedom,omitempty"`
	OddsRatio            *float64 `json:"odds_ratio,omitempty"`
	CramersV             *float64 `json:"cramers_v,omitempty"`

	Valid       bool   `json:"valid"`
	Significant *bool  `json:"significant,omitempty"`
	ExpectedLow bool   `json:"expected_low,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Report is the unified structure consumed by external reporting and
// visualization collaborators
type Report struct {
	ID        core.ID        `json:"id"`
	CreatedAt core.Timestamp `json:"created_at"`
	Columns   []string       `json:"columns"`
	Alpha     float64        `json:"alpha"`
	Rows      []Row          `json:"rows"`
}

// Summarize assembles the report rows from a batch result. Alpha is used
// only for the significance label, never for test selection.
func Summarize(batch *crosstab.BatchResult, alpha float64) *Report {
	rep := &Report{
		ID:        batch.ID,
		CreatedAt: batch.CreatedAt,
		Columns:   batch.Columns,
		Alpha:     alpha,
		Rows:      make([]Row, 0, len(batch.Results)),
	}
	for _, result := range batch.Results {
		rep.Rows = append(rep.Rows, summarizePair(result, alpha))
	}
	return rep
}

func summarizePair(result crosstab.PairResult, alpha float64) Row {
	row := Row{
		VariableA: result.Pair.A,
		VariableB: result.Pair.B,
		TestUsed:  string(crosstab.TestNone),
	}
	if result.Failed() {
		row.Error = result.Err
		return row
	}

	test := result.Test
	row.TestUsed = string(test.Test)
	row.Valid = test.Valid
	row.Reason = test.Reason
	row.ExpectedLow = test.ExpectedLow
	if !test.Valid {
		return row
	}

	pValue := test.PValue
	row.PValue = &pValue
	significant := pValue < alpha
	row.Significant = &significant

	switch test.Test {
	case crosstab.TestChiSquare:
		stat := test.Statistic
		uncorrected := test.StatisticUncorrected
		df := test.DegreesOfFreedom
		row.Statistic = &stat
		row.StatisticUncorrected = &uncorrected
		row.DegreesOfFreedom = &df
	case crosstab.TestFisherExact:
		// Odds ratio can be infinite or undefined for tables with
		// empty cells; those stay explicitly absent
		if !math.IsNaN(test.OddsRatio) && !math.IsInf(test.OddsRatio, 0) {
			or := test.OddsRatio
			row.OddsRatio = &or
		}
	}

	if result.Effect.Applicable {
		v := result.Effect.CramersV
		row.CramersV = &v
	}
	return row
}

// MarkdownTable renders the report as a markdown summary table
func (r *Report) MarkdownTable() string {
	var b strings.Builder
	b.WriteString("| Pair | Test | Statistic | p-value | df | Cramer's V | Significant | Notes |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, row := range r.Rows {
		note := row.Reason
		if row.Error != "" {
			note = "error: " + row.Error
		} else if row.ExpectedLow {
			note = "low expected counts"
		}
		fmt.Fprintf(&b, "| %s x %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.VariableA, row.VariableB, row.TestUsed,
			formatFloat(row.Statistic), formatFloat(row.PValue), formatInt(row.DegreesOfFreedom),
			formatFloat(row.CramersV), formatBool(row.Significant), note)
	}
	return b.String()
}

// TableMarkdown renders one contingency table as markdown, for inclusion in
// textual reports
func TableMarkdown(t *crosstab.ContingencyTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| %s \\ %s |", t.RowVar, t.ColVar)
	for _, c := range t.ColCats {
		fmt.Fprintf(&b, " %s |", c)
	}
	b.WriteString("\n|---|")
	for range t.ColCats {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, r := range t.RowCats {
		fmt.Fprintf(&b, "| %s |", r)
		for j := range t.ColCats {
			fmt.Fprintf(&b, " %d |", t.Counts[i][j])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func formatInt(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}

func formatBool(v *bool) string {
	if v == nil {
		return "n/a"
	}
	if *v {
		return "yes"
	}
	return "no"
}
