package crosstab

import (
	"fmt"

	"crosstab/domain/core"
)

// Pair is an unordered pair of categorical column names, normalized so that
// A sorts before B
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPair builds a normalized pair from two column names
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Key returns a stable string identity for the pair
func (p Pair) Key() string {
	return p.A + "|" + p.B
}

// String returns a human-readable form
func (p Pair) String() string {
	return fmt.Sprintf("%s x %s", p.A, p.B)
}

// ContingencyTable is a frequency cross-tabulation of two categorical
// variables. Category sets are derived from observed values only; labels are
// kept sorted so identical inputs always produce identical tables.
type ContingencyTable struct {
	RowVar string `json:"row_var"`
	ColVar string `json:"col_var"`

	RowCats []string `json:"row_cats"`
	ColCats []string `json:"col_cats"`

	// Counts[i][j] is the observed frequency of (RowCats[i], ColCats[j])
	Counts [][]int `json:"counts"`

	// Total equals the number of records non-missing in both variables
	Total int `json:"total"`
}

// Rows returns the number of observed row categories
func (t *ContingencyTable) Rows() int {
	return len(t.RowCats)
}

// Cols returns the number of observed column categories
func (t *ContingencyTable) Cols() int {
	return len(t.ColCats)
}

// Is2x2 reports whether the table is exactly 2x2
func (t *ContingencyTable) Is2x2() bool {
	return t.Rows() == 2 && t.Cols() == 2
}

// Analyzable reports whether statistical testing is permitted: at least 2x2
// effective dimensions and a non-zero grand total
func (t *ContingencyTable) Analyzable() bool {
	return t.Rows() >= 2 && t.Cols() >= 2 && t.Total > 0
}

// RowTotals returns the marginal totals per row category
func (t *ContingencyTable) RowTotals() []int {
	totals := make([]int, t.Rows())
	for i, row := range t.Counts {
		for _, c := range row {
			totals[i] += c
		}
	}
	return totals
}

// ColTotals returns the marginal totals per column category
func (t *ContingencyTable) ColTotals() []int {
	totals := make([]int, t.Cols())
	for _, row := range t.Counts {
		for j, c := range row {
			totals[j] += c
		}
	}
	return totals
}

// Expected returns the expected cell counts under the independence null:
// rowTotal * colTotal / grandTotal per cell. Caller must ensure Total > 0.
func (t *ContingencyTable) Expected() ([][]float64, error) {
	if t.Total == 0 {
		return nil, core.ErrEmptyTable
	}

	rowTotals := t.RowTotals()
	colTotals := t.ColTotals()
	expected := make([][]float64, t.Rows())
	for i := range expected {
		expected[i] = make([]float64, t.Cols())
		for j := range expected[i] {
			expected[i][j] = float64(rowTotals[i]) * float64(colTotals[j]) / float64(t.Total)
		}
	}
	return expected, nil
}

// MinExpected returns the smallest expected cell count
func (t *ContingencyTable) MinExpected() (float64, error) {
	expected, err := t.Expected()
	if err != nil {
		return 0, err
	}
	min := expected[0][0]
	for _, row := range expected {
		for _, e := range row {
			if e < min {
				min = e
			}
		}
	}
	return min, nil
}

// TestName identifies the statistical test applied to a table
type TestName string

const (
	TestChiSquare   TestName = "chi_square"
	TestFisherExact TestName = "fisher_exact"
	TestNone        TestName = "none"
)

// Invalid-result reasons, surfaced verbatim in reports
const (
	ReasonInsufficientCategories = "insufficient categories"
	ReasonNoData                 = "no data"
)

// TestResult is the association metric for one contingency table
type TestResult struct {
	Test      TestName `json:"test"`
	Statistic float64  `json:"statistic"`
	PValue    float64  `json:"p_value"`

	// StatisticUncorrected is the chi-square statistic without the Yates
	// continuity correction. Cramer's V normalizes this value, so reports
	// can reconcile the effect size with a corrected Statistic.
	StatisticUncorrected float64 `json:"statistic_uncorrected,omitempty"`

	// DegreesOfFreedom is set for chi-square only
	DegreesOfFreedom int `json:"degrees_of_freedom,omitempty"`

	// OddsRatio is set for Fisher's exact only
	OddsRatio float64 `json:"odds_ratio,omitempty"`

	// Valid reports whether the selected test's preconditions were met;
	// when false, Reason carries a marker and no statistic is populated
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`

	// ExpectedLow flags chi-square runs on tables larger than 2x2 that
	// still contain expected counts below the threshold, so consumers can
	// caveat the approximation
	ExpectedLow bool `json:"expected_low,omitempty"`
}

// EffectSize is Cramer's V for one table, or an explicit not-applicable
// marker for Fisher-selected and degenerate tables
type EffectSize struct {
	Applicable bool    `json:"applicable"`
	CramersV   float64 `json:"cramers_v,omitempty"`

	// Dimensions entering the normalization denominator
	Rows int `json:"rows,omitempty"`
	Cols int `json:"cols,omitempty"`
}

// NotApplicable is the effect-size marker for tables where Cramer's V is
// undefined or would imply a false comparison baseline
func NotApplicable() EffectSize {
	return EffectSize{Applicable: false}
}

// PairResult is one slot of a batch result: either a full pipeline output or
// an error marker with a human-readable reason
type PairResult struct {
	Pair   Pair              `json:"pair"`
	Table  *ContingencyTable `json:"table,omitempty"`
	Test   TestResult        `json:"test"`
	Effect EffectSize        `json:"effect"`
	Err    string            `json:"error,omitempty"`
}

// Failed reports whether this pair's processing errored out
func (r PairResult) Failed() bool {
	return r.Err != ""
}

// BatchResult is the immutable outcome of one orchestrator run: exactly one
// slot per requested pair, in enumeration order
type BatchResult struct {
	ID        core.ID        `json:"id"`
	CreatedAt core.Timestamp `json:"created_at"`
	Columns   []string       `json:"columns"`
	Results   []PairResult   `json:"results"`
}

// Get looks up the slot for a pair
func (b *BatchResult) Get(p Pair) (PairResult, bool) {
	for _, r := range b.Results {
		if r.Pair == p {
			return r, true
		}
	}
	return PairResult{}, false
}

// FailedCount returns the number of pairs recorded as errors
func (b *BatchResult) FailedCount() int {
	n := 0
	for _, r := range b.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}
