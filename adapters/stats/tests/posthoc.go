package tests

import (
	"crosstab/domain/crosstab"
)

// PosthocComparison is one pairwise row-category comparison with its
// Bonferroni-adjusted p-value
type PosthocComparison struct {
	RowA        string  `json:"row_a"`
	RowB        string  `json:"row_b"`
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	PAdjusted   float64 `json:"p_adjusted"`
	Significant bool    `json:"significant"`
}

// PairwisePosthoc runs chi-square tests between every pair of row categories
// of a table, Bonferroni-correcting the p-values for the number of
// comparisons. Column categories with zero counts in a sub-table are dropped
// before testing.
func PairwisePosthoc(t *crosstab.ContingencyTable, alpha float64, opts Options) ([]PosthocComparison, error) {
	if !t.Analyzable() {
		return nil, nil
	}

	var comparisons []PosthocComparison
	for i := 0; i < t.Rows(); i++ {
		for j := i + 1; j < t.Rows(); j++ {
			sub := subTable(t, i, j)
			result, err := ChiSquare(sub, opts.YatesCorrection)
			if err != nil {
				return nil, err
			}
			if !result.Valid {
				continue
			}
			comparisons = append(comparisons, PosthocComparison{
				RowA:      t.RowCats[i],
				RowB:      t.RowCats[j],
				Statistic: result.Statistic,
				PValue:    result.PValue,
			})
		}
	}

	m := float64(len(comparisons))
	for k := range comparisons {
		adjusted := comparisons[k].PValue * m
		if adjusted > 1 {
			adjusted = 1
		}
		comparisons[k].PAdjusted = adjusted
		comparisons[k].Significant = adjusted < alpha
	}
	return comparisons, nil
}

// subTable extracts the 2-row table for row categories i and j, dropping
// column categories unobserved in both rows
func subTable(t *crosstab.ContingencyTable, i, j int) *crosstab.ContingencyTable {
	var colCats []string
	var colIdx []int
	for c := 0; c < t.Cols(); c++ {
		if t.Counts[i][c]+t.Counts[j][c] > 0 {
			colCats = append(colCats, t.ColCats[c])
			colIdx = append(colIdx, c)
		}
	}

	counts := make([][]int, 2)
	total := 0
	for r, src := range []int{i, j} {
		counts[r] = make([]int, len(colIdx))
		for c, idx := range colIdx {
			counts[r][c] = t.Counts[src][idx]
			total += counts[r][c]
		}
	}

	return &crosstab.ContingencyTable{
		RowVar:  t.RowVar,
		ColVar:  t.ColVar,
		RowCats: []string{t.RowCats[i], t.RowCats[j]},
		ColCats: colCats,
		Counts:  counts,
		Total:   total,
	}
}
