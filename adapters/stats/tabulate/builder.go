package tabulate

import (
	"sort"

	"crosstab/domain/crosstab"
	"crosstab/domain/dataset"
)

// Build constructs the contingency table for a pair of categorical columns.
// Records missing a value in either column are excluded from this pair's
// table only. Degenerate tables (fewer than 2 categories on an axis) are
// still returned; Analyzable() marks them unfit for testing.
func Build(ds *dataset.Dataset, pair crosstab.Pair) (*crosstab.ContingencyTable, error) {
	rowValues, err := ds.Column(pair.A)
	if err != nil {
		return nil, err
	}
	colValues, err := ds.Column(pair.B)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]map[string]int)
	total := 0
	for i := range rowValues {
		rv, cv := rowValues[i], colValues[i]
		if dataset.IsMissing(rv) || dataset.IsMissing(cv) {
			continue
		}
		if counts[rv] == nil {
			counts[rv] = make(map[string]int)
		}
		counts[rv][cv]++
		total++
	}

	rowCats := make([]string, 0, len(counts))
	colSet := make(map[string]struct{})
	for rv, inner := range counts {
		rowCats = append(rowCats, rv)
		for cv := range inner {
			colSet[cv] = struct{}{}
		}
	}
	colCats := make([]string, 0, len(colSet))
	for cv := range colSet {
		colCats = append(colCats, cv)
	}
	sort.Strings(rowCats)
	sort.Strings(colCats)

	matrix := make([][]int, len(rowCats))
	for i, rv := range rowCats {
		matrix[i] = make([]int, len(colCats))
		for j, cv := range colCats {
			matrix[i][j] = counts[rv][cv]
		}
	}

	return &crosstab.ContingencyTable{
		RowVar:  pair.A,
		ColVar:  pair.B,
		RowCats: rowCats,
		ColCats: colCats,
		Counts:  matrix,
		Total:   total,
	}, nil
}
