package report

import (
	"crosstab/domain/crosstab"
)

// HeatmapData is the pure data artifact an external visualization
// collaborator renders as a heatmap: labels plus the raw count grid
type HeatmapData struct {
	RowVar    string   `json:"row_var"`
	ColVar    string   `json:"col_var"`
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
	Counts    [][]int  `json:"counts"`
}

// Heatmap extracts heatmap data from a contingency table
func Heatmap(t *crosstab.ContingencyTable) HeatmapData {
	return HeatmapData{
		RowVar:    t.RowVar,
		ColVar:    t.ColVar,
		RowLabels: t.RowCats,
		ColLabels: t.ColCats,
		Counts:    t.Counts,
	}
}

// Proportions returns the row-normalized table, the data behind a stacked
// proportion bar chart. Rows with a zero total come back as zeros.
func Proportions(t *crosstab.ContingencyTable) [][]float64 {
	rowTotals := t.RowTotals()
	props := make([][]float64, t.Rows())
	for i := range props {
		props[i] = make([]float64, t.Cols())
		if rowTotals[i] == 0 {
			continue
		}
		for j := range props[i] {
			props[i][j] = float64(t.Counts[i][j]) / float64(rowTotals[i])
		}
	}
	return props
}
