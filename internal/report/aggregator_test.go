package report

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosstab/domain/core"
	"crosstab/domain/crosstab"
)

func sampleBatch() *crosstab.BatchResult {
	chiTable := &crosstab.ContingencyTable{
		RowVar:  "region",
		ColVar:  "type",
		RowCats: []string{"East", "West"},
		ColCats: []string{"Flat", "House", "Villa"},
		Counts:  [][]int{{10, 20, 30}, {30, 20, 10}},
		Total:   120,
	}
	stat := 20.0
	return &crosstab.BatchResult{
		ID:        core.NewID(),
		CreatedAt: core.Now(),
		Columns:   []string{"region", "satisfaction", "type"},
		Results: []crosstab.PairResult{
			{
				Pair:  crosstab.NewPair("region", "type"),
				Table: chiTable,
				Test: crosstab.TestResult{
					Test:                 crosstab.TestChiSquare,
					Statistic:            stat,
					StatisticUncorrected: stat,
					PValue:               0.0000454,
					DegreesOfFreedom:     2,
					Valid:                true,
				},
				Effect: crosstab.EffectSize{Applicable: true, CramersV: 0.408, Rows: 2, Cols: 3},
			},
			{
				Pair: crosstab.NewPair("region", "satisfaction"),
				Test: crosstab.TestResult{
					Test:   crosstab.TestNone,
					Valid:  false,
					Reason: crosstab.ReasonInsufficientCategories,
				},
				Effect: crosstab.NotApplicable(),
			},
			{
				Pair: crosstab.NewPair("satisfaction", "type"),
				Err:  "column not present in dataset: satisfaction",
			},
		},
	}
}

func TestSummarize_OneRowPerPair(t *testing.T) {
	rep := Summarize(sampleBatch(), 0.05)

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, 0.05, rep.Alpha)
	assert.Equal(t, []string{"region", "satisfaction", "type"}, rep.Columns)
}

func TestSummarize_ValidChiSquareRow(t *testing.T) {
	rep := Summarize(sampleBatch(), 0.05)
	row := rep.Rows[0]

	assert.Equal(t, "region", row.VariableA)
	assert.Equal(t, "type", row.VariableB)
	assert.Equal(t, "chi_square", row.TestUsed)
	assert.True(t, row.Valid)
	require.NotNil(t, row.Statistic)
	assert.InDelta(t, 20.0, *row.Statistic, 1e-9)
	require.NotNil(t, row.StatisticUncorrected)
	assert.InDelta(t, 20.0, *row.StatisticUncorrected, 1e-9)
	require.NotNil(t, row.PValue)
	require.NotNil(t, row.DegreesOfFreedom)
	assert.Equal(t, 2, *row.DegreesOfFreedom)
	require.NotNil(t, row.CramersV)
	assert.InDelta(t, 0.408, *row.CramersV, 1e-9)
	require.NotNil(t, row.Significant)
	assert.True(t, *row.Significant)
	assert.Nil(t, row.OddsRatio)
}

func TestSummarize_InvalidRowHasExplicitAbsences(t *testing.T) {
	rep := Summarize(sampleBatch(), 0.05)
	row := rep.Rows[1]

	assert.Equal(t, "none", row.TestUsed)
	assert.False(t, row.Valid)
	assert.Equal(t, crosstab.ReasonInsufficientCategories, row.Reason)
	assert.Nil(t, row.Statistic)
	assert.Nil(t, row.PValue)
	assert.Nil(t, row.DegreesOfFreedom)
	assert.Nil(t, row.CramersV)
	assert.Nil(t, row.Significant)
}

func TestSummarize_FailedRowCarriesError(t *testing.T) {
	rep := Summarize(sampleBatch(), 0.05)
	row := rep.Rows[2]

	assert.Equal(t, "none", row.TestUsed)
	assert.False(t, row.Valid)
	assert.Contains(t, row.Error, "satisfaction")
	assert.Nil(t, row.PValue)
}

func TestSummarize_FisherOddsRatioHandling(t *testing.T) {
	finite := crosstab.PairResult{
		Pair: crosstab.NewPair("a", "b"),
		Test: crosstab.TestResult{
			Test:      crosstab.TestFisherExact,
			PValue:    0.49,
			OddsRatio: 1.0 / 9.0,
			Valid:     true,
		},
		Effect: crosstab.NotApplicable(),
	}
	infinite := finite
	infinite.Test.OddsRatio = math.Inf(1)

	batch := &crosstab.BatchResult{Results: []crosstab.PairResult{finite, infinite}}
	rep := Summarize(batch, 0.05)

	require.NotNil(t, rep.Rows[0].OddsRatio)
	assert.InDelta(t, 1.0/9.0, *rep.Rows[0].OddsRatio, 1e-9)
	// Infinite ratios are reported as absent, never as a non-finite number
	assert.Nil(t, rep.Rows[1].OddsRatio)
	assert.Nil(t, rep.Rows[1].Statistic)
}

func TestMarkdownTable_RendersValuesAndAbsences(t *testing.T) {
	rep := Summarize(sampleBatch(), 0.05)
	md := rep.MarkdownTable()

	lines := strings.Split(strings.TrimSpace(md), "\n")
	// header + separator + one line per row
	require.Len(t, lines, 5)

	assert.Contains(t, lines[2], "region x type")
	assert.Contains(t, lines[2], "chi_square")
	assert.Contains(t, lines[2], "20.0000")
	assert.Contains(t, lines[2], "yes")

	assert.Contains(t, lines[3], "n/a")
	assert.Contains(t, lines[3], crosstab.ReasonInsufficientCategories)

	assert.Contains(t, lines[4], "error:")
}

func TestTableMarkdown(t *testing.T) {
	table := &crosstab.ContingencyTable{
		RowVar:  "region",
		ColVar:  "type",
		RowCats: []string{"East", "West"},
		ColCats: []string{"Flat", "House"},
		Counts:  [][]int{{1, 2}, {3, 4}},
		Total:   10,
	}

	md := TableMarkdown(table)
	assert.Contains(t, md, "| region \\ type | Flat | House |")
	assert.Contains(t, md, "| East | 1 | 2 |")
	assert.Contains(t, md, "| West | 3 | 4 |")
}

func TestHeatmapAndProportions(t *testing.T) {
	table := &crosstab.ContingencyTable{
		RowVar:  "region",
		ColVar:  "type",
		RowCats: []string{"East", "West"},
		ColCats: []string{"Flat", "House"},
		Counts:  [][]int{{1, 3}, {0, 0}},
		Total:   4,
	}

	hm := Heatmap(table)
	assert.Equal(t, table.RowCats, hm.RowLabels)
	assert.Equal(t, table.Counts, hm.Counts)

	props := Proportions(table)
	require.Len(t, props, 2)
	assert.InDelta(t, 0.25, props[0][0], 1e-9)
	assert.InDelta(t, 0.75, props[0][1], 1e-9)
	// zero-total rows stay at zero instead of dividing by zero
	assert.Zero(t, props[1][0])
	assert.Zero(t, props[1][1])
}
