package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosstab/domain/crosstab"
)

func table2x2(a, b, c, d int) *crosstab.ContingencyTable {
	return &crosstab.ContingencyTable{
		RowVar:  "row",
		ColVar:  "col",
		RowCats: []string{"r1", "r2"},
		ColCats: []string{"c1", "c2"},
		Counts:  [][]int{{a, b}, {c, d}},
		Total:   a + b + c + d,
	}
}

func TestChiSquare_2x2WithYates(t *testing.T) {
	// 100 records split 30/20/25/25; all expected counts >= 5
	table := table2x2(30, 20, 25, 25)

	result, err := ChiSquare(table, true)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, crosstab.TestChiSquare, result.Test)
	assert.Equal(t, 1, result.DegreesOfFreedom)
	assert.InDelta(t, 0.64646, result.Statistic, 1e-4)
	assert.InDelta(t, 1.01010, result.StatisticUncorrected, 1e-4)
	assert.InDelta(t, 0.4215, result.PValue, 2e-3)
}

func TestChiSquare_YatesCorrectedToZeroKeepsUncorrected(t *testing.T) {
	// All |observed - expected| are exactly 0.5, so the correction clamps
	// the reported statistic to zero while the uncorrected one stays 0.4
	table := table2x2(3, 2, 2, 3)

	result, err := ChiSquare(table, true)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.Statistic, 1e-12)
	assert.InDelta(t, 0.4, result.StatisticUncorrected, 1e-9)
	assert.InDelta(t, 1.0, result.PValue, 1e-9)

	// V comes from the uncorrected statistic: sqrt(0.4 / (10 * 1))
	effect := CramersV(table, result)
	require.True(t, effect.Applicable)
	assert.InDelta(t, 0.2, effect.CramersV, 1e-9)
}

func TestChiSquare_2x2Uncorrected(t *testing.T) {
	table := table2x2(30, 20, 25, 25)

	result, err := ChiSquare(table, false)
	require.NoError(t, err)

	assert.InDelta(t, 1.01010, result.Statistic, 1e-4)
	assert.InDelta(t, 0.3149, result.PValue, 2e-3)
}

func TestChiSquare_2x3KnownStatistic(t *testing.T) {
	// Uniform margins, expected count 20 everywhere: chi2 is exactly 20
	table := &crosstab.ContingencyTable{
		RowCats: []string{"a", "b"},
		ColCats: []string{"x", "y", "z"},
		Counts:  [][]int{{10, 20, 30}, {30, 20, 10}},
		Total:   120,
	}

	result, err := ChiSquare(table, true)
	require.NoError(t, err)

	// Yates applies to 2x2 only; this table stays uncorrected
	assert.InDelta(t, 20.0, result.Statistic, 1e-9)
	assert.Equal(t, 2, result.DegreesOfFreedom)
	assert.InDelta(t, 4.54e-5, result.PValue, 1e-6)
}

func TestChiSquare_PerfectIndependenceIsZero(t *testing.T) {
	table := &crosstab.ContingencyTable{
		RowCats: []string{"a", "b", "c"},
		ColCats: []string{"x", "y", "z"},
		Counts:  [][]int{{10, 10, 10}, {10, 10, 10}, {10, 10, 10}},
		Total:   90,
	}

	result, err := ChiSquare(table, true)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.Statistic, 1e-12)
	assert.InDelta(t, 1.0, result.PValue, 1e-9)

	effect := CramersV(table, result)
	assert.True(t, effect.Applicable)
	assert.InDelta(t, 0.0, effect.CramersV, 1e-12)
}

func TestChiSquare_EmptyTable(t *testing.T) {
	table := &crosstab.ContingencyTable{
		RowCats: []string{},
		ColCats: []string{},
		Counts:  [][]int{},
		Total:   0,
	}

	result, err := ChiSquare(table, true)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Equal(t, crosstab.ReasonNoData, result.Reason)
}

func TestChiSquare_DegenerateTable(t *testing.T) {
	table := &crosstab.ContingencyTable{
		RowCats: []string{"only"},
		ColCats: []string{"x", "y"},
		Counts:  [][]int{{5, 5}},
		Total:   10,
	}

	result, err := ChiSquare(table, true)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Equal(t, crosstab.ReasonInsufficientCategories, result.Reason)
}

func TestCramersV_Range(t *testing.T) {
	table := &crosstab.ContingencyTable{
		RowCats: []string{"a", "b"},
		ColCats: []string{"x", "y", "z"},
		Counts:  [][]int{{10, 20, 30}, {30, 20, 10}},
		Total:   120,
	}
	result, err := ChiSquare(table, true)
	require.NoError(t, err)

	effect := CramersV(table, result)
	require.True(t, effect.Applicable)
	// V = sqrt(20 / (120 * 1))
	assert.InDelta(t, 0.40825, effect.CramersV, 1e-4)
	assert.GreaterOrEqual(t, effect.CramersV, 0.0)
	assert.LessOrEqual(t, effect.CramersV, 1.0)
	assert.Equal(t, 2, effect.Rows)
	assert.Equal(t, 3, effect.Cols)
}

func TestCramersV_UsesUncorrectedStatistic(t *testing.T) {
	table := table2x2(30, 20, 25, 25)
	result, err := ChiSquare(table, true)
	require.NoError(t, err)

	effect := CramersV(table, result)
	require.True(t, effect.Applicable)
	// sqrt(1.0101 / (100 * 1)), not the Yates-corrected value
	assert.InDelta(t, 0.10050, effect.CramersV, 1e-4)
}

func TestCramersV_NotApplicableCases(t *testing.T) {
	fisherResult := crosstab.TestResult{Test: crosstab.TestFisherExact, Valid: true}
	assert.False(t, CramersV(table2x2(1, 2, 3, 4), fisherResult).Applicable)

	invalid := crosstab.TestResult{Test: crosstab.TestChiSquare, Valid: false}
	assert.False(t, CramersV(table2x2(1, 2, 3, 4), invalid).Applicable)
}
