package tests

import (
	"math"

	"crosstab/domain/crosstab"
)

// CramersV computes the effect size V = sqrt(chi2 / (n * min(r-1, c-1)))
// from the uncorrected chi-square statistic. It is only defined for
// analyzable tables tested with chi-square; all other cases report
// not-applicable rather than a numeric placeholder.
func CramersV(t *crosstab.ContingencyTable, test crosstab.TestResult) crosstab.EffectSize {
	if !test.Valid || test.Test != crosstab.TestChiSquare {
		return crosstab.NotApplicable()
	}

	minDim := t.Rows() - 1
	if c := t.Cols() - 1; c < minDim {
		minDim = c
	}
	if minDim <= 0 || t.Total == 0 {
		return crosstab.NotApplicable()
	}

	v := math.Sqrt(test.StatisticUncorrected / (float64(t.Total) * float64(minDim)))
	if v > 1 {
		v = 1
	}
	return crosstab.EffectSize{
		Applicable: true,
		CramersV:   v,
		Rows:       t.Rows(),
		Cols:       t.Cols(),
	}
}
