package tests

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"crosstab/domain/crosstab"
)

// ChiSquare runs the chi-square test of independence on a contingency table.
// The Yates continuity correction applies to 2x2 tables only, matching the
// convention of standard statistical packages.
func ChiSquare(t *crosstab.ContingencyTable, yates bool) (crosstab.TestResult, error) {
	if t.Total == 0 {
		return crosstab.TestResult{
			Test:   crosstab.TestChiSquare,
			Valid:  false,
			Reason: crosstab.ReasonNoData,
		}, nil
	}
	if !t.Analyzable() {
		return crosstab.TestResult{
			Test:   crosstab.TestChiSquare,
			Valid:  false,
			Reason: crosstab.ReasonInsufficientCategories,
		}, nil
	}

	uncorrected, err := chiSquareStatistic(t, false)
	if err != nil {
		return crosstab.TestResult{}, err
	}
	stat := uncorrected
	if yates && t.Is2x2() {
		if stat, err = chiSquareStatistic(t, true); err != nil {
			return crosstab.TestResult{}, err
		}
	}

	df := (t.Rows() - 1) * (t.Cols() - 1)
	return crosstab.TestResult{
		Test:                 crosstab.TestChiSquare,
		Statistic:            stat,
		StatisticUncorrected: uncorrected,
		PValue:               ChiSquarePValue(stat, df),
		DegreesOfFreedom:     df,
		Valid:                true,
	}, nil
}

func chiSquareStatistic(t *crosstab.ContingencyTable, yates bool) (float64, error) {
	expected, err := t.Expected()
	if err != nil {
		return 0, err
	}

	stat := 0.0
	for i, row := range t.Counts {
		for j, observed := range row {
			e := expected[i][j]
			if e == 0 {
				// Zero expected count implies a zero marginal; the
				// observed count is necessarily zero too
				continue
			}
			diff := math.Abs(float64(observed) - e)
			if yates {
				diff -= 0.5
				if diff < 0 {
					diff = 0
				}
			}
			stat += diff * diff / e
		}
	}
	return stat, nil
}

// ChiSquarePValue computes the upper-tail p-value of the chi-square
// distribution with the given degrees of freedom
func ChiSquarePValue(stat float64, df int) float64 {
	if df <= 0 {
		return 1.0
	}
	chiDist := distuv.ChiSquared{K: float64(df)}
	return 1 - chiDist.CDF(stat)
}
