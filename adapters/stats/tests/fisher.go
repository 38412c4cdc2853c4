package tests

import (
	"math"

	"crosstab/domain/core"
	"crosstab/domain/crosstab"
)

// fisherTieTolerance absorbs float rounding when comparing hypergeometric
// probabilities against the observed table's probability
const fisherTieTolerance = 1e-7

// FisherExact runs Fisher's exact test on a 2x2 contingency table. The
// two-sided p-value sums the probabilities of all tables (with the observed
// margins) no more likely than the observed one. Attempting it on any other
// shape is a logic fault in the selection policy and returns a hard error.
func FisherExact(t *crosstab.ContingencyTable) (crosstab.TestResult, error) {
	if !t.Is2x2() {
		return crosstab.TestResult{}, core.ErrFisherDimension
	}
	if t.Total == 0 {
		return crosstab.TestResult{
			Test:   crosstab.TestFisherExact,
			Valid:  false,
			Reason: crosstab.ReasonNoData,
		}, nil
	}

	a := t.Counts[0][0]
	b := t.Counts[0][1]
	c := t.Counts[1][0]
	d := t.Counts[1][1]

	r1 := a + b
	r2 := c + d
	c1 := a + c
	n := t.Total

	// Hypergeometric support for the top-left cell given fixed margins
	lo := c1 - r2
	if lo < 0 {
		lo = 0
	}
	hi := c1
	if r1 < hi {
		hi = r1
	}

	pObs := hypergeomProb(a, r1, r2, c1, n)
	pValue := 0.0
	for k := lo; k <= hi; k++ {
		p := hypergeomProb(k, r1, r2, c1, n)
		if p <= pObs*(1+fisherTieTolerance) {
			pValue += p
		}
	}
	if pValue > 1 {
		pValue = 1
	}

	return crosstab.TestResult{
		Test:      crosstab.TestFisherExact,
		PValue:    pValue,
		OddsRatio: oddsRatio(a, b, c, d),
		Valid:     true,
	}, nil
}

// hypergeomProb is P(X = k) for the top-left cell of a 2x2 table with fixed
// margins, computed in log space to stay stable for large counts
func hypergeomProb(k, r1, r2, c1, n int) float64 {
	logP := logChoose(r1, k) + logChoose(r2, c1-k) - logChoose(n, c1)
	return math.Exp(logP)
}

func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	return logFactorial(n) - logFactorial(k) - logFactorial(n-k)
}

func logFactorial(n int) float64 {
	v, _ := math.Lgamma(float64(n) + 1)
	return v
}

func oddsRatio(a, b, c, d int) float64 {
	if b*c == 0 {
		if a*d == 0 {
			return math.NaN()
		}
		return math.Inf(1)
	}
	return float64(a*d) / float64(b*c)
}
