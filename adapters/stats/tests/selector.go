package tests

import (
	"crosstab/domain/crosstab"
)

// DefaultExpectedCountThreshold is the conventional minimum expected cell
// count below which the chi-square approximation is unreliable on 2x2 tables
const DefaultExpectedCountThreshold = 5.0

// Options controls test selection and execution
type Options struct {
	// ExpectedCountThreshold is the Fisher-vs-chi-square cutoff for 2x2
	// tables
	ExpectedCountThreshold float64

	// YatesCorrection applies the continuity correction to 2x2 chi-square
	YatesCorrection bool
}

// DefaultOptions returns the standard configuration
func DefaultOptions() Options {
	return Options{
		ExpectedCountThreshold: DefaultExpectedCountThreshold,
		YatesCorrection:        true,
	}
}

// Select decides which test is valid for a table without running it:
//
//  1. non-analyzable tables get no test
//  2. 2x2 tables with any expected count below the threshold get Fisher's
//     exact test
//  3. everything else gets chi-square; Fisher generalizes poorly beyond 2x2
//     and is never used there
func Select(t *crosstab.ContingencyTable, threshold float64) (crosstab.TestName, error) {
	if !t.Analyzable() {
		return crosstab.TestNone, nil
	}

	minExpected, err := t.MinExpected()
	if err != nil {
		return crosstab.TestNone, err
	}
	if t.Is2x2() && minExpected < threshold {
		return crosstab.TestFisherExact, nil
	}
	return crosstab.TestChiSquare, nil
}

// Run selects and executes exactly one statistical test for the table,
// returning an invalid-but-recorded result for degenerate tables
func Run(t *crosstab.ContingencyTable, opts Options) (crosstab.TestResult, error) {
	if t.Total == 0 {
		return crosstab.TestResult{
			Test:   crosstab.TestNone,
			Valid:  false,
			Reason: crosstab.ReasonNoData,
		}, nil
	}
	if !t.Analyzable() {
		return crosstab.TestResult{
			Test:   crosstab.TestNone,
			Valid:  false,
			Reason: crosstab.ReasonInsufficientCategories,
		}, nil
	}

	selected, err := Select(t, opts.ExpectedCountThreshold)
	if err != nil {
		return crosstab.TestResult{}, err
	}

	switch selected {
	case crosstab.TestFisherExact:
		return FisherExact(t)
	default:
		result, err := ChiSquare(t, opts.YatesCorrection)
		if err != nil {
			return crosstab.TestResult{}, err
		}
		// Larger-than-2x2 tables keep chi-square even when sparse;
		// flag the shaky approximation instead of switching tests
		if !t.Is2x2() {
			minExpected, err := t.MinExpected()
			if err != nil {
				return crosstab.TestResult{}, err
			}
			result.ExpectedLow = minExpected < opts.ExpectedCountThreshold
		}
		return result, nil
	}
}
