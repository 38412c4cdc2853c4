package profiling

import (
	"math"
	"strconv"

	"github.com/montanaflynn/stats"

	"crosstab/domain/core"
	"crosstab/domain/dataset"
)

// Categorical detection heuristics: a column is treated as categorical when
// its observed cardinality is small in absolute terms or relative to the
// number of non-missing values, and it is not numeric-dominant with high
// cardinality.
const (
	maxCategoricalCardinality = 50
	maxCategoricalUniqueRatio = 0.3
	numericDominanceRatio     = 0.9
)

// NumericSummary describes a numeric-dominant column
type NumericSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// ColumnProfile summarizes one column for categorical-type checks and
// report context
type ColumnProfile struct {
	Name          string  `json:"name"`
	SampleSize    int     `json:"sample_size"`
	MissingRate   float64 `json:"missing_rate"`
	Cardinality   int     `json:"cardinality"`
	Entropy       float64 `json:"entropy"`
	Mode          string  `json:"mode"`
	ModeFrequency int     `json:"mode_frequency"`
	Categorical   bool    `json:"categorical"`

	// Numeric is set when most non-missing values parse as numbers
	Numeric *NumericSummary `json:"numeric,omitempty"`
}

// Profile computes the profile of a single column
func Profile(ds *dataset.Dataset, column string) (ColumnProfile, error) {
	values, err := ds.Column(column)
	if err != nil {
		return ColumnProfile{}, err
	}

	profile := ColumnProfile{Name: column, SampleSize: len(values)}

	frequency := make(map[string]int)
	var numericValues []float64
	validCount := 0
	for _, raw := range values {
		val := dataset.NormalizeValue(raw)
		if dataset.IsMissing(val) {
			continue
		}
		validCount++
		frequency[val]++
		if f, parseErr := strconv.ParseFloat(val, 64); parseErr == nil {
			numericValues = append(numericValues, f)
		}
	}

	if len(values) > 0 {
		profile.MissingRate = 1.0 - float64(validCount)/float64(len(values))
	}
	profile.Cardinality = len(frequency)

	for val, count := range frequency {
		prob := float64(count) / float64(validCount)
		profile.Entropy -= prob * math.Log2(prob)
		if count > profile.ModeFrequency || (count == profile.ModeFrequency && val < profile.Mode) {
			profile.Mode = val
			profile.ModeFrequency = count
		}
	}

	numericDominant := validCount > 0 &&
		float64(len(numericValues))/float64(validCount) >= numericDominanceRatio
	if numericDominant {
		mean, _ := stats.Mean(numericValues)
		stdDev, _ := stats.StandardDeviation(numericValues)
		min, _ := stats.Min(numericValues)
		max, _ := stats.Max(numericValues)
		median, _ := stats.Median(numericValues)
		profile.Numeric = &NumericSummary{
			Mean:   mean,
			StdDev: stdDev,
			Min:    min,
			Max:    max,
			Median: median,
		}
	}

	lowCardinality := profile.Cardinality <= maxCategoricalCardinality ||
		float64(profile.Cardinality)/float64(validCount) < maxCategoricalUniqueRatio
	highCardinalityNumeric := numericDominant &&
		float64(profile.Cardinality) > maxCategoricalCardinality/2 // continuous measurements

	profile.Categorical = validCount > 0 && lowCardinality && !highCardinalityNumeric
	return profile, nil
}

// CheckCategorical returns an error when the column fails the categorical
// type check
func CheckCategorical(ds *dataset.Dataset, column string) error {
	profile, err := Profile(ds, column)
	if err != nil {
		return err
	}
	if !profile.Categorical {
		return core.NewNonCategoricalError(column, profile.Cardinality)
	}
	return nil
}

// CategoricalColumns returns all columns passing the categorical check, in
// dataset column order
func CategoricalColumns(ds *dataset.Dataset) ([]string, error) {
	var columns []string
	for _, col := range ds.Columns {
		profile, err := Profile(ds, col)
		if err != nil {
			return nil, err
		}
		if profile.Categorical {
			columns = append(columns, col)
		}
	}
	return columns, nil
}
