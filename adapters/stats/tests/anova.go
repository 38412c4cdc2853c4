package tests

import (
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	"crosstab/domain/core"
	"crosstab/domain/dataset"
)

// AnovaResult holds a one-way ANOVA outcome
type AnovaResult struct {
	FStatistic float64 `json:"f_statistic"`
	PValue     float64 `json:"p_value"`
	DFBetween  int     `json:"df_between"`
	DFWithin   int     `json:"df_within"`
	Groups     int     `json:"groups"`
}

// OneWayANOVA tests whether a numeric column differs across the groups of a
// categorical column. Records with a missing category or an unparseable
// numeric value are excluded.
func OneWayANOVA(ds *dataset.Dataset, numericCol, categoryCol string) (AnovaResult, error) {
	numeric, err := ds.Column(numericCol)
	if err != nil {
		return AnovaResult{}, err
	}
	category, err := ds.Column(categoryCol)
	if err != nil {
		return AnovaResult{}, err
	}

	groups := make(map[string][]float64)
	var order []string
	for i := range numeric {
		if dataset.IsMissing(category[i]) || dataset.IsMissing(numeric[i]) {
			continue
		}
		v, parseErr := strconv.ParseFloat(numeric[i], 64)
		if parseErr != nil {
			continue
		}
		if _, ok := groups[category[i]]; !ok {
			order = append(order, category[i])
		}
		groups[category[i]] = append(groups[category[i]], v)
	}

	if len(groups) < 2 {
		return AnovaResult{}, core.ErrInsufficientData
	}

	totalN := 0
	grandSum := 0.0
	for _, g := range groups {
		for _, v := range g {
			grandSum += v
		}
		totalN += len(g)
	}
	if totalN <= len(groups) {
		return AnovaResult{}, core.ErrInsufficientData
	}
	grandMean := grandSum / float64(totalN)

	ssBetween := 0.0
	ssWithin := 0.0
	for _, key := range order {
		g := groups[key]
		sum := 0.0
		for _, v := range g {
			sum += v
		}
		mean := sum / float64(len(g))
		diff := mean - grandMean
		ssBetween += float64(len(g)) * diff * diff
		for _, v := range g {
			d := v - mean
			ssWithin += d * d
		}
	}

	dfBetween := len(groups) - 1
	dfWithin := totalN - len(groups)
	if ssWithin == 0 {
		return AnovaResult{}, core.ErrInsufficientData
	}

	f := (ssBetween / float64(dfBetween)) / (ssWithin / float64(dfWithin))
	fDist := distuv.F{D1: float64(dfBetween), D2: float64(dfWithin)}

	return AnovaResult{
		FStatistic: f,
		PValue:     1 - fDist.CDF(f),
		DFBetween:  dfBetween,
		DFWithin:   dfWithin,
		Groups:     len(groups),
	}, nil
}
