package testkit

import (
	"fmt"
	"math/rand"

	"crosstab/domain/dataset"
)

// Generator produces seeded synthetic categorical datasets for demos and
// tests. The same seed always yields the same dataset.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with a fixed seed
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

var (
	regions       = []string{"North", "South", "East", "West"}
	propertyTypes = []string{"Apartment", "Independent", "Villa", "Studio"}
	satisfactions = []string{"Positive", "Neutral", "Negative"}
	satisfactionW = []float64{0.5, 0.2, 0.3}
)

// Dataset generates n records of synthetic survey data with categorical
// columns (Region, PropertyType, Satisfaction, District, BatchID), a numeric
// Price column, and ~2% injected missing PropertyType values
func (g *Generator) Dataset(n int) *dataset.Dataset {
	columns := []string{"Region", "PropertyType", "Satisfaction", "District", "BatchID", "Price"}
	records := make([]dataset.Record, 0, n)

	for i := 0; i < n; i++ {
		rec := dataset.Record{
			"Region":       regions[g.rng.Intn(len(regions))],
			"PropertyType": propertyTypes[g.rng.Intn(len(propertyTypes))],
			"Satisfaction": g.weightedChoice(satisfactions, satisfactionW),
			"District":     fmt.Sprintf("D%d", g.rng.Intn(10)+1),
			"BatchID":      fmt.Sprintf("Batch_%d", g.rng.Intn(5)+1),
			"Price":        fmt.Sprintf("%.0f", g.rng.NormFloat64()*2_000_000+5_000_000),
		}
		if g.rng.Float64() < 0.02 {
			rec["PropertyType"] = dataset.Missing
		}
		records = append(records, rec)
	}
	return dataset.New(columns, records)
}

// PairDataset builds a two-column dataset with exact cell counts, for tests
// that need a contingency table with known frequencies
func PairDataset(rowVar, colVar string, cells []CellCount) *dataset.Dataset {
	records := make([]dataset.Record, 0)
	for _, cell := range cells {
		for i := 0; i < cell.Count; i++ {
			records = append(records, dataset.Record{
				rowVar: cell.Row,
				colVar: cell.Col,
			})
		}
	}
	return dataset.New([]string{rowVar, colVar}, records)
}

// CellCount is one (row category, column category) frequency
type CellCount struct {
	Row   string
	Col   string
	Count int
}

func (g *Generator) weightedChoice(values []string, weights []float64) string {
	r := g.rng.Float64()
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return values[i]
		}
	}
	return values[len(values)-1]
}
