package engine

import (
	"fmt"
	"sort"

	"crosstab/adapters/stats/tabulate"
	"crosstab/adapters/stats/tests"
	"crosstab/domain/core"
	"crosstab/domain/crosstab"
	"crosstab/domain/dataset"
	"crosstab/internal/profiling"
)

// Config controls a batch sweep
type Config struct {
	ExpectedCountThreshold float64
	YatesCorrection        bool
}

// DefaultConfig returns the standard sweep configuration
func DefaultConfig() Config {
	return Config{
		ExpectedCountThreshold: tests.DefaultExpectedCountThreshold,
		YatesCorrection:        true,
	}
}

// Engine enumerates variable pairs and drives the per-pair pipeline:
// table builder -> test selector/runner -> effect size. One engine instance
// assembles one BatchResult per Sweep call; pairs are processed strictly in
// order and a pair's failure never aborts the batch.
type Engine struct {
	cfg Config
}

// New creates a batch engine
func New(cfg Config) *Engine {
	if cfg.ExpectedCountThreshold <= 0 {
		cfg.ExpectedCountThreshold = tests.DefaultExpectedCountThreshold
	}
	return &Engine{cfg: cfg}
}

// Sweep runs the full pipeline over every unordered pair of the requested
// columns. A nil or empty column list means all detected categorical columns.
// Every requested pair appears in the result exactly once, either with a full
// result or an error marker.
func (e *Engine) Sweep(ds *dataset.Dataset, columns []string) (*crosstab.BatchResult, error) {
	if len(columns) == 0 {
		detected, err := profiling.CategoricalColumns(ds)
		if err != nil {
			return nil, err
		}
		columns = detected
	}

	// Lexicographic column order, then combinatorial enumeration: repeated
	// runs over the same input always yield pairs in the same order
	sorted := make([]string, len(columns))
	copy(sorted, columns)
	sort.Strings(sorted)

	result := &crosstab.BatchResult{
		ID:        core.NewID(),
		CreatedAt: core.Now(),
		Columns:   sorted,
	}
	// Fewer than 2 columns enumerates zero pairs; the batch is empty but
	// still a valid outcome
	if len(sorted) < 2 {
		return result, nil
	}

	eligible := e.checkColumns(ds, sorted)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			pair := crosstab.NewPair(sorted[i], sorted[j])
			result.Results = append(result.Results, e.runPair(ds, pair, eligible))
		}
	}
	return result, nil
}

// SweepBatch is one split's sweep in a batch-column run
type SweepBatch struct {
	Value  string
	Result *crosstab.BatchResult
	Err    error
}

// SweepSplits partitions the dataset by batchCol and sweeps each split
// independently. A split that fails to sweep is recorded, not dropped.
func (e *Engine) SweepSplits(ds *dataset.Dataset, batchCol string, columns []string) ([]SweepBatch, error) {
	splits, err := dataset.SplitByColumn(ds, batchCol)
	if err != nil {
		return nil, err
	}

	batches := make([]SweepBatch, 0, len(splits))
	for _, split := range splits {
		result, sweepErr := e.Sweep(split.Data, columns)
		batches = append(batches, SweepBatch{Value: split.Value, Result: result, Err: sweepErr})
	}
	return batches, nil
}

// checkColumns validates each requested column once; per-pair processing
// consults the outcome so both pairs touching a bad column record the error
func (e *Engine) checkColumns(ds *dataset.Dataset, columns []string) map[string]error {
	eligible := make(map[string]error, len(columns))
	for _, col := range columns {
		if !ds.HasColumn(col) {
			eligible[col] = core.NewMissingColumnError(col)
			continue
		}
		eligible[col] = profiling.CheckCategorical(ds, col)
	}
	return eligible
}

// runPair executes the pipeline for one pair, converting any failure into
// the pair's error marker
func (e *Engine) runPair(ds *dataset.Dataset, pair crosstab.Pair, eligible map[string]error) (res crosstab.PairResult) {
	res = crosstab.PairResult{Pair: pair}

	// Per-pair isolation: an unexpected fault in one pair must not take
	// down the batch
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Sprintf("pair processing panicked: %v", r)
		}
	}()

	for _, col := range []string{pair.A, pair.B} {
		if err := eligible[col]; err != nil {
			res.Err = err.Error()
			return res
		}
	}

	table, err := tabulate.Build(ds, pair)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Table = table

	opts := tests.Options{
		ExpectedCountThreshold: e.cfg.ExpectedCountThreshold,
		YatesCorrection:        e.cfg.YatesCorrection,
	}
	test, err := tests.Run(table, opts)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Test = test
	res.Effect = tests.CramersV(table, test)
	return res
}
