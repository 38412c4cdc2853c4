package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crosstab/adapters/excel"
	"crosstab/adapters/export"
	"crosstab/adapters/stats/engine"
	"crosstab/adapters/stats/tests"
	"crosstab/domain/crosstab"
	"crosstab/domain/dataset"
	"crosstab/internal/report"
	"crosstab/internal/testkit"
)

var (
	flagColumns   []string
	flagThreshold float64
	flagAlpha     float64
	flagYates     bool
	flagFormat    string
	flagOutXLSX   string
	flagPosthoc   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crosstab",
		Short: "Batch contingency-table analysis for categorical variables",
	}

	rootCmd.PersistentFlags().StringSliceVar(&flagColumns, "columns", nil, "columns to analyze (default: all detected categorical columns)")
	rootCmd.PersistentFlags().Float64Var(&flagThreshold, "expected-threshold", tests.DefaultExpectedCountThreshold, "expected cell count below which 2x2 tables use Fisher's exact test")
	rootCmd.PersistentFlags().Float64Var(&flagAlpha, "alpha", 0.05, "significance level for report labeling")
	rootCmd.PersistentFlags().BoolVar(&flagYates, "yates", true, "apply Yates continuity correction on 2x2 chi-square")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "markdown", "output format: markdown, json, csv")
	rootCmd.PersistentFlags().StringVar(&flagOutXLSX, "out-xlsx", "", "also write the report to an Excel workbook at this path")
	rootCmd.PersistentFlags().BoolVar(&flagPosthoc, "posthoc", false, "print Bonferroni-corrected pairwise posthoc comparisons for chi-square pairs")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newBatchesCmd(),
		newAnovaCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run a batch sweep over all pairs of categorical columns in a CSV/XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			return runSweep(ds)
		},
	}
}

func newBatchesCmd() *cobra.Command {
	var batchCol string

	cmd := &cobra.Command{
		Use:   "batches <file>",
		Short: "Split a dataset by a batch column and sweep each split independently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}

			eng := newEngine()
			batches, err := eng.SweepSplits(ds, batchCol, flagColumns)
			if err != nil {
				return err
			}

			for _, batch := range batches {
				fmt.Printf("## %s = %s\n\n", batchCol, batch.Value)
				if batch.Err != nil {
					fmt.Printf("sweep failed: %v\n\n", batch.Err)
					continue
				}
				rep := report.Summarize(batch.Result, flagAlpha)
				if err := printReport(rep); err != nil {
					return err
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&batchCol, "by", "", "column whose distinct values define the batches")
	cmd.MarkFlagRequired("by")
	return cmd
}

func newAnovaCmd() *cobra.Command {
	var numericCol, categoryCol string

	cmd := &cobra.Command{
		Use:   "anova <file>",
		Short: "One-way ANOVA of a numeric column across the groups of a categorical column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}

			result, err := tests.OneWayANOVA(ds, numericCol, categoryCol)
			if err != nil {
				return err
			}
			fmt.Printf("ANOVA %s ~ %s: F=%.3f, p=%.4f (df %d/%d, %d groups)\n",
				numericCol, categoryCol, result.FStatistic, result.PValue,
				result.DFBetween, result.DFWithin, result.Groups)
			return nil
		},
	}

	cmd.Flags().StringVar(&numericCol, "numeric", "", "numeric column")
	cmd.Flags().StringVar(&categoryCol, "by", "", "categorical grouping column")
	cmd.MarkFlagRequired("numeric")
	cmd.MarkFlagRequired("by")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var rows int
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the pipeline end-to-end on a seeded synthetic dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.NewGenerator(seed)
			ds := gen.Dataset(rows)
			cleaned, err := ds.Clean(ds.Columns...)
			if err != nil {
				return err
			}
			return runSweep(cleaned)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 2000, "number of synthetic records")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	return cmd
}

func newEngine() *engine.Engine {
	return engine.New(engine.Config{
		ExpectedCountThreshold: flagThreshold,
		YatesCorrection:        flagYates,
	})
}

func loadDataset(path string) (*dataset.Dataset, error) {
	ds, err := excel.NewDataReader(path).Read()
	if err != nil {
		return nil, err
	}
	return ds.Clean(ds.Columns...)
}

func runSweep(ds *dataset.Dataset) error {
	batch, err := newEngine().Sweep(ds, flagColumns)
	if err != nil {
		return err
	}
	rep := report.Summarize(batch, flagAlpha)

	if err := printReport(rep); err != nil {
		return err
	}
	if flagPosthoc {
		if err := printPosthoc(batch); err != nil {
			return err
		}
	}
	if flagOutXLSX != "" {
		if err := excel.NewReportWriter().Write(flagOutXLSX, rep, batch); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote workbook: %s\n", flagOutXLSX)
	}
	return nil
}

// printPosthoc writes one posthoc section per valid chi-square pair whose
// table has more than two row categories
func printPosthoc(batch *crosstab.BatchResult) error {
	opts := tests.Options{
		ExpectedCountThreshold: flagThreshold,
		YatesCorrection:        flagYates,
	}
	for _, result := range batch.Results {
		if result.Failed() || !result.Test.Valid ||
			result.Test.Test != crosstab.TestChiSquare || result.Table.Rows() <= 2 {
			continue
		}
		comparisons, err := tests.PairwisePosthoc(result.Table, flagAlpha, opts)
		if err != nil {
			return err
		}
		fmt.Printf("\n### Posthoc: %s\n", result.Pair)
		for _, c := range comparisons {
			fmt.Printf("%s vs %s: chi2=%.4f p=%.4f p_adj=%.4f significant=%t\n",
				c.RowA, c.RowB, c.Statistic, c.PValue, c.PAdjusted, c.Significant)
		}
	}
	return nil
}

func printReport(rep *report.Report) error {
	switch flagFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "csv":
		return export.WriteSummaryCSV(os.Stdout, rep)
	case "markdown":
		fmt.Print(rep.MarkdownTable())
		return nil
	default:
		return fmt.Errorf("unknown format: %s", flagFormat)
	}
}
