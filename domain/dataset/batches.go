package dataset

import (
	"sort"

	"crosstab/domain/core"
)

// Split is one sub-dataset produced by partitioning on a batch column
type Split struct {
	Value string
	Data  *Dataset
}

// SplitByColumn partitions the dataset by the distinct values of batchCol.
// Records with a missing batch value are excluded. Splits come back sorted
// by batch value so repeated runs enumerate them in the same order.
func SplitByColumn(d *Dataset, batchCol string) ([]Split, error) {
	if !d.HasColumn(batchCol) {
		return nil, core.NewMissingColumnError(batchCol)
	}

	groups := make(map[string][]Record)
	for _, rec := range d.Records {
		val := rec[batchCol]
		if IsMissing(val) {
			continue
		}
		groups[val] = append(groups[val], rec)
	}

	values := make([]string, 0, len(groups))
	for val := range groups {
		values = append(values, val)
	}
	sort.Strings(values)

	splits := make([]Split, 0, len(values))
	for _, val := range values {
		columns := make([]string, len(d.Columns))
		copy(columns, d.Columns)
		splits = append(splits, Split{
			Value: val,
			Data:  &Dataset{Columns: columns, Records: groups[val]},
		})
	}
	return splits, nil
}

// SlidingWindows cuts the dataset into row windows of windowSize advancing by
// step. The final window may be shorter. Record order is preserved, so the
// caller should sort beforehand if window position matters.
func SlidingWindows(d *Dataset, windowSize, step int) []*Dataset {
	if windowSize <= 0 || step <= 0 {
		return nil
	}

	var windows []*Dataset
	n := len(d.Records)
	for start := 0; start < n; start += step {
		end := start + windowSize
		if end > n {
			end = n
		}
		columns := make([]string, len(d.Columns))
		copy(columns, d.Columns)
		windows = append(windows, &Dataset{Columns: columns, Records: d.Records[start:end]})
		if end == n {
			break
		}
	}
	return windows
}
