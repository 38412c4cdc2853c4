package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosstab/domain/core"
)

func TestClean_NormalizesNullMarkersAndWhitespace(t *testing.T) {
	ds := New([]string{"region", "type"}, []Record{
		{"region": "  North ", "type": "Flat"},
		{"region": "nan", "type": "None"},
		{"region": "NA", "type": "N/A"},
		{"region": "South", "type": "NULL"},
	})

	cleaned, err := ds.Clean("region", "type")
	require.NoError(t, err)

	assert.Equal(t, "North", cleaned.Records[0]["region"])
	assert.Equal(t, Missing, cleaned.Records[1]["region"])
	assert.Equal(t, Missing, cleaned.Records[1]["type"])
	assert.Equal(t, Missing, cleaned.Records[2]["region"])
	assert.Equal(t, Missing, cleaned.Records[2]["type"])
	assert.Equal(t, Missing, cleaned.Records[3]["type"])

	// Original dataset is untouched
	assert.Equal(t, "  North ", ds.Records[0]["region"])
	assert.Equal(t, "nan", ds.Records[1]["region"])
}

func TestClean_OnlyTouchesListedColumns(t *testing.T) {
	ds := New([]string{"a", "b"}, []Record{
		{"a": "nan", "b": "nan"},
	})

	cleaned, err := ds.Clean("a")
	require.NoError(t, err)

	assert.Equal(t, Missing, cleaned.Records[0]["a"])
	assert.Equal(t, "nan", cleaned.Records[0]["b"])
}

func TestClean_MissingColumn(t *testing.T) {
	ds := New([]string{"a"}, []Record{{"a": "x"}})

	_, err := ds.Clean("a", "nope")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "North", NormalizeValue(" North\t"))
	assert.Equal(t, Missing, NormalizeValue("NaN"))
	assert.Equal(t, Missing, NormalizeValue("  null "))
	assert.Equal(t, "na", NormalizeValue("na")) // only exact markers map
	assert.True(t, IsMissing(NormalizeValue("   ")))
}

func TestColumn(t *testing.T) {
	ds := New([]string{"region"}, []Record{
		{"region": "North"},
		{"region": "South"},
	})

	values, err := ds.Column("region")
	require.NoError(t, err)
	assert.Equal(t, []string{"North", "South"}, values)

	_, err = ds.Column("nope")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestSplitByColumn_SortedAndMissingExcluded(t *testing.T) {
	ds := New([]string{"batch", "v"}, []Record{
		{"batch": "b2", "v": "x"},
		{"batch": "b1", "v": "y"},
		{"batch": Missing, "v": "z"},
		{"batch": "b1", "v": "w"},
	})

	splits, err := SplitByColumn(ds, "batch")
	require.NoError(t, err)
	require.Len(t, splits, 2)

	assert.Equal(t, "b1", splits[0].Value)
	assert.Equal(t, 2, splits[0].Data.Len())
	assert.Equal(t, "b2", splits[1].Value)
	assert.Equal(t, 1, splits[1].Data.Len())
	assert.Equal(t, ds.Columns, splits[0].Data.Columns)
}

func TestSplitByColumn_MissingColumn(t *testing.T) {
	ds := New([]string{"a"}, []Record{{"a": "x"}})

	_, err := SplitByColumn(ds, "nope")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestSlidingWindows(t *testing.T) {
	records := make([]Record, 10)
	for i := range records {
		records[i] = Record{"v": "x"}
	}
	ds := New([]string{"v"}, records)

	overlapping := SlidingWindows(ds, 4, 3)
	require.Len(t, overlapping, 3)
	assert.Equal(t, 4, overlapping[0].Len())
	assert.Equal(t, 4, overlapping[1].Len())
	assert.Equal(t, 4, overlapping[2].Len())

	tumbling := SlidingWindows(ds, 4, 4)
	require.Len(t, tumbling, 3)
	// Trailing window is shorter
	assert.Equal(t, 2, tumbling[2].Len())

	assert.Nil(t, SlidingWindows(ds, 0, 3))
	assert.Nil(t, SlidingWindows(ds, 4, 0))
}
