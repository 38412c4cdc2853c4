package excel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosstab/domain/dataset"
)

func TestReadCSV(t *testing.T) {
	src := strings.NewReader("Region,Type\nNorth,Flat\nSouth,Villa\n")

	ds, err := ReadCSV(src, ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"Region", "Type"}, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "North", ds.Records[0]["Region"])
	assert.Equal(t, "Villa", ds.Records[1]["Type"])
}

func TestReadCSV_ShortRowsPaddedWithMissing(t *testing.T) {
	src := strings.NewReader("a,b,c\n1,2\n")

	ds, err := ReadCSV(src, ',')
	require.NoError(t, err)

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "2", ds.Records[0]["b"])
	assert.Equal(t, dataset.Missing, ds.Records[0]["c"])
}

func TestReadCSV_BlankHeadersGetGeneratedNames(t *testing.T) {
	src := strings.NewReader("a,,c\n1,2,3\n")

	ds, err := ReadCSV(src, ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "column_2", "c"}, ds.Columns)
	assert.Equal(t, "2", ds.Records[0]["column_2"])
}

func TestReadCSV_TabDelimited(t *testing.T) {
	src := strings.NewReader("a\tb\n1\t2\n")

	ds, err := ReadCSV(src, '\t')
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ds.Columns)
	assert.Equal(t, "1", ds.Records[0]["a"])
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), ',')
	assert.Error(t, err)
}

func TestNewDataReader_TypeDetection(t *testing.T) {
	assert.Equal(t, "csv", NewDataReader("data.csv").fileType)
	assert.Equal(t, "csv", NewDataReader("data.TSV").fileType)
	assert.Equal(t, "xlsx", NewDataReader("data.xlsx").fileType)
}

func TestDataReader_FileNotFound(t *testing.T) {
	_, err := NewDataReader("/nonexistent/path/data.csv").Read()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
