package dataset

import (
	"strings"

	"crosstab/domain/core"
)

// Missing is the sentinel for an absent categorical value. Cleaning maps
// common textual null markers onto it so the exclusion rule is uniform.
const Missing = ""

// missingAliases are textual null markers normalized to Missing during cleaning
var missingAliases = map[string]struct{}{
	"nan":  {},
	"NaN":  {},
	"None": {},
	"NULL": {},
	"null": {},
	"NA":   {},
	"N/A":  {},
}

// Record maps column name to its raw categorical value for one observation
type Record map[string]string

// Dataset is an ordered, in-memory tabular collection with named columns.
// It is held read-only for the lifetime of a batch sweep.
type Dataset struct {
	Columns []string
	Records []Record
}

// New creates a dataset from column names and records
func New(columns []string, records []Record) *Dataset {
	return &Dataset{Columns: columns, Records: records}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// HasColumn checks whether a column exists in the dataset
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns all values of a column in record order
func (d *Dataset) Column(name string) ([]string, error) {
	if !d.HasColumn(name) {
		return nil, core.NewMissingColumnError(name)
	}
	values := make([]string, len(d.Records))
	for i, rec := range d.Records {
		values[i] = rec[name]
	}
	return values, nil
}

// Clean returns a copy with the given columns normalized: values are
// whitespace-trimmed and textual null markers become the Missing sentinel.
// Columns not listed are carried over untouched.
func (d *Dataset) Clean(columns ...string) (*Dataset, error) {
	for _, c := range columns {
		if !d.HasColumn(c) {
			return nil, core.NewMissingColumnError(c)
		}
	}

	cleanSet := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		cleanSet[c] = struct{}{}
	}

	records := make([]Record, len(d.Records))
	for i, rec := range d.Records {
		clone := make(Record, len(rec))
		for col, val := range rec {
			if _, ok := cleanSet[col]; ok {
				val = NormalizeValue(val)
			}
			clone[col] = val
		}
		records[i] = clone
	}

	columnsCopy := make([]string, len(d.Columns))
	copy(columnsCopy, d.Columns)
	return &Dataset{Columns: columnsCopy, Records: records}, nil
}

// NormalizeValue trims whitespace and maps textual null markers to Missing
func NormalizeValue(val string) string {
	val = strings.TrimSpace(val)
	if _, ok := missingAliases[val]; ok {
		return Missing
	}
	return val
}

// IsMissing reports whether a value is the missing sentinel
func IsMissing(val string) bool {
	return val == Missing
}
