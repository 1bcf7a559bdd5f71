package dataset

import (
	"database/sql"
	"sort"

	"github.com/geofr/commatlas/pkg/ent/commune"
)

// Indicator is a commune-keyed table of named numeric columns, the
// result of one aggregation. It carries at most one row per commune.
// Indicators are immutable once built; Renamed returns a new value.
type Indicator struct {
	columns []string
	index   map[string]int
	rows    map[commune.Code][]sql.NullFloat64
}

// Columns lists the column names in their declared order.
func (ind Indicator) Columns() []string {
	return ind.columns
}

// Len returns the number of communes in the indicator.
func (ind Indicator) Len() int {
	return len(ind.rows)
}

// Codes returns all commune codes in lexical order.
func (ind Indicator) Codes() []commune.Code {
	res := make([]commune.Code, 0, len(ind.rows))
	for c := range ind.rows {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Value returns the cell for a commune and column. A commune or
// column that is not present reads as a missing value.
func (ind Indicator) Value(code commune.Code, column string) sql.NullFloat64 {
	i, ok := ind.index[column]
	if !ok {
		return sql.NullFloat64{}
	}
	row, ok := ind.rows[code]
	if !ok {
		return sql.NullFloat64{}
	}
	return row[i]
}

// Renamed returns a copy of the indicator with one column renamed.
func (ind Indicator) Renamed(from, to string) Indicator {
	res := Indicator{
		columns: make([]string, len(ind.columns)),
		index:   make(map[string]int, len(ind.index)),
		rows:    ind.rows,
	}
	for i, col := range ind.columns {
		if col == from {
			col = to
		}
		res.columns[i] = col
		res.index[col] = i
	}
	return res
}
