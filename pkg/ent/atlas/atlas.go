// Package atlas anchors the aggregated indicators onto the commune
// boundary layer. The resulting table backs every map, export and
// statistic; downstream components only read it.
package atlas

import (
	"database/sql"
	"fmt"

	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
	"github.com/twpayne/go-geom"
)

// Region is one commune boundary from the GeoJSON layer.
type Region struct {
	Commune  commune.Code
	Name     string
	Boundary geom.T
}

// Table is the merged dataset: one row per region, in source order,
// with indicator columns attached by left join. The row count always
// equals the region count, no matter how many indicators matched.
type Table struct {
	regions []Region
	columns []string
	data    map[string][]sql.NullFloat64
}

// Join left-joins indicators onto the geometry layer. Every region
// appears exactly once; a region absent from an indicator gets
// missing cells for that indicator's columns. Both sides of the key
// comparison are normalized. Indicators must contribute distinct
// column names and may come in any order, the result is the same.
func Join(regions []Region, indicators ...dataset.Indicator) (*Table, error) {
	t := &Table{
		regions: make([]Region, len(regions)),
		data:    make(map[string][]sql.NullFloat64),
	}
	copy(t.regions, regions)

	for _, ind := range indicators {
		for _, col := range ind.Columns() {
			if _, ok := t.data[col]; ok {
				return nil, fmt.Errorf("atlas: column %q joined twice", col)
			}
			vals := make([]sql.NullFloat64, len(t.regions))
			for i, r := range t.regions {
				code := commune.NormalizeCode(string(r.Commune))
				vals[i] = ind.Value(code, col)
			}
			t.columns = append(t.columns, col)
			t.data[col] = vals
		}
	}
	return t, nil
}

// Len returns the number of rows, which equals the region count.
func (t *Table) Len() int {
	return len(t.regions)
}

// Columns lists the indicator columns in join order.
func (t *Table) Columns() []string {
	return t.columns
}

// Region returns the i-th region.
func (t *Table) Region(i int) Region {
	return t.regions[i]
}

// Value returns the cell of row i for the given column. An unknown
// column reads as missing.
func (t *Table) Value(i int, column string) sql.NullFloat64 {
	vals, ok := t.data[column]
	if !ok {
		return sql.NullFloat64{}
	}
	return vals[i]
}

// Column returns the full column by name.
func (t *Table) Column(column string) ([]sql.NullFloat64, bool) {
	vals, ok := t.data[column]
	return vals, ok
}

// Range reports the minimum and maximum over the column's present
// cells. ok is false when the column is unknown or entirely missing.
func (t *Table) Range(column string) (min, max float64, ok bool) {
	vals, found := t.data[column]
	if !found {
		return 0, 0, false
	}
	for _, v := range vals {
		if !v.Valid {
			continue
		}
		if !ok || v.Float64 < min {
			min = v.Float64
		}
		if !ok || v.Float64 > max {
			max = v.Float64
		}
		ok = true
	}
	return min, max, ok
}
