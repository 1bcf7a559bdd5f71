// Package stats computes descriptive statistics over atlas columns.
package stats

import (
	"fmt"
	"math"

	"github.com/geofr/commatlas/pkg/ent/atlas"
	"gonum.org/v1/gonum/stat"
)

// Matrix is a Pearson correlation matrix over named atlas columns.
// Cases is the number of complete rows the coefficients are based on.
// Degenerate cells (too few rows, zero variance) hold NaN.
type Matrix struct {
	Columns []string
	Coef    [][]float64
	Cases   int
}

// Correlate builds the correlation matrix for the given columns using
// complete-case analysis: a row participates only when every selected
// column has a value there. Degenerate inputs produce NaN cells, not
// errors; an unknown column is an error.
func Correlate(t *atlas.Table, columns []string) (Matrix, error) {
	res := Matrix{Columns: columns}
	if len(columns) == 0 {
		return res, nil
	}

	for _, col := range columns {
		if _, ok := t.Column(col); !ok {
			return res, fmt.Errorf("stats: unknown column %q", col)
		}
	}

	cols := make([][]float64, len(columns))
	for i := range cols {
		cols[i] = make([]float64, 0, t.Len())
	}

	for row := 0; row < t.Len(); row++ {
		complete := true
		vals := make([]float64, len(columns))
		for i, col := range columns {
			v := t.Value(row, col)
			if !v.Valid {
				complete = false
				break
			}
			vals[i] = v.Float64
		}
		if !complete {
			continue
		}
		for i := range columns {
			cols[i] = append(cols[i], vals[i])
		}
	}
	res.Cases = len(cols[0])

	res.Coef = make([][]float64, len(columns))
	for i := range res.Coef {
		res.Coef[i] = make([]float64, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			r := pearson(cols[i], cols[j])
			res.Coef[i][j] = r
			res.Coef[j][i] = r
		}
	}
	return res, nil
}

// pearson wraps gonum's correlation, pinning the degenerate cases to
// NaN instead of whatever 0/0 arithmetic would surface.
func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
