package dataset

import (
	"database/sql"
	"sort"

	"github.com/geofr/commatlas/pkg/ent/commune"
)

// Accumulator groups observations by commune code and keeps running
// sums per column. Missing cells are skipped entirely: they count
// neither toward the sum nor toward the mean's denominator. One
// accumulator serves every dataset family, so the grouping and
// missing-value policy cannot drift between them.
type Accumulator struct {
	columns []string
	index   map[string]int
	sums    map[commune.Code][]float64
	counts  map[commune.Code][]int
}

// NewAccumulator creates an accumulator for the given columns.
func NewAccumulator(columns ...string) *Accumulator {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}
	return &Accumulator{
		columns: columns,
		index:   index,
		sums:    make(map[commune.Code][]float64),
		counts:  make(map[commune.Code][]int),
	}
}

// Observe registers a commune even when its row carries no usable
// cells. An all-missing commune then surfaces as a row of missing
// values rather than disappearing from the indicator.
func (a *Accumulator) Observe(code commune.Code) {
	if _, ok := a.sums[code]; ok {
		return
	}
	a.sums[code] = make([]float64, len(a.columns))
	a.counts[code] = make([]int, len(a.columns))
}

// Add folds one present cell into the commune's running mean.
func (a *Accumulator) Add(code commune.Code, column string, v float64) {
	i, ok := a.index[column]
	if !ok {
		return
	}
	a.Observe(code)
	a.sums[code][i] += v
	a.counts[code][i]++
}

// Indicator closes the accumulator and returns per-commune means.
// A column with zero present cells for a commune yields a missing
// value, never 0.
func (a *Accumulator) Indicator() Indicator {
	rows := make(map[commune.Code][]sql.NullFloat64, len(a.sums))
	for code, sums := range a.sums {
		row := make([]sql.NullFloat64, len(a.columns))
		for i, sum := range sums {
			if n := a.counts[code][i]; n > 0 {
				row[i] = sql.NullFloat64{Float64: sum / float64(n), Valid: true}
			}
		}
		rows[code] = row
	}

	index := make(map[string]int, len(a.columns))
	columns := make([]string, len(a.columns))
	copy(columns, a.columns)
	for i, col := range columns {
		index[col] = i
	}
	return Indicator{columns: columns, index: index, rows: rows}
}

// AggregateWater reduces sampling operations to per-commune
// conformity rates, the mean of the binary conformity encodings.
func AggregateWater(samples []WaterSample) Indicator {
	acc := NewAccumulator(ColBacterio, ColChemical)
	for _, s := range samples {
		acc.Add(s.Commune, ColBacterio, float64(s.Bacterio))
		acc.Add(s.Commune, ColChemical, float64(s.Chemical))
	}
	return acc.Indicator()
}

// AggregateRent reduces rent predictions to one mean per commune.
// All source files are concatenated beforehand, so every observation
// weighs equally regardless of its housing category.
func AggregateRent(obs []RentObservation) Indicator {
	acc := NewAccumulator(ColRent)
	for _, o := range obs {
		acc.Observe(o.Commune)
		if o.RentPerM2.Valid {
			acc.Add(o.Commune, ColRent, o.RentPerM2.Float64)
		}
	}
	return acc.Indicator().Renamed(ColRent, ColMeanRent)
}

// AggregateRentByCategory splits the rent mean into one column per
// housing category. Column names are mean_loypredm2_<category>, in
// lexical category order.
func AggregateRentByCategory(obs []RentObservation) Indicator {
	catSet := make(map[string]struct{})
	for _, o := range obs {
		catSet[o.Category] = struct{}{}
	}
	cats := make([]string, 0, len(catSet))
	for c := range catSet {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	columns := make([]string, len(cats))
	for i, c := range cats {
		columns[i] = ColMeanRent + "_" + c
	}

	acc := NewAccumulator(columns...)
	for _, o := range obs {
		acc.Observe(o.Commune)
		if o.RentPerM2.Valid {
			acc.Add(o.Commune, ColMeanRent+"_"+o.Category, o.RentPerM2.Float64)
		}
	}
	return acc.Indicator()
}

// AggregatePopulation keys census counts by commune. The census file
// already carries one row per commune; duplicate rows, if any,
// average out deterministically.
func AggregatePopulation(counts []PopulationCount) Indicator {
	acc := NewAccumulator(ColPopulation)
	for _, c := range counts {
		acc.Observe(c.Commune)
		if c.Population.Valid {
			acc.Add(c.Commune, ColPopulation, c.Population.Float64)
		}
	}
	return acc.Indicator()
}
