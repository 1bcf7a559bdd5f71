// Package dataset holds the typed rows read from the open-data files
// and the aggregation that reduces them to commune-level indicators.
// Nullable cells use database/sql null types, so a missing value stays
// distinguishable from zero all the way to the sinks.
package dataset

import (
	"database/sql"

	"github.com/geofr/commatlas/pkg/ent/commune"
)

// Indicator column names. They follow the source datasets and the
// relational schema, so files, maps and SQL stay mutually readable.
const (
	ColBacterio   = "bacterio_conformity"
	ColChemical   = "chemical_conformity"
	ColRent       = "loypredm2"
	ColMeanRent   = "mean_loypredm2"
	ColPopulation = "p21_pop"
)

// EncodeConformity converts a categorical sampling result into a
// binary indicator. Only the literal code "C" (conforme) counts as
// compliant; every other value, including an empty cell, yields 0.
// The simplification is intentional: the mean of the binary column is
// read downstream as a conformity rate.
func EncodeConformity(raw string) int {
	if raw == "C" {
		return 1
	}
	return 0
}

// WaterSample is one drinking-water sampling operation. The raw
// categorical codes are kept for the relational store; the binary
// encodings feed aggregation.
type WaterSample struct {
	Commune     commune.Code
	BacterioRaw string
	ChemicalRaw string
	Bacterio    int
	Chemical    int
}

// RentObservation is one predicted-rent row for a commune and a
// housing category.
type RentObservation struct {
	Commune   commune.Code
	Category  string
	RentPerM2 sql.NullFloat64
}

// PopulationCount is the legal population of one commune.
type PopulationCount struct {
	Commune    commune.Code
	Population sql.NullFloat64
}
