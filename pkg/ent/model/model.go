// Package model defines the relational schema of the durable store.
// Every observation table carries a foreign key into the commune
// registry, so the registry is always populated first.
package model

import "database/sql"

// Model handles the schema of the relational store.
type Model interface {
	// Migrate creates the tables and their foreign keys.
	Migrate() error
}

// Commune is the registry of known commune codes, the target of every
// foreign key in the schema.
type Commune struct {
	// Code is the normalized INSEE code.
	Code string `gorm:"column:codgeo;type:char(5);primary_key"`
}

// TableName sets the table name for commune registry records.
func (Commune) TableName() string {
	return "commune"
}

// WaterObservation is one raw sampling row together with its binary
// conformity encodings.
type WaterObservation struct {
	ID int `gorm:"column:id;primary_key;auto_increment"`

	// Commune references the registry.
	Commune string `gorm:"column:inseecommune;type:char(5);not null;index"`

	// BacterioRaw and ChemicalRaw keep the source categorical codes.
	BacterioRaw sql.NullString `gorm:"column:plvconformitebacterio;type:varchar(10)"`
	ChemicalRaw sql.NullString `gorm:"column:plvconformitechimique;type:varchar(10)"`

	// Bacterio and Chemical are the binary encodings, 1 for "C".
	Bacterio int `gorm:"column:bacterio_conformity;type:tinyint"`
	Chemical int `gorm:"column:chemical_conformity;type:tinyint"`
}

// TableName sets the table name for water observations.
func (WaterObservation) TableName() string {
	return "water_data"
}

// RentObservation is one raw predicted-rent row.
type RentObservation struct {
	ID int `gorm:"column:id;primary_key;auto_increment"`

	// Commune references the registry.
	Commune string `gorm:"column:insee_c;type:char(5);not null;index"`

	// Category is the housing category the prediction file covers.
	Category string `gorm:"column:category;type:varchar(20)"`

	// Rent is the predicted rent per square meter, NULL when the
	// source cell failed numeric coercion.
	Rent sql.NullFloat64 `gorm:"column:loypredm2;type:decimal(10,2)"`
}

// TableName sets the table name for rent observations.
func (RentObservation) TableName() string {
	return "rent_data"
}

// MergedObservation is the database-side merged aggregate, one row
// per registered commune. NULL cells mean no usable source value.
type MergedObservation struct {
	ID int `gorm:"column:id;primary_key;auto_increment"`

	// Commune references the registry.
	Commune string `gorm:"column:insee_commune;type:char(5);not null;index"`

	Bacterio sql.NullFloat64 `gorm:"column:bacterio_conformity;type:decimal(4,3)"`
	Chemical sql.NullFloat64 `gorm:"column:chemical_conformity;type:decimal(4,3)"`
	MeanRent sql.NullFloat64 `gorm:"column:mean_loypredm2;type:decimal(10,2)"`
}

// TableName sets the table name for merged aggregates.
func (MergedObservation) TableName() string {
	return "merged_data"
}
