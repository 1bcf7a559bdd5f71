// Package storeio implements the relational store on MySQL. Schema
// changes run through gorm migrations; the data phase uses plain SQL
// inside a single transaction.
package storeio

import (
	"database/sql"
	"log/slog"

	"github.com/geofr/commatlas/internal/ent/store"
	"github.com/geofr/commatlas/pkg/config"
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
	"github.com/geofr/commatlas/pkg/io/modelio"
)

type storeio struct {
	cfg config.Config
	db  *sql.DB
}

// New returns a new instance of Storer connected to MySQL.
func New(cfg config.Config) (store.Storer, error) {
	res := storeio{cfg: cfg}
	db, err := sqlConn(cfg)
	if err != nil {
		return nil, err
	}
	res.db = db
	return &res, nil
}

// Migrate creates the tables and their foreign keys. MySQL commits
// every DDL statement implicitly, so migrations stay outside the data
// transaction and are safe to rerun.
func (s *storeio) Migrate() error {
	grm, err := gormConn(s.cfg)
	if err != nil {
		return err
	}
	defer grm.Close()

	slog.Info("Running database migrations")
	m := modelio.New(grm)
	if err = m.Migrate(); err != nil {
		slog.Error("Cannot migrate database", "error", err)
		return err
	}
	slog.Info("Database migrations completed")
	return nil
}

// Store replaces the content of all four tables. The commune registry
// is filled before any dependent table, so foreign keys hold at every
// point inside the transaction.
func (s *storeio) Store(
	codes []commune.Code,
	samples []dataset.WaterSample,
	obs []dataset.RentObservation,
) error {
	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("Cannot begin transaction", "error", err)
		return err
	}

	err = s.storeAll(tx, codes, samples, obs)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		slog.Error("Cannot commit transaction", "error", err)
		return err
	}
	return nil
}

func (s *storeio) storeAll(
	tx *sql.Tx,
	codes []commune.Code,
	samples []dataset.WaterSample,
	obs []dataset.RentObservation,
) error {
	var err error
	if err = s.deleteAll(tx); err != nil {
		slog.Error("Cannot clear tables", "error", err)
		return err
	}
	if err = s.saveCommunes(tx, codes); err != nil {
		slog.Error("Cannot save commune registry", "error", err)
		return err
	}
	if err = s.saveWater(tx, samples); err != nil {
		slog.Error("Cannot save water observations", "error", err)
		return err
	}
	if err = s.saveRent(tx, obs); err != nil {
		slog.Error("Cannot save rent observations", "error", err)
		return err
	}
	if err = s.mergeAggregates(tx); err != nil {
		slog.Error("Cannot rebuild merged aggregates", "error", err)
		return err
	}
	return nil
}

// Merged reads merged_data back into an indicator. Every registered
// commune has exactly one row, so the accumulator mean is the stored
// value itself.
func (s *storeio) Merged() (dataset.Indicator, error) {
	q := `
SELECT insee_commune, bacterio_conformity, chemical_conformity,
  mean_loypredm2
FROM merged_data`
	rows, err := s.db.Query(q)
	if err != nil {
		slog.Error("Cannot read merged data", "error", err)
		return dataset.Indicator{}, err
	}
	defer rows.Close()

	acc := dataset.NewAccumulator(
		dataset.ColBacterio, dataset.ColChemical, dataset.ColMeanRent,
	)
	for rows.Next() {
		var code string
		var bact, chem, rent sql.NullFloat64
		err = rows.Scan(&code, &bact, &chem, &rent)
		if err != nil {
			slog.Error("Cannot scan merged row", "error", err)
			return dataset.Indicator{}, err
		}
		cd := commune.Code(code)
		acc.Observe(cd)
		if bact.Valid {
			acc.Add(cd, dataset.ColBacterio, bact.Float64)
		}
		if chem.Valid {
			acc.Add(cd, dataset.ColChemical, chem.Float64)
		}
		if rent.Valid {
			acc.Add(cd, dataset.ColMeanRent, rent.Float64)
		}
	}
	if err = rows.Err(); err != nil {
		return dataset.Indicator{}, err
	}
	return acc.Indicator(), nil
}

func (s *storeio) Close() error {
	return s.db.Close()
}
