package storeio

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
)

// deleteAll clears the tables children first. TRUNCATE commits
// implicitly in MySQL, so DELETE keeps the wipe inside the
// transaction.
func (s *storeio) deleteAll(tx *sql.Tx) error {
	tbls := []string{"merged_data", "water_data", "rent_data", "commune"}
	for _, tbl := range tbls {
		if _, err := tx.Exec("DELETE FROM " + tbl); err != nil {
			slog.Error("Cannot clear table", "table", tbl, "error", err)
			return err
		}
	}
	return nil
}

// insertRows saves rows with multi-row INSERT statements, chunked so
// the placeholder count stays under the MySQL protocol limit.
func (s *storeio) insertRows(
	tx *sql.Tx,
	tbl string,
	columns []string,
	rows [][]any,
) error {
	size := s.cfg.BatchSize
	if size < 1 {
		size = len(rows)
	}
	one := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		chunk := rows[start:end]
		ph := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			ph[i] = one
			args = append(args, row...)
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			tbl, strings.Join(columns, ", "), strings.Join(ph, ","))
		if _, err := tx.Exec(q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *storeio) saveCommunes(tx *sql.Tx, codes []commune.Code) error {
	rows := make([][]any, len(codes))
	for i, c := range codes {
		rows[i] = []any{string(c)}
	}
	err := s.insertRows(tx, "commune", []string{"codgeo"}, rows)
	if err != nil {
		return err
	}
	slog.Info("Saved commune registry",
		"records", humanize.Comma(int64(len(codes))))
	return nil
}

func (s *storeio) saveWater(tx *sql.Tx, samples []dataset.WaterSample) error {
	columns := []string{
		"inseecommune", "plvconformitebacterio", "plvconformitechimique",
		"bacterio_conformity", "chemical_conformity",
	}
	rows := make([][]any, len(samples))
	for i, v := range samples {
		rows[i] = []any{
			string(v.Commune), nullStr(v.BacterioRaw), nullStr(v.ChemicalRaw),
			v.Bacterio, v.Chemical,
		}
	}
	err := s.insertRows(tx, "water_data", columns, rows)
	if err != nil {
		return err
	}
	slog.Info("Saved water observations",
		"records", humanize.Comma(int64(len(samples))))
	return nil
}

func (s *storeio) saveRent(tx *sql.Tx, obs []dataset.RentObservation) error {
	columns := []string{"insee_c", "category", "loypredm2"}
	rows := make([][]any, len(obs))
	for i, v := range obs {
		rows[i] = []any{string(v.Commune), v.Category, v.RentPerM2}
	}
	err := s.insertRows(tx, "rent_data", columns, rows)
	if err != nil {
		return err
	}
	slog.Info("Saved rent observations",
		"records", humanize.Comma(int64(len(obs))))
	return nil
}

// mergeAggregates rebuilds merged_data from the observation tables.
// Seeding from the registry keeps one row per commune even when a
// source never mentions it. AVG skips NULL cells and returns NULL for
// an all-NULL group, so a missing aggregate stays NULL.
func (s *storeio) mergeAggregates(tx *sql.Tx) error {
	qs := []string{
		`INSERT INTO merged_data (insee_commune) SELECT codgeo FROM commune`,
		`UPDATE merged_data m
JOIN (
  SELECT inseecommune, AVG(bacterio_conformity) AS bact,
    AVG(chemical_conformity) AS chem
  FROM water_data
  GROUP BY inseecommune
) w ON m.insee_commune = w.inseecommune
SET m.bacterio_conformity = w.bact, m.chemical_conformity = w.chem`,
		`UPDATE merged_data m
JOIN (
  SELECT insee_c, AVG(loypredm2) AS rent
  FROM rent_data
  GROUP BY insee_c
) r ON m.insee_commune = r.insee_c
SET m.mean_loypredm2 = r.rent`,
	}
	for _, q := range qs {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}
	slog.Info("Rebuilt merged aggregates")
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
