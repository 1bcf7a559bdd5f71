package sourceio

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
	"github.com/xuri/excelize/v2"
)

// Header cells of the census spreadsheet.
const (
	popKeyCol = "codgeo"
	popValCol = "p21_pop"
)

// Population loads the census spreadsheet. The dataset is optional;
// an empty configured path skips it entirely.
func (s *sourceio) Population() ([]dataset.PopulationCount, error) {
	if s.cfg.PopulationFile == "" {
		slog.Info("No census file configured, skipping population data")
		return nil, nil
	}

	path := s.cfg.PopulationFile
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("population: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("population: %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf(
			"population: %s: empty sheet %q: %w", path, sheet, ErrMissingColumn,
		)
	}

	keyIdx, valIdx := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case popKeyCol:
			keyIdx = i
		case popValCol:
			valIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, fmt.Errorf(
			"population: %s: column %q: %w", path, popKeyCol, ErrMissingColumn,
		)
	}
	if valIdx < 0 {
		return nil, fmt.Errorf(
			"population: %s: column %q: %w", path, popValCol, ErrMissingColumn,
		)
	}

	res := make([]dataset.PopulationCount, 0, len(rows)-1)
	for _, row := range rows[1:] {
		key := strings.TrimSpace(field(row, keyIdx))
		val := strings.TrimSpace(field(row, valIdx))
		if key == "" && val == "" {
			continue
		}
		res = append(res, dataset.PopulationCount{
			Commune:    commune.NormalizeCode(key),
			Population: s.parsePopulation(val),
		})
		s.stats.Population.Rows++
	}
	s.stats.Population.Files++

	slog.Info("Loaded census counts",
		"rows", humanize.Comma(int64(len(res))))
	return res, nil
}

func (s *sourceio) parsePopulation(raw string) sql.NullFloat64 {
	if raw == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.stats.Population.CoercedCells++
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
