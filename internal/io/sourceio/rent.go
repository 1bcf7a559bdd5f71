package sourceio

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/geofr/commatlas/internal/ent/ingest"
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
)

// Source columns of the predicted-rent dataset.
const (
	rentKeyCol = "INSEE_C"
	rentValCol = "loypredm2"
)

// Rent loads every configured rent-prediction file and concatenates
// their rows. The files are semicolon-delimited with decimal commas,
// and each file's byte encoding is detected independently.
func (s *sourceio) Rent() ([]dataset.RentObservation, error) {
	var res []dataset.RentObservation
	for _, path := range s.cfg.RentFiles {
		if err := s.rentFile(path, &res); err != nil {
			return nil, fmt.Errorf("rent: %w", err)
		}
	}
	slog.Info("Loaded rent predictions",
		"rows", humanize.Comma(int64(len(res))),
		"files", s.stats.Rent.Files)
	if n := s.stats.Rent.CoercedCells; n > 0 {
		slog.Debug("Some rent cells could not be read as numbers",
			"cells", n)
	}
	return res, nil
}

func (s *sourceio) rentFile(path string, res *[]dataset.RentObservation) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, fallback, err := detectedReader(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if fallback {
		s.stats.Rent.EncodingFallbacks++
	}

	src, err := newCSVSource(dec, path, ';')
	if err != nil {
		return err
	}
	idx, err := src.require(rentKeyCol, rentValCol)
	if err != nil {
		return err
	}

	category := rentCategory(path)
	for {
		rec, err := src.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		*res = append(*res, dataset.RentObservation{
			Commune:   commune.NormalizeCode(field(rec, idx[0])),
			Category:  category,
			RentPerM2: s.parseDecimal(field(rec, idx[1]), &s.stats.Rent),
		})
		s.stats.Rent.Rows++
	}
	s.stats.Rent.Files++
	return nil
}

// parseDecimal reads a number that may use a decimal comma. An empty
// cell is missing; a non-empty unparseable cell is coerced to missing
// and counted.
func (s *sourceio) parseDecimal(raw string, st *ingest.SourceStats) sql.NullFloat64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		st.CoercedCells++
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// rentCategory derives the housing-category label from the file name:
// "pred-app12-mef-dhup.csv" becomes "app12". A file outside the usual
// naming keeps its whole stem as the label.
func rentCategory(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimPrefix(base, "pred-")
	return strings.TrimSuffix(base, "-mef-dhup")
}
