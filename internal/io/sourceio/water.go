package sourceio

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Source columns of the drinking-water control dataset.
const (
	waterKeyCol      = "inseecommune"
	waterBacterioCol = "plvconformitebacterio"
	waterChemicalCol = "plvconformitechimique"
)

// Water loads every configured water-control file. The files are
// comma-delimited and always Latin-1 encoded, so no detection runs
// here. Rows from all files are concatenated.
func (s *sourceio) Water() ([]dataset.WaterSample, error) {
	var res []dataset.WaterSample
	for _, path := range s.cfg.WaterFiles {
		if err := s.waterFile(path, &res); err != nil {
			return nil, fmt.Errorf("water: %w", err)
		}
	}
	slog.Info("Loaded water control samples",
		"rows", humanize.Comma(int64(len(res))),
		"files", s.stats.Water.Files)
	return res, nil
}

func (s *sourceio) waterFile(path string, res *[]dataset.WaterSample) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	src, err := newCSVSource(dec, path, ',')
	if err != nil {
		return err
	}
	idx, err := src.require(waterKeyCol, waterBacterioCol, waterChemicalCol)
	if err != nil {
		return err
	}

	for {
		rec, err := src.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		bacterio := field(rec, idx[1])
		chemical := field(rec, idx[2])
		*res = append(*res, dataset.WaterSample{
			Commune:     commune.NormalizeCode(field(rec, idx[0])),
			BacterioRaw: bacterio,
			ChemicalRaw: chemical,
			Bacterio:    dataset.EncodeConformity(bacterio),
			Chemical:    dataset.EncodeConformity(chemical),
		})
		s.stats.Water.Rows++
	}
	s.stats.Water.Files++
	return nil
}
