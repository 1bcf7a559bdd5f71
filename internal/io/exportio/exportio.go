// Package exportio writes atlas artifacts to disk, a CSV of the
// merged table and a JSON rendition of the correlation matrix.
package exportio

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/geofr/commatlas/internal/ent/export"
	"github.com/geofr/commatlas/pkg/config"
	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/stats"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

type exportio struct {
	cfg config.Config
}

// New returns a new instance of Exporter.
func New(cfg config.Config) (export.Exporter, error) {
	err := gnsys.MakeDir(cfg.OutputDir)
	if err != nil {
		slog.Error("Cannot create output directory",
			"dir", cfg.OutputDir, "error", err)
		return nil, err
	}
	return &exportio{cfg: cfg}, nil
}

// Table writes one CSV row per commune. A missing cell becomes an
// empty field, never a zero.
func (e *exportio) Table(t *atlas.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		slog.Error("Cannot create CSV file", "path", path, "error", err)
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append([]string{"codgeo", "libgeo"}, t.Columns()...)
	if err = w.Write(header); err != nil {
		return err
	}

	for i := 0; i < t.Len(); i++ {
		reg := t.Region(i)
		row := make([]string, 0, len(header))
		row = append(row, string(reg.Commune), reg.Name)
		for _, col := range t.Columns() {
			v := t.Value(i, col)
			var cell string
			if v.Valid {
				cell = strconv.FormatFloat(v.Float64, 'f', -1, 64)
			}
			row = append(row, cell)
		}
		if err = w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	if err = file.Sync(); err != nil {
		return err
	}
	fmt.Printf("Exported %s communes to a CSV file\n",
		humanize.Comma(int64(t.Len())))
	return nil
}

// corrExport is the JSON layout of a correlation matrix. NaN has no
// JSON rendition, so degenerate coefficients become null.
type corrExport struct {
	Columns []string     `json:"columns"`
	Cases   int          `json:"complete_cases"`
	Coef    [][]*float64 `json:"coefficients"`
}

// Correlation writes the matrix as pretty-printed JSON.
func (e *exportio) Correlation(m stats.Matrix, path string) error {
	out := corrExport{
		Columns: m.Columns,
		Cases:   m.Cases,
		Coef:    make([][]*float64, len(m.Coef)),
	}
	for i, row := range m.Coef {
		out.Coef[i] = make([]*float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			v := v
			out.Coef[i][j] = &v
		}
	}

	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(out)
	if err != nil {
		slog.Error("Cannot encode correlation matrix", "error", err)
		return err
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		slog.Error("Cannot write JSON file", "path", path, "error", err)
		return err
	}
	return nil
}
