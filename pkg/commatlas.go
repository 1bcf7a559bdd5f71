package commatlas

import (
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/geofr/commatlas/internal/ent/export"
	"github.com/geofr/commatlas/internal/ent/ingest"
	"github.com/geofr/commatlas/internal/ent/render"
	"github.com/geofr/commatlas/internal/ent/store"
	"github.com/geofr/commatlas/pkg/config"
	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
	"github.com/geofr/commatlas/pkg/stats"
	"golang.org/x/sync/errgroup"
)

// corrColumns is the canonical column order of the correlation
// matrix. Columns absent from a table are skipped.
var corrColumns = []string{
	dataset.ColBacterio,
	dataset.ColChemical,
	dataset.ColMeanRent,
	dataset.ColPopulation,
}

// mapFiles maps indicator columns to artifact base names. A column
// without an entry uses its own name.
var mapFiles = map[string]string{
	dataset.ColBacterio:   "bacterio_conformity",
	dataset.ColChemical:   "chemical_conformity",
	dataset.ColMeanRent:   "mean_rent",
	dataset.ColPopulation: "population",
}

// mapTitles maps indicator columns to map titles.
var mapTitles = map[string]string{
	dataset.ColBacterio:   "Conformité Bactériologique",
	dataset.ColChemical:   "Conformité Chimique",
	dataset.ColMeanRent:   "Loyers Moyens par Commune",
	dataset.ColPopulation: "Population Municipale (2021)",
}

// commatlas is an implementation of Commatlas interface.
type commatlas struct {
	cfg config.Config
}

// New creates a new instance of Commatlas.
func New(cfg config.Config) Commatlas {
	res := commatlas{cfg: cfg}
	return &res
}

// Assemble loads the sources, aggregates them by commune and joins
// the aggregates onto the boundary layer.
func (c *commatlas) Assemble(ing ingest.Ingestor) (*atlas.Table, error) {
	regions, err := ing.Regions()
	if err != nil {
		slog.Error("Cannot load commune boundaries", "error", err)
		return nil, err
	}
	samples, err := ing.Water()
	if err != nil {
		slog.Error("Cannot load water samplings", "error", err)
		return nil, err
	}
	obs, err := ing.Rent()
	if err != nil {
		slog.Error("Cannot load rent predictions", "error", err)
		return nil, err
	}
	counts, err := ing.Population()
	if err != nil {
		slog.Error("Cannot load census population", "error", err)
		return nil, err
	}

	indicators := []dataset.Indicator{
		dataset.AggregateWater(samples),
		dataset.AggregateRent(obs),
	}
	if c.cfg.RentByCategory {
		indicators = append(indicators, dataset.AggregateRentByCategory(obs))
	}
	if len(counts) > 0 {
		indicators = append(indicators, dataset.AggregatePopulation(counts))
	}

	t, err := atlas.Join(regions, indicators...)
	if err != nil {
		slog.Error("Cannot join indicators to boundaries", "error", err)
		return nil, err
	}

	st := ing.Stats()
	slog.Info("Assembled commune atlas",
		"communes", humanize.Comma(int64(t.Len())),
		"columns", len(t.Columns()),
		"water_rows", st.Water.Rows,
		"rent_rows", st.Rent.Rows,
		"population_rows", st.Population.Rows,
	)
	return t, nil
}

// Correlate computes the correlation matrix over the standard
// indicator columns the table carries.
func (c *commatlas) Correlate(t *atlas.Table) (stats.Matrix, error) {
	cols := make([]string, 0, len(corrColumns))
	for _, col := range corrColumns {
		if _, ok := t.Column(col); ok {
			cols = append(cols, col)
		}
	}
	m, err := stats.Correlate(t, cols)
	if err != nil {
		slog.Error("Cannot compute correlations", "error", err)
		return stats.Matrix{}, err
	}
	slog.Info("Computed correlation matrix",
		"columns", len(m.Columns), "complete_cases", m.Cases)
	return m, nil
}

// Render draws one static map per indicator column, interactive maps
// when they are enabled, and the correlation heatmap. Maps render
// concurrently up to the configured number of jobs.
func (c *commatlas) Render(
	r render.Renderer,
	t *atlas.Table,
	m stats.Matrix,
) error {
	var g errgroup.Group
	g.SetLimit(c.cfg.JobsNum)

	for _, col := range t.Columns() {
		base, ok := mapFiles[col]
		if !ok {
			base = col
		}
		title, ok := mapTitles[col]
		if !ok {
			title = col
		}
		g.Go(func() error {
			path := filepath.Join(c.cfg.OutputDir, base+".png")
			return r.StaticMap(t, col, title, path)
		})
		if c.cfg.InteractiveMaps {
			g.Go(func() error {
				path := filepath.Join(c.cfg.OutputDir, base+".html")
				return r.InteractiveMap(t, col, title, path)
			})
		}
	}
	if len(m.Columns) > 0 {
		g.Go(func() error {
			path := filepath.Join(c.cfg.OutputDir, "correlation_heatmap.png")
			return r.Heatmap(m, path)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Cannot render maps", "error", err)
		return err
	}
	slog.Info("Rendered maps", "dir", c.cfg.OutputDir)
	return nil
}

// Export writes the merged table and the correlation matrix next to
// the maps.
func (c *commatlas) Export(
	e export.Exporter,
	t *atlas.Table,
	m stats.Matrix,
) error {
	path := filepath.Join(c.cfg.OutputDir, "atlas.csv")
	if err := e.Table(t, path); err != nil {
		slog.Error("Cannot export atlas table", "error", err)
		return err
	}
	if len(m.Columns) > 0 {
		path = filepath.Join(c.cfg.OutputDir, "correlation.json")
		if err := e.Correlation(m, path); err != nil {
			slog.Error("Cannot export correlation matrix", "error", err)
			return err
		}
	}
	return nil
}

// Store migrates the schema and saves raw observations. The commune
// registry receives the union of every code the observation tables
// reference, so the foreign keys always resolve.
func (c *commatlas) Store(st store.Storer, ing ingest.Ingestor) error {
	samples, err := ing.Water()
	if err != nil {
		slog.Error("Cannot load water samplings", "error", err)
		return err
	}
	obs, err := ing.Rent()
	if err != nil {
		slog.Error("Cannot load rent predictions", "error", err)
		return err
	}

	wc := make([]commune.Code, len(samples))
	for i, s := range samples {
		wc[i] = s.Commune
	}
	rc := make([]commune.Code, len(obs))
	for i, o := range obs {
		rc[i] = o.Commune
	}
	codes := commune.Union(wc, rc)

	if err = st.Migrate(); err != nil {
		return err
	}
	if err = st.Store(codes, samples, obs); err != nil {
		return err
	}
	slog.Info("Stored observations",
		"communes", humanize.Comma(int64(len(codes))),
		"water", humanize.Comma(int64(len(samples))),
		"rent", humanize.Comma(int64(len(obs))),
	)
	return nil
}
