package commatlas

import (
	"github.com/geofr/commatlas/internal/ent/export"
	"github.com/geofr/commatlas/internal/ent/ingest"
	"github.com/geofr/commatlas/internal/ent/render"
	"github.com/geofr/commatlas/internal/ent/store"
	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/stats"
)

// Commatlas assembles French open data about communes into one
// geographic table and feeds it to analyses and sinks.
type Commatlas interface {
	// Assemble loads every configured source, aggregates observations
	// by commune and joins them onto the commune geometries.
	Assemble(ingest.Ingestor) (*atlas.Table, error)

	// Correlate computes the correlation matrix of the standard
	// indicator columns present in the table.
	Correlate(*atlas.Table) (stats.Matrix, error)

	// Render draws choropleth maps for every indicator column and a
	// heatmap of the correlation matrix.
	Render(render.Renderer, *atlas.Table, stats.Matrix) error

	// Export writes the table and the correlation matrix to files.
	Export(export.Exporter, *atlas.Table, stats.Matrix) error

	// Store saves raw water and rent observations to the relational
	// database and rebuilds the merged aggregate there.
	Store(store.Storer, ingest.Ingestor) error
}
