package export

import (
	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/stats"
)

// Exporter writes atlas artifacts for downstream tools.
type Exporter interface {
	// Table writes the merged table as a CSV file.
	Table(t *atlas.Table, path string) error

	// Correlation writes the correlation matrix as a JSON file.
	Correlation(m stats.Matrix, path string) error
}
