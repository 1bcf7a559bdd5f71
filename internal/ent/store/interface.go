package store

import (
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
)

// Storer persists raw observations in the relational database and
// rebuilds the merged per-commune aggregate there with set-based SQL.
type Storer interface {
	// Migrate creates the schema: the commune registry first, then the
	// observation tables with foreign keys back to it.
	Migrate() error

	// Store runs the whole data phase in one transaction: clear
	// previous rows, fill the registry with every code that any
	// dependent table will reference, batch-insert the observations,
	// and rebuild the merged aggregate.
	Store(
		codes []commune.Code,
		samples []dataset.WaterSample,
		obs []dataset.RentObservation,
	) error

	// Merged reads the merged aggregate back as an indicator keyed by
	// commune.
	Merged() (dataset.Indicator, error)

	// Close releases the database handle.
	Close() error
}
