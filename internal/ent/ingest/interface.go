package ingest

import (
	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/ent/dataset"
)

// Ingestor loads the configured open-data sources into typed,
// commune-keyed rows. Keys are normalized at load time, before any
// caller can compare them.
type Ingestor interface {
	// Water loads and concatenates all drinking-water control files.
	Water() ([]dataset.WaterSample, error)

	// Rent loads and concatenates all predicted-rent files.
	Rent() ([]dataset.RentObservation, error)

	// Population loads the census spreadsheet. A nil slice without an
	// error means no census file is configured.
	Population() ([]dataset.PopulationCount, error)

	// Regions loads the commune boundary layer.
	Regions() ([]atlas.Region, error)

	// Stats reports diagnostics gathered while loading.
	Stats() Stats
}
