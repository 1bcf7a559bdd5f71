package render

import (
	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/stats"
)

// Renderer writes the atlas outputs: static choropleths for reports,
// interactive documents for exploration, and the correlation heatmap.
// Missing values must stay visually distinct from low values.
type Renderer interface {
	// StaticMap draws a choropleth of one column into a PNG file.
	StaticMap(t *atlas.Table, column, title, path string) error

	// InteractiveMap writes a self-contained Leaflet page for one
	// column.
	InteractiveMap(t *atlas.Table, column, title, path string) error

	// Heatmap draws the correlation matrix into a PNG file.
	Heatmap(m stats.Matrix, path string) error
}
