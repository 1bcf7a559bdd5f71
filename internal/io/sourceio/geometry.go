package sourceio

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Feature properties of the commune boundary layer.
const (
	geoKeyProp  = "codgeo"
	geoNameProp = "libgeo"
)

// Regions loads the commune boundary layer from a GeoJSON
// FeatureCollection. The key property may be a string or a number;
// either way it is normalized like every other join key.
func (s *sourceio) Regions() ([]atlas.Region, error) {
	path := s.cfg.GeometryFile
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}

	var fc geojson.FeatureCollection
	if err = json.Unmarshal(bs, &fc); err != nil {
		return nil, fmt.Errorf("geometry: %s: %w", path, err)
	}

	res := make([]atlas.Region, 0, len(fc.Features))
	for i, ft := range fc.Features {
		code, ok := propString(ft.Properties[geoKeyProp])
		if !ok {
			return nil, fmt.Errorf(
				"geometry: %s: feature %d: property %q: %w",
				path, i, geoKeyProp, ErrMissingColumn,
			)
		}
		name, _ := propString(ft.Properties[geoNameProp])
		res = append(res, atlas.Region{
			Commune:  commune.NormalizeCode(code),
			Name:     name,
			Boundary: ft.Geometry,
		})
		s.stats.Regions.Rows++
	}
	s.stats.Regions.Files++

	slog.Info("Loaded commune boundaries",
		"communes", humanize.Comma(int64(len(res))))
	return res, nil
}

// propString renders a GeoJSON property value as a string. Numeric
// values are formatted without a stray decimal, so a numeric-typed
// key cell normalizes the same way as its string form.
func propString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	}
	return "", false
}
