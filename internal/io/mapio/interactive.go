package mapio

import (
	"encoding/json"
	"fmt"
	"html/template"
	"image/color"
	"os"
	"strconv"

	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// France-wide view used by every interactive map.
const (
	franceLat  = 46.603354
	franceLng  = 1.888334
	franceZoom = 6
)

// leafletPage is a self-contained interactive map document. The
// boundary layer and the per-commune styling are inlined, so the file
// opens straight from disk.
const leafletPage = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .legend {
    background: white; padding: 8px 10px; font: 12px sans-serif;
    border-radius: 4px; box-shadow: 0 0 8px rgba(0,0,0,0.3);
  }
  .legend .bar {
    width: 160px; height: 12px; margin: 4px 0;
    background: linear-gradient(to right, {{.LoColor}}, {{.HiColor}});
  }
  .legend .missing { background: {{.MissingColor}}; display: inline-block;
    width: 12px; height: 12px; margin-right: 4px; vertical-align: middle; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map("map").setView([{{.Lat}}, {{.Lng}}], {{.Zoom}});
L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
  attribution: "&copy; OpenStreetMap contributors"
}).addTo(map);

var communes = {{.GeoJSON}};

L.geoJSON(communes, {
  style: function (f) {
    return {
      color: "#666666",
      weight: 0.5,
      fillColor: f.properties.fill,
      fillOpacity: 0.7
    };
  },
  onEachFeature: function (f, layer) {
    var p = f.properties;
    layer.bindPopup(
      "<b>" + p.libgeo + "</b> (" + p.codgeo + ")<br>" +
      {{.ColumnJS}} + " : " + p.value
    );
  }
}).addTo(map);

var legend = L.control({position: "bottomright"});
legend.onAdd = function () {
  var div = L.DomUtil.create("div", "legend");
  div.innerHTML =
    "<b>{{.Title}}</b>" +
    '<div class="bar"></div>' +
    "<span>{{.MinLabel}}</span> &ndash; <span>{{.MaxLabel}}</span><br>" +
    '<span class="missing"></span>Données manquantes';
  return div;
};
legend.addTo(map);
</script>
</body>
</html>
`

var leafletTmpl = template.Must(template.New("leaflet").Parse(leafletPage))

type leafletData struct {
	Title        string
	ColumnJS     template.JS
	GeoJSON      template.JS
	LoColor      template.CSS
	HiColor      template.CSS
	MissingColor template.CSS
	MinLabel     string
	MaxLabel     string
	Lat          float64
	Lng          float64
	Zoom         int
}

// InteractiveMap writes a Leaflet page for one column. Fill colors
// are precomputed per commune; missing values get the grey fill and
// an explicit popup label.
func (m *mapio) InteractiveMap(t *atlas.Table, column, title, path string) error {
	vals, ok := t.Column(column)
	if !ok {
		return fmt.Errorf("mapio: unknown column %q", column)
	}

	min, max, hasRange := t.Range(column)
	scale := columnRamp(column, min, max)

	feats := make([]*geojson.Feature, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		r := t.Region(i)
		if r.Boundary == nil {
			continue
		}
		fill := hexColor(missingColor)
		value := "Donnée manquante"
		if v := vals[i]; v.Valid && hasRange {
			fill = hexColor(scale.at(v.Float64))
			value = strconv.FormatFloat(v.Float64, 'f', 2, 64)
		}
		feats = append(feats, &geojson.Feature{
			Geometry: r.Boundary,
			Properties: map[string]any{
				"codgeo": string(r.Commune),
				"libgeo": r.Name,
				"value":  value,
				"fill":   fill,
			},
		})
	}

	fc := geojson.FeatureCollection{Features: feats}
	bs, err := json.Marshal(&fc)
	if err != nil {
		return fmt.Errorf("mapio: %w", err)
	}

	colJS, err := json.Marshal(column)
	if err != nil {
		return fmt.Errorf("mapio: %w", err)
	}

	data := leafletData{
		Title:        title,
		ColumnJS:     template.JS(colJS),
		GeoJSON:      template.JS(bs),
		LoColor:      template.CSS(hexColor(scale.lo)),
		HiColor:      template.CSS(hexColor(scale.hi)),
		MissingColor: template.CSS(hexColor(missingColor)),
		MinLabel:     rangeLabel(min, hasRange),
		MaxLabel:     rangeLabel(max, hasRange),
		Lat:          franceLat,
		Lng:          franceLng,
		Zoom:         franceZoom,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mapio: %w", err)
	}
	defer f.Close()
	return leafletTmpl.Execute(f, data)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func rangeLabel(v float64, hasRange bool) string {
	if !hasRange {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
