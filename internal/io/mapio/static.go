package mapio

import (
	"fmt"
	"image/color"

	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/twpayne/go-geom"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// StaticMap draws a choropleth of one column into a PNG file. Every
// region's rings are filled from the column's gradient; regions with
// a missing value are filled grey.
func (m *mapio) StaticMap(t *atlas.Table, column, title, path string) error {
	vals, ok := t.Column(column)
	if !ok {
		return fmt.Errorf("mapio: unknown column %q", column)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()

	min, max, hasRange := t.Range(column)
	scale := columnRamp(column, min, max)

	for i := 0; i < t.Len(); i++ {
		fill := color.Color(missingColor)
		if v := vals[i]; v.Valid && hasRange {
			fill = scale.at(v.Float64)
		}
		if err := addBoundary(p, t.Region(i).Boundary, fill); err != nil {
			return fmt.Errorf("mapio: %s: %w", t.Region(i).Commune, err)
		}
	}

	return p.Save(12*vg.Inch, 10*vg.Inch, path)
}

// addBoundary adds a commune boundary to the plot. Features without
// geometry are skipped silently, they stay in the table but cannot be
// drawn.
func addBoundary(p *plot.Plot, g geom.T, fill color.Color) error {
	switch b := g.(type) {
	case nil:
		return nil
	case *geom.Polygon:
		return addPolygon(p, b, fill)
	case *geom.MultiPolygon:
		for i := 0; i < b.NumPolygons(); i++ {
			if err := addPolygon(p, b.Polygon(i), fill); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported geometry %T", g)
}

func addPolygon(p *plot.Plot, poly *geom.Polygon, fill color.Color) error {
	rings := make([]plotter.XYer, 0, poly.NumLinearRings())
	for i := 0; i < poly.NumLinearRings(); i++ {
		coords := poly.LinearRing(i).Coords()
		xys := make(plotter.XYs, len(coords))
		for j, c := range coords {
			xys[j] = plotter.XY{X: c.X(), Y: c.Y()}
		}
		rings = append(rings, xys)
	}

	pg, err := plotter.NewPolygon(rings...)
	if err != nil {
		return err
	}
	pg.Color = fill
	pg.LineStyle.Color = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	pg.LineStyle.Width = vg.Points(0.3)
	p.Add(pg)
	return nil
}
