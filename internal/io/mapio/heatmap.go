package mapio

import (
	"fmt"
	"math"

	"github.com/geofr/commatlas/pkg/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// corrGrid adapts a correlation matrix to the plotter grid interface.
type corrGrid struct {
	m stats.Matrix
}

func (g corrGrid) Dims() (int, int) {
	n := len(g.m.Columns)
	return n, n
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

func (g corrGrid) Z(c, r int) float64 {
	return g.m.Coef[r][c]
}

// Heatmap draws the correlation matrix into a PNG file, blue-to-red
// over the fixed [-1, 1] range with the coefficient printed in each
// defined cell.
func (m *mapio) Heatmap(mx stats.Matrix, path string) error {
	n := len(mx.Columns)
	if n == 0 {
		return fmt.Errorf("mapio: empty correlation matrix")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := plot.New()
	p.Title.Text = "Matrice de corrélation"

	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(corrGrid{m: mx}, pal)
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	ticks := make([]plot.Tick, n)
	for i, col := range mx.Columns {
		ticks[i] = plot.Tick{Value: float64(i), Label: col}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	labels, err := cellLabels(mx)
	if err != nil {
		return err
	}
	p.Add(labels)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// cellLabels prints each defined coefficient at its cell center.
func cellLabels(mx stats.Matrix) (*plotter.Labels, error) {
	n := len(mx.Columns)
	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := mx.Coef[r][c]
			if math.IsNaN(v) {
				continue
			}
			xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			xyl.Labels = append(xyl.Labels, fmt.Sprintf("%.2f", v))
		}
	}
	return plotter.NewLabels(xyl)
}
