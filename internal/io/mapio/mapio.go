// Package mapio renders the atlas: static choropleth PNGs and the
// correlation heatmap with gonum/plot, interactive Leaflet documents
// with html/template. Missing values are always drawn in a distinct
// grey, never dropped from the map.
package mapio

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/geofr/commatlas/internal/ent/render"
	"github.com/geofr/commatlas/pkg/config"
	"github.com/geofr/commatlas/pkg/ent/dataset"
	"github.com/gnames/gnsys"
)

// missingColor marks regions without data ("Données manquantes").
var missingColor = color.RGBA{R: 211, G: 211, B: 211, A: 255}

// ramp maps a value range onto a linear two-color gradient.
type ramp struct {
	min, max float64
	lo, hi   color.RGBA
}

func (r ramp) at(v float64) color.RGBA {
	if r.max <= r.min {
		return r.hi
	}
	t := (v - r.min) / (r.max - r.min)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + t*(float64(b)-float64(a)))
	}
	return color.RGBA{
		R: lerp(r.lo.R, r.hi.R),
		G: lerp(r.lo.G, r.hi.G),
		B: lerp(r.lo.B, r.hi.B),
		A: 255,
	}
}

// Gradient endpoints per indicator family, following the palettes of
// the original report maps.
var (
	bluesRamp   = [2]color.RGBA{{R: 247, G: 251, B: 255, A: 255}, {R: 8, G: 48, B: 107, A: 255}}
	orangesRamp = [2]color.RGBA{{R: 255, G: 245, B: 235, A: 255}, {R: 127, G: 39, B: 4, A: 255}}
	greensRamp  = [2]color.RGBA{{R: 247, G: 252, B: 245, A: 255}, {R: 0, G: 68, B: 27, A: 255}}
	heatRamp    = [2]color.RGBA{{R: 255, G: 255, B: 204, A: 255}, {R: 128, G: 0, B: 38, A: 255}}
)

// columnRamp picks the gradient for an indicator column.
func columnRamp(column string, min, max float64) ramp {
	ends := heatRamp
	switch column {
	case dataset.ColBacterio, dataset.ColChemical:
		ends = bluesRamp
	case dataset.ColPopulation:
		ends = greensRamp
	default:
		if len(column) >= len(dataset.ColMeanRent) &&
			column[:len(dataset.ColMeanRent)] == dataset.ColMeanRent {
			ends = orangesRamp
		}
	}
	return ramp{min: min, max: max, lo: ends[0], hi: ends[1]}
}

// mapio implements render.Renderer.
type mapio struct {
	cfg config.Config

	// mu serializes gonum/plot drawing. The default font cache is not
	// safe for concurrent use.
	mu sync.Mutex
}

// New returns a Renderer writing into cfg.OutputDir.
func New(cfg config.Config) (render.Renderer, error) {
	err := gnsys.MakeDir(cfg.OutputDir)
	if err != nil {
		slog.Error("Cannot create output directory", "error", err)
		return nil, err
	}
	return &mapio{cfg: cfg}, nil
}
