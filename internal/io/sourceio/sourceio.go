// Package sourceio reads the French open-data files behind the atlas:
// drinking-water controls, predicted rents, census counts and commune
// boundaries. Every join key is normalized here, at the edge, so the
// rest of the pipeline never sees an unpadded code.
package sourceio

import (
	"errors"

	"github.com/geofr/commatlas/internal/ent/ingest"
	"github.com/geofr/commatlas/pkg/config"
)

// ErrMissingColumn flags a source file whose header lacks a required
// column. Loading aborts there; a partially read dataset would
// corrupt the downstream join.
var ErrMissingColumn = errors.New("required column missing")

// sourceio implements ingest.Ingestor over local files.
type sourceio struct {
	cfg   config.Config
	stats ingest.Stats
}

// New returns an Ingestor reading the files named by cfg.
func New(cfg config.Config) ingest.Ingestor {
	return &sourceio{cfg: cfg}
}

// Stats reports diagnostics gathered by the loaders so far.
func (s *sourceio) Stats() ingest.Stats {
	return s.stats
}
