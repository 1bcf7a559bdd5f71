package ingest

// SourceStats counts what a loader had to repair or skip for one
// dataset family. A coerced cell becomes a missing value and the run
// continues; the counts exist so pipelines can report data quality.
type SourceStats struct {
	// Files is the number of files read.
	Files int

	// Rows is the number of data rows kept.
	Rows int

	// CoercedCells counts non-empty cells that failed numeric
	// coercion and were recorded as missing.
	CoercedCells int

	// EncodingFallbacks counts files whose byte encoding could not be
	// detected confidently and were decoded with the default.
	EncodingFallbacks int
}

// Stats groups loader diagnostics per dataset family.
type Stats struct {
	Water      SourceStats
	Rent       SourceStats
	Population SourceStats
	Regions    SourceStats
}
