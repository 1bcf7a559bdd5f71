package sourceio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvSource wraps one delimited file with a header-indexed reader.
type csvSource struct {
	r      *csv.Reader
	path   string
	fields map[string]int
}

// newCSVSource reads the header row and indexes its columns. Rows may
// be ragged; cells beyond a row's end read as empty.
func newCSVSource(r io.Reader, path string, comma rune) (*csvSource, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read header: %w", path, err)
	}
	fields := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		fields[strings.TrimSpace(h)] = i
	}
	return &csvSource{r: cr, path: path, fields: fields}, nil
}

// require resolves the positions of the given columns, failing with
// ErrMissingColumn when any of them is absent from the header.
func (c *csvSource) require(columns ...string) ([]int, error) {
	idx := make([]int, len(columns))
	for i, col := range columns {
		j, ok := c.fields[col]
		if !ok {
			return nil, fmt.Errorf(
				"%s: column %q: %w", c.path, col, ErrMissingColumn,
			)
		}
		idx[i] = j
	}
	return idx, nil
}

// field returns the cell at position i, or an empty string when the
// row is too short.
func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
