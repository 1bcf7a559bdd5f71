package sourceio

import (
	"io"
	"log/slog"
	"os"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen is the number of leading bytes fed to charset detection,
// matching the acquisition scripts that produced the datasets.
const sniffLen = 10_000

// detectEncoding guesses the byte encoding of a file from its leading
// bytes. Detection trouble is never fatal: the caller gets UTF-8 and
// fallback=true, and decides what to count.
func detectEncoding(path string, sample []byte) (encoding.Encoding, bool) {
	det := chardet.NewTextDetector()
	best, err := det.DetectBest(sample)
	if err != nil {
		slog.Warn("Cannot detect encoding, using UTF-8",
			"path", path, "error", err)
		return unicode.UTF8, true
	}

	enc, err := htmlindex.Get(best.Charset)
	if err != nil {
		slog.Warn("Unknown charset, using UTF-8",
			"path", path, "charset", best.Charset)
		return unicode.UTF8, true
	}
	return enc, false
}

// detectedReader rewraps an open file with a decoder for its detected
// encoding. The file is rewound after sniffing.
func detectedReader(f *os.File) (io.Reader, bool, error) {
	sample := make([]byte, sniffLen)
	n, err := f.Read(sample)
	if err != nil && err != io.EOF {
		return nil, false, err
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, false, err
	}

	enc, fallback := detectEncoding(f.Name(), sample[:n])
	return transform.NewReader(f, enc.NewDecoder()), fallback, nil
}
