// Package csvsource reads site reference and timing histogram exports.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var ErrMalformedRow = errors.New("malformed row")

const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows-1252"
)

// Options controls how an export file is parsed.
type Options struct {
	// Field separator; ',' when zero.
	Delimiter rune
	// One of the Encoding constants; utf-8 when empty.
	Encoding string
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// decodeReader wraps r so that legacy single-byte exports come out as UTF-8.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// table is a header-indexed CSV reader.
type table struct {
	r       *csv.Reader
	columns map[string]int
	line    int
}

func newTable(r io.Reader, opts Options) (*table, error) {
	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.Comma = opts.delimiter()
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedRow)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, ok := columns[h]; !ok {
			columns[h] = i
		}
	}

	return &table{r: cr, columns: columns, line: 1}, nil
}

// require returns the index of each named column or fails on the first missing one.
func (t *table) require(names ...string) (map[string]int, error) {
	out := make(map[string]int, len(names))
	for _, n := range names {
		i, ok := t.columns[n]
		if !ok {
			return nil, fmt.Errorf("%w: header is missing column %q", ErrMalformedRow, n)
		}
		out[n] = i
	}
	return out, nil
}

// next returns the next non-blank record, or io.EOF.
func (t *table) next() ([]string, error) {
	for {
		rec, err := t.r.Read()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		t.line, _ = t.r.FieldPos(0)

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		return rec, nil
	}
}

func (t *table) field(rec []string, idx int, name string) (string, error) {
	if idx >= len(rec) {
		return "", fmt.Errorf("%w: line %d: missing value for %s", ErrMalformedRow, t.line, name)
	}
	v := strings.TrimSpace(rec[idx])
	if v == "" {
		return "", fmt.Errorf("%w: line %d: empty value for %s", ErrMalformedRow, t.line, name)
	}
	return v, nil
}
