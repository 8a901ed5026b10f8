// Package csvimport reads product spreadsheets exported as CSV.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when the file has no content
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not UTF-8
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")

	// ErrMissingHeader is returned when the first row is missing or blank
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// Reader yields rows keyed by header name
type Reader struct {
	reader    *csv.Reader
	headers   []string
	headerMap map[string]int
}

// Option configures a Reader
type Option func(*csv.Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) Option {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// NewReader strips a UTF-8 BOM, checks the encoding and reads the header row.
// Header names are matched case-insensitively.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	buf := bufio.NewReader(r)

	bom, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	head, err := buf.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(head)) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(cr)
	}

	rd := &Reader{reader: cr, headerMap: make(map[string]int)}
	record, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		rd.headers = append(rd.headers, name)
		if name != "" {
			rd.headerMap[name] = i
		}
	}
	if len(rd.headerMap) == 0 {
		return nil, ErrMissingHeader
	}
	return rd, nil
}

// trimPartialRune drops a multi-byte rune cut off by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// Headers returns the normalized header names in column order
func (r *Reader) Headers() []string {
	return r.headers
}

// Missing returns the required headers absent from the file
func (r *Reader) Missing(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := r.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data row with its line number in the file
type Row struct {
	Line int
	data map[string]string
}

// Get returns the trimmed value of a column, or "" when absent
func (r Row) Get(header string) string {
	return r.data[header]
}

func (r Row) isEmpty() bool {
	for _, v := range r.data {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next non-empty row, or io.EOF
func (r *Reader) Next() (Row, error) {
	for {
		record, err := r.reader.Read()
		if err == io.EOF {
			return Row{}, io.EOF
		}
		if err != nil {
			// csv.ParseError carries the line number
			return Row{}, err
		}

		line, _ := r.reader.FieldPos(0)
		row := Row{Line: line, data: make(map[string]string, len(r.headerMap))}
		for name, i := range r.headerMap {
			if i < len(record) {
				row.data[name] = strings.TrimSpace(record[i])
			}
		}
		if !row.isEmpty() {
			return row, nil
		}
	}
}
