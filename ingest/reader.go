package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smartshop-ai/smartshop/errors"
)

// csvSource reads one delimited source file row by row, translating source
// headers to canonical field names through the domain's column map.
type csvSource struct {
	file    *os.File
	reader  *csv.Reader
	columns []string // canonical field name per column position
	row     int
}

// openCSVSource opens the file and consumes the required header row.
// Failures here are run-level source errors.
func openCSVSource(path string, columnMap map[string]string) (*csvSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open source %s", path)
	}

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	// Column counts are checked per row so a short row rejects that record
	// instead of aborting the run
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		f.Close()
		return nil, errors.Newf("empty source %s: header row required", path)
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "read header of %s", path)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = canonicalField(h, columnMap)
	}

	return &csvSource{file: f, reader: r, columns: columns}, nil
}

// canonicalField normalizes a source header (trim, lowercase, spaces to
// underscores) and resolves it through the domain's alias table.
func canonicalField(header string, columnMap map[string]string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
	if canonical, ok := columnMap[normalized]; ok {
		return canonical
	}
	return normalized
}

// rowError marks a malformed row (wrong column count, unparseable CSV).
// Classified by the pipeline as a validation failure, never fatal.
type rowError struct {
	row    int
	reason string
}

func (e *rowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.row, e.reason)
}

// Next returns the next data record in source order. Returns io.EOF when the
// source is exhausted and *rowError for recoverable per-row problems.
func (s *csvSource) Next() (Record, error) {
	s.row++
	fields, err := s.reader.Read()
	if err == io.EOF {
		return Record{}, io.EOF
	}
	if err != nil {
		return Record{}, &rowError{row: s.row, reason: err.Error()}
	}

	if len(fields) != len(s.columns) {
		return Record{}, &rowError{
			row:    s.row,
			reason: fmt.Sprintf("expected %d columns, got %d", len(s.columns), len(fields)),
		}
	}

	values := make(map[string]string, len(fields))
	for i, v := range fields {
		values[s.columns[i]] = v
	}
	return Record{Row: s.row, Fields: values}, nil
}

func (s *csvSource) Close() error {
	return s.file.Close()
}
