package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"delivery-dashboard/models"
)

// Header names of the required source columns.
const (
	ColumnAgentName = "Agent Name"
	ColumnLocation  = "Location"
	ColumnOrderType = "Order Type"
	ColumnRating    = "Rating"
)

// RequiredColumns lists the columns every source must provide.
var RequiredColumns = []string{ColumnAgentName, ColumnLocation, ColumnOrderType, ColumnRating}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// CSVReader reads review rows from a delimited file with a header row.
type CSVReader struct {
	file   *os.File
	reader *csv.Reader
}

// NewCSVReader opens the CSV file at the given path.
func NewCSVReader(path string) (*CSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}
	return &CSVReader{file: f, reader: newReader(f)}, nil
}

// NewCSVReaderFrom reads from r instead of a file. Close is a no-op.
func NewCSVReaderFrom(r io.Reader) *CSVReader {
	return &CSVReader{reader: newReader(r)}
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

// Read parses the header and returns every data row in file order. Columns
// beyond the required ones are ignored. Empty lines are dropped by
// encoding/csv; rows of empty fields are returned for the loader to reject.
func (c *CSVReader) Read(ctx context.Context) ([]*models.RawReview, error) {
	header, err := c.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: empty input: %w: %s", ErrMissingColumn, strings.Join(RequiredColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []*models.RawReview
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := c.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		line, _ := c.reader.FieldPos(0)

		rows = append(rows, &models.RawReview{
			Line:      line,
			AgentName: field(record, cols[ColumnAgentName]),
			Location:  field(record, cols[ColumnLocation]),
			OrderType: field(record, cols[ColumnOrderType]),
			Rating:    field(record, cols[ColumnRating]),
		})
	}
	return rows, nil
}

// Close closes the underlying file.
func (c *CSVReader) Close() error {
	if c.file == nil {
		return nil
	}
	return c.file.Close()
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv: %w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}
