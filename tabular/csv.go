package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cimnine/netbox-sync/netbox/models"
)

const byteOrderMark = "\ufeff"

// Header is the sorted union of all columns of records. Rows that lack a
// column get an empty cell.
func Header(records []Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			seen[k] = true
		}
	}

	header := make([]string, 0, len(seen))
	for k := range seen {
		header = append(header, k)
	}
	sort.Strings(header)
	return header
}

// Write writes records as CSV with a header row. Absent and null values are
// written as empty cells.
func Write(w io.Writer, records []Record) error {
	header := Header(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for i, rec := range records {
		for j, column := range header {
			row[j] = rec[column].Text()
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read parses CSV written by Write. Every cell comes back as a string; empty
// cells are left out of the record.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], byteOrderMark)
	}

	var records []Record
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, fmt.Errorf("read row %d: %w", line, err)
		}

		rec := make(Record, len(header))
		for i, column := range header {
			if i < len(row) && row[i] != "" {
				rec[column] = models.String(row[i])
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
