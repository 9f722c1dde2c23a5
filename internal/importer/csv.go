package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Headers returns the ordered column names of a CSV document.
func Headers(data []byte) ([]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers := make([]string, 0, len(record))
	for _, h := range record {
		headers = append(headers, strings.TrimSpace(h))
	}
	return headers, nil
}

// Rows parses a CSV document into column-keyed maps.
func Rows(data []byte) ([]map[string]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	rows, err := gocsv.CSVToMaps(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	// Header cells often carry stray whitespace from spreadsheet exports.
	cleaned := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(row))
		for k, v := range row {
			m[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		cleaned = append(cleaned, m)
	}
	return cleaned, nil
}
