package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ssicli/internal/ssi"
)

// ReadCSV loads a header-driven CSV file into a Dataset. The first row is
// the header; short rows are padded with empty strings and long rows are
// truncated to the header width.
func ReadCSV(ctx context.Context, logger *slog.Logger, filePath string) (*Dataset, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	dataset, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	logger.InfoContext(ctx, "loaded CSV dataset",
		slog.String("file", filePath),
		slog.Int("columns", len(dataset.Columns)),
		slog.Int("rows", len(dataset.Rows)))

	return dataset, nil
}

func parseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, 0, len(header))
	for _, cell := range header {
		columns = append(columns, normalizeHeader(cell))
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("header row has no columns")
	}

	dataset := &Dataset{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(dataset.Rows)+2, err)
		}

		row := make(ssi.RawRecord, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	return dataset, nil
}
