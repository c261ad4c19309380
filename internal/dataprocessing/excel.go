package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"ssicli/internal/ssi"
)

// headerKeywords are the terms a surveillance extract's header row tends to
// carry. Sheet discovery scores each sheet's first rows against these.
var headerKeywords = []string{
	"date", "ssi", "infection", "procedure", "surgery",
	"outcome", "volume", "category", "specialty", "wound",
}

// ReadExcel loads a workbook into a Dataset. When sheetName is empty the
// sheet holding the surveillance data is discovered by scanning each
// sheet's leading rows for a recognizable header.
func ReadExcel(ctx context.Context, logger *slog.Logger, filePath, sheetName string) (*Dataset, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var rows [][]string
	if sheetName != "" {
		rows, err = f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
		}
	} else {
		sheetName, rows, err = discoverSheet(f)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "discovered data sheet", slog.String("sheet", sheetName))
	}

	dataset, err := datasetFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("parse sheet %q: %w", sheetName, err)
	}

	logger.InfoContext(ctx, "loaded Excel dataset",
		slog.String("file", filePath),
		slog.String("sheet", sheetName),
		slog.Int("columns", len(dataset.Columns)),
		slog.Int("rows", len(dataset.Rows)))

	return dataset, nil
}

// discoverSheet returns the first sheet whose leading rows look like a
// surveillance header, falling back to the first non-empty sheet.
func discoverSheet(f *excelize.File) (string, [][]string, error) {
	var fallbackName string
	var fallbackRows [][]string

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		if fallbackName == "" {
			fallbackName = name
			fallbackRows = rows
		}

		limit := len(rows)
		if limit > 5 {
			limit = 5
		}
		for _, row := range rows[:limit] {
			rowText := strings.ToLower(strings.Join(row, " "))
			matched := 0
			for _, keyword := range headerKeywords {
				if strings.Contains(rowText, keyword) {
					matched++
				}
			}
			if matched >= 2 {
				return name, rows, nil
			}
		}
	}

	if fallbackName != "" {
		return fallbackName, fallbackRows, nil
	}
	return "", nil, fmt.Errorf("could not find a data sheet in workbook")
}

// datasetFromRows locates the header row and converts the rows below it.
// The header row is the first row with at least two non-empty cells.
func datasetFromRows(rows [][]string) (*Dataset, error) {
	headerRow := -1
	for i, row := range rows {
		nonEmpty := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
		}
		if nonEmpty >= 2 {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return nil, fmt.Errorf("could not find header row")
	}

	var columns []string
	for _, cell := range rows[headerRow] {
		columns = append(columns, normalizeHeader(cell))
	}

	dataset := &Dataset{Columns: columns}
	for _, row := range rows[headerRow+1:] {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		record := make(ssi.RawRecord, len(columns))
		for i, col := range columns {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		dataset.Rows = append(dataset.Rows, record)
	}

	return dataset, nil
}
