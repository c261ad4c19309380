package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// LoadFile reads a tabular dataset, dispatching on the file extension.
// CSV and Excel (.xlsx/.xlsm) inputs are supported.
func LoadFile(ctx context.Context, logger *slog.Logger, filePath string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return ReadCSV(ctx, logger, filePath)
	case ".xlsx", ".xlsm":
		return ReadExcel(ctx, logger, filePath, "")
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filePath)
	}
}
