package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer writes report files under a configured reports directory
type Writer struct {
	reportsDir string
	logger     *slog.Logger
}

// NewWriter creates a report writer rooted at reportsDir
func NewWriter(reportsDir string, logger *slog.Logger) *Writer {
	return &Writer{reportsDir: reportsDir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes one report table and returns the full path written
func (w *Writer) WriteCSV(ctx context.Context, fileName string, options WriteOptions) (string, error) {
	fullPath := filepath.Join(w.reportsDir, fileName)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return "", fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return "", fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := writer.Error(); err != nil {
		return "", err
	}

	w.logger.InfoContext(ctx, "wrote report table",
		slog.String("file", fullPath),
		slog.Int("record_count", len(options.Records)))

	return fullPath, nil
}

// WriteFile writes raw report content (markdown summaries) under the
// reports directory
func (w *Writer) WriteFile(ctx context.Context, fileName string, content []byte) (string, error) {
	fullPath := filepath.Join(w.reportsDir, fileName)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	w.logger.InfoContext(ctx, "wrote report file",
		slog.String("file", fullPath),
		slog.Int("bytes", len(content)))

	return fullPath, nil
}
