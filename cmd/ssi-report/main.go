package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"ssicli/internal/config"
	"ssicli/internal/dataprocessing"
	"ssicli/internal/exporter"
	"ssicli/internal/infrastructure"
	"ssicli/internal/ssi"
)

func main() {
	configFile := flag.String("config", "config.yaml", "path to the YAML config file")
	inputFile := flag.String("input", "", "input dataset (overrides the configured path)")
	outputDir := flag.String("out", "", "output directory for report tables (overrides the configured path)")
	sheetName := flag.String("sheet", "", "Excel sheet name (discovered automatically when empty)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.NewLogger(cfg.Logging)
	ctx := context.Background()

	if *inputFile != "" {
		cfg.Paths.InputFile = *inputFile
	}
	if *outputDir != "" {
		cfg.Paths.ReportsDir = *outputDir
	}

	if err := run(ctx, logger, cfg, *sheetName); err != nil {
		logger.ErrorContext(ctx, "report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, sheetName string) error {
	// Step 1: load the raw dataset
	logger.InfoContext(ctx, "loading dataset", slog.String("file", cfg.Paths.InputFile))
	var dataset *dataprocessing.Dataset
	var err error
	if sheetName != "" {
		dataset, err = dataprocessing.ReadExcel(ctx, logger, cfg.Paths.InputFile, sheetName)
	} else {
		dataset, err = dataprocessing.LoadFile(ctx, logger, cfg.Paths.InputFile)
	}
	if err != nil {
		return err
	}

	// Step 2: resolve column roles from the header and sample values
	mapping, err := ssi.ResolveColumns(dataset.Columns, dataset.Samples(25))
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "resolved column roles",
		slog.String("date", mapping.Date),
		slog.String("outcome", mapping.Outcome),
		slog.String("category", mapping.Category),
		slog.String("volume", mapping.Volume),
		slog.String("rule", mapping.Rule.String()))

	// Step 3: normalize rows into canonical records
	normalizer := ssi.NewNormalizer(logger)
	records, rejected := normalizer.Normalize(ctx, dataset.Rows, mapping)
	logger.InfoContext(ctx, "normalized dataset",
		slog.Int("records", len(records)),
		slog.Int("rejected", rejected))

	// Step 4: run the metric and test battery
	params := cfg.Analysis.Params()
	analysis, err := ssi.Analyze(ctx, logger, records, params)
	if err != nil {
		return err
	}

	// Step 5: export the report tables and executive summary
	writer := exporter.NewWriter(cfg.Paths.ReportsDir, logger)
	paths, err := writer.ExportAnalysis(ctx, analysis)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "report generation complete",
		slog.String("run_id", analysis.RunID),
		slog.Int("files", len(paths)),
		slog.String("reports_dir", cfg.Paths.ReportsDir))
	return nil
}
