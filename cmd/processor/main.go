package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"pagoscli/internal/config"
	"pagoscli/internal/etl"
	"pagoscli/internal/exporter"
	"pagoscli/internal/infrastructure"
	"pagoscli/pkg/contracts/domain"
)

func main() {
	inDirs := flag.String("in", "", "comma-separated report folders to load (defaults to the configured data roots)")
	outPath := flag.String("out", "pagos.csv", "output path for the long-form CSV")
	widePath := flag.String("wide", "", "optional output path for the wide-form CSV (one column per bank_currency pair)")
	bancos := flag.String("banco", "", "comma-separated bank filter")
	monedas := flag.String("moneda", "", "comma-separated currency filter")
	dias := flag.String("dia", "", "comma-separated weekday-name filter")
	bom := flag.Bool("bom", false, "prefix output files with a UTF-8 BOM for Excel")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		def := config.Default()
		cfg = &def
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	if closer != nil {
		defer closer.Close()
	}

	roots := splitList(*inDirs)
	if len(roots) == 0 {
		roots = cfg.Data.Roots
	}
	if len(roots) == 0 {
		logger.Error("No input folders: pass -in or configure data roots")
		os.Exit(1)
	}

	logger.Info("Starting payment report processing",
		slog.Any("roots", roots),
		slog.String("out", *outPath))

	ctx := context.Background()
	loader := etl.NewLoader(logger)

	table, err := loader.LoadFolders(ctx, roots)
	if err != nil {
		logger.Error("Failed to load report folders", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Loaded %d payment rows\n", table.Len())

	filter := domain.PaymentFilter{
		Bancos:  splitList(*bancos),
		Monedas: splitList(*monedas),
		Dias:    splitList(*dias),
	}
	filtered := table.Filter(filter)
	if filtered.Len() != table.Len() {
		logger.Info("Filter applied",
			slog.Int("before", table.Len()),
			slog.Int("after", filtered.Len()))
	}

	opts := exporter.WriteOptions{BOMPrefix: *bom}
	if err := exporter.WriteLongCSV(*outPath, filtered, opts); err != nil {
		logger.Error("Failed to write long-form CSV",
			slog.String("path", *outPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Saved long-form CSV",
		slog.String("path", *outPath),
		slog.Int("rows", filtered.Len()))

	if *widePath != "" {
		if err := exporter.WriteWideCSV(*widePath, filtered, opts); err != nil {
			logger.Error("Failed to write wide-form CSV",
				slog.String("path", *widePath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Saved wide-form CSV", slog.String("path", *widePath))
	}

	total := filtered.Sum()
	fmt.Printf("Processing complete: %d rows, total a pagar %.2f\n", filtered.Len(), -total)
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
