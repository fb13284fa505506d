package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ledgerlens/internal/analysis"
	"ledgerlens/internal/config"
	"ledgerlens/internal/exporter"
	"ledgerlens/internal/infrastructure"
	"ledgerlens/internal/workbook"
	"ledgerlens/pkg/contracts/domain"
)

func main() {
	inPath := flag.String("in", "", "input .xlsx file or directory of .xlsx files")
	outDir := flag.String("out", "", "output directory for CSV and Excel reports (defaults to analysis.output_dir)")
	configFile := flag.String("config", "", "path to YAML config file (env variables override)")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -in <file-or-dir> [-out <dir>] [-config <file>]")
		os.Exit(2)
	}

	if err := run(*inPath, *outDir, *configFile); err != nil {
		slog.Error("analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(inPath, outDir, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	vocab, err := cfg.Vocabulary()
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}

	if outDir == "" {
		outDir = cfg.Analysis.OutputDir
	}

	files, err := collectWorkbooks(inPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .xlsx files found under %s", inPath)
	}
	logger.Info("starting batch analysis",
		slog.Int("file_count", len(files)),
		slog.String("output_dir", outDir))

	loader := workbook.NewLoader(logger)
	service := analysis.NewService(logger, vocab, cfg.Analysis.MaxParallelSheets)
	ctx := context.Background()

	failures := 0
	for _, path := range files {
		if err := analyzeFile(ctx, logger, loader, service, outDir, path); err != nil {
			logger.Error("workbook skipped",
				slog.String("path", path),
				slog.String("error", err.Error()))
			failures++
		}
	}
	if failures == len(files) {
		return fmt.Errorf("all %d workbooks failed", failures)
	}
	logger.Info("batch analysis complete",
		slog.Int("processed", len(files)-failures),
		slog.Int("failed", failures))
	return nil
}

func analyzeFile(ctx context.Context, logger *slog.Logger, loader *workbook.Loader, service *analysis.Service, outDir, path string) error {
	wb, err := loader.Load(path)
	if err != nil {
		return err
	}

	result, err := service.AnalyzeWorkbook(ctx, wb)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	exp := exporter.NewExporter(logger, filepath.Join(outDir, base))

	for _, sheet := range result.Sheets {
		if sheet.Empty() {
			continue
		}
		ex := domain.SheetExtract{
			SheetName: sheet.SheetName,
			HeaderRow: sheet.HeaderRow,
			Header:    sheet.Header,
			Records:   sheet.Records,
		}
		name := sanitizeFilename(sheet.SheetName)
		if err := exp.WriteRecordsCSV(ex, sheet.Roles, name+"_records.csv"); err != nil {
			return err
		}
		if err := exp.WriteMonthlyCSV(sheet.Monthly, name+"_monthly.csv"); err != nil {
			return err
		}
	}

	if err := exp.WriteSummaryCSV(result, "summary.csv"); err != nil {
		return err
	}
	if err := exp.WriteWorkbook(result, base+"_cleaned.xlsx"); err != nil {
		return err
	}
	return nil
}

// collectWorkbooks lists the .xlsx files to process. A single file is
// accepted as-is; a directory is scanned non-recursively. Excel lock
// files ("~$...") are skipped.
func collectWorkbooks(inPath string) ([]string, error) {
	info, err := os.Stat(inPath)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{inPath}, nil
	}

	entries, err := os.ReadDir(inPath)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			files = append(files, filepath.Join(inPath, name))
		}
	}
	return files, nil
}

// sanitizeFilename makes a sheet name safe to use as a file name.
func sanitizeFilename(name string) string {
	repl := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	out := strings.TrimSpace(repl.Replace(name))
	if out == "" {
		out = "sheet"
	}
	return out
}
