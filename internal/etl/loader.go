package etl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"pagoscli/internal/files"
	"pagoscli/internal/infrastructure"
	"pagoscli/pkg/contracts/domain"
)

// folderConcurrency bounds parallel folder loads in LoadFolders. Each
// file parse is a pure function of path and bytes, so completion order
// cannot affect the result.
const folderConcurrency = 4

// Loader turns folder trees of payment-schedule workbooks into the
// long-form Payments Table.
type Loader struct {
	sheet  string
	logger *slog.Logger
}

// NewLoader creates a loader reading the standard RESUMEN sheet.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		sheet:  SheetName,
		logger: logger.With(slog.String("component", "etl_loader")),
	}
}

// wideRecord is one file's parse result: the report date plus the fixed
// bank x currency column set.
type wideRecord struct {
	fecha   time.Time
	amounts map[string]float64
}

// LoadFolder walks root, parses every surviving report file and returns
// the long-form table sorted by date. Files without an extractable date
// or a usable total block are skipped silently; a folder where nothing
// survives yields the canonical empty table, not an error.
func (l *Loader) LoadFolder(ctx context.Context, root string) (*domain.PaymentsTable, error) {
	start := time.Now()
	defer func() {
		infrastructure.FolderLoadDuration.Observe(time.Since(start).Seconds())
	}()

	found, err := files.FindReportFiles(root)
	if err != nil {
		return nil, fmt.Errorf("discover report files in %s: %w", root, err)
	}

	wides := make([]wideRecord, 0, len(found))
	for _, f := range found {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fecha, ok := ExtractDate(f.Path)
		if !ok {
			infrastructure.FilesSkipped.WithLabelValues("no_date").Inc()
			l.logger.DebugContext(ctx, "skipping file without date in path", "path", f.Path)
			continue
		}
		block, ok := ParseReportFile(f.Path, l.sheet)
		if !ok {
			infrastructure.FilesSkipped.WithLabelValues("no_total_block").Inc()
			l.logger.DebugContext(ctx, "skipping file without usable total block", "path", f.Path)
			continue
		}
		infrastructure.FilesParsed.Inc()
		wides = append(wides, wideRecord{fecha: fecha, amounts: block.Amounts})
	}

	if len(wides) == 0 {
		l.logger.InfoContext(ctx, "folder yielded no parseable reports",
			"root", root, "files_seen", len(found))
		return domain.NewPaymentsTable(), nil
	}

	// Stable sort keeps enumeration order for files sharing a date.
	sort.SliceStable(wides, func(i, j int) bool {
		return wides[i].fecha.Before(wides[j].fecha)
	})

	// Melt: each wide column becomes its own long-form row.
	table := domain.NewPaymentsTable()
	for _, w := range wides {
		for _, col := range domain.ColumnNames() {
			banco, moneda := domain.SplitColumn(col)
			table.Append(domain.NewPayment(w.fecha, banco, moneda, w.amounts[col]))
		}
	}

	l.logger.InfoContext(ctx, "folder load complete",
		"root", root,
		"files_seen", len(found),
		"files_parsed", len(wides),
		"rows", table.Len(),
		"duration", time.Since(start))
	return table, nil
}

// LoadFolders loads several roots (e.g. one per year), drops the ones
// that yield nothing, and returns the union re-sorted by date. Folders
// load in parallel; per-file parsing stays independent and
// side-effect-free so ordering of completion does not matter.
func (l *Loader) LoadFolders(ctx context.Context, roots []string) (*domain.PaymentsTable, error) {
	results := make([]*domain.PaymentsTable, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(folderConcurrency)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			table, err := l.LoadFolder(gctx, root)
			if err != nil {
				return err
			}
			results[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.Concat(results...), nil
}
