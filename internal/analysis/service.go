package analysis

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ledgerlens/internal/ledger"
	"ledgerlens/pkg/contracts/domain"
)

// SheetAnalysis is the full extraction result for one worksheet.
type SheetAnalysis struct {
	SheetName      string                   `json:"sheet_name"`
	Classification domain.AccountClass      `json:"classification"`
	HeaderRow      int                      `json:"header_row"`
	Header         []string                 `json:"header"`
	Roles          domain.RoleSet           `json:"roles"`
	RecordCount    int                      `json:"record_count"`
	Monthly        map[string]ledger.Bucket `json:"monthly"`
	ByVendor       map[string]ledger.Bucket `json:"by_vendor,omitempty"`
	// MonthlyFlow is the classification-aware single-side series:
	// credit sums for sales sheets, debit sums for cost and expense
	// sheets. Nil for sheets without a natural reporting side.
	MonthlyFlow map[string]float64 `json:"monthly_flow,omitempty"`

	Records []domain.Record `json:"-"`
}

// Empty reports whether the sheet yielded no analyzable data.
func (s SheetAnalysis) Empty() bool {
	return s.RecordCount == 0
}

// WorkbookAnalysis is one analysis invocation over a whole workbook.
type WorkbookAnalysis struct {
	ID          string          `json:"id"`
	Workbook    string          `json:"workbook"`
	GeneratedAt time.Time       `json:"generated_at"`
	Sheets      []SheetAnalysis `json:"sheets"`
}

// Service runs the extraction engine over workbooks. Sheets are
// processed independently from immutable grids, so extraction is
// parallelized per sheet; results are combined only after every sheet
// completes.
type Service struct {
	logger      *slog.Logger
	locator     *ledger.HeaderLocator
	extractor   *ledger.Extractor
	resolver    *ledger.RoleResolver
	classifier  *ledger.Classifier
	aggregator  *ledger.Aggregator
	maxParallel int
}

// NewService builds the analysis service. maxParallel caps concurrent
// sheet extraction; values below 1 use one worker per CPU. Short
// "MM-DD" dates are anchored to the current system year.
func NewService(logger *slog.Logger, vocab ledger.Vocabulary, maxParallel int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxParallel < 1 {
		maxParallel = runtime.NumCPU()
	}
	year := time.Now().Year()
	return &Service{
		logger:      logger.With(slog.String("component", "analysis_service")),
		locator:     ledger.NewHeaderLocator(vocab, year),
		extractor:   ledger.NewExtractor(vocab, year),
		resolver:    ledger.NewRoleResolver(vocab),
		classifier:  ledger.NewClassifier(vocab),
		aggregator:  ledger.NewAggregator(year),
		maxParallel: maxParallel,
	}
}

// AnalyzeWorkbook extracts, classifies and aggregates every sheet.
// Sheets with no locatable header come back empty; they never abort
// the batch. The only error surface is context cancellation.
func (s *Service) AnalyzeWorkbook(ctx context.Context, wb *domain.Workbook) (*WorkbookAnalysis, error) {
	start := time.Now()
	out := &WorkbookAnalysis{
		ID:          uuid.NewString(),
		Workbook:    wb.Name,
		GeneratedAt: start.UTC(),
		Sheets:      make([]SheetAnalysis, len(wb.Sheets)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, sheet := range wb.Sheets {
		i, sheet := i, sheet
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out.Sheets[i] = s.analyzeSheet(ctx, sheet)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysisDuration.Observe(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "workbook analysis complete",
		slog.String("analysis_id", out.ID),
		slog.String("workbook", wb.Name),
		slog.Int("sheet_count", len(out.Sheets)),
		slog.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (s *Service) analyzeSheet(ctx context.Context, sheet domain.Sheet) SheetAnalysis {
	sheetsAnalyzed.Inc()
	result := SheetAnalysis{
		SheetName:      sheet.Name,
		Classification: s.classifier.Classify(sheet.Name),
		HeaderRow:      -1,
	}

	idx, ok := s.locator.Locate(sheet.Grid)
	if !ok {
		headerNotFound.Inc()
		s.logger.WarnContext(ctx, "no analyzable data on sheet",
			slog.String("sheet", sheet.Name))
		return result
	}

	ex := s.extractor.Extract(sheet.Name, sheet.Grid, idx)
	recordsExtracted.Add(float64(len(ex.Records)))

	roles := s.resolver.Resolve(ex.Header, ex.Records)

	result.HeaderRow = ex.HeaderRow
	result.Header = ex.Header
	result.Roles = roles
	result.Records = ex.Records
	result.RecordCount = len(ex.Records)
	result.Monthly = s.aggregator.ByMonth(ex.Records, roles)
	if roles.Vendor.Resolved() {
		result.ByVendor = s.aggregator.ByVendor(ex.Records, roles)
	}
	if side, ok := ledger.SideFor(result.Classification); ok {
		result.MonthlyFlow = s.aggregator.FlowByMonth(ex.Records, roles, side)
	}

	s.logger.DebugContext(ctx, "sheet analyzed",
		slog.String("sheet", sheet.Name),
		slog.String("classification", string(result.Classification)),
		slog.Int("header_row", result.HeaderRow),
		slog.Int("record_count", result.RecordCount))
	return result
}
