// Package service orchestrates statement ingestion: parser resolution, line
// extraction, category suggestion, and duplicate flagging.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kontowerk/statement-ingest/internal/domain/categorization"
	"github.com/kontowerk/statement-ingest/internal/domain/ingest/parser"
)

// TextExtractor turns an uploaded statement document into plain text. The
// pipeline consumes this but does not implement it; PDF extraction lives with
// the caller.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
	IsEncrypted(data []byte) bool
	PageCount(data []byte) (int, error)
}

// Suggester ranks category suggestions for one transaction.
type Suggester interface {
	Suggest(ctx context.Context, description, merchantName string, amount *decimal.Decimal, txType parser.TransactionType) ([]categorization.Suggestion, error)
}

// KeywordLearner records a confirmed category choice by extending the
// category's keyword set.
type KeywordLearner interface {
	LearnFromUserChoice(ctx context.Context, description, merchantName string, categoryID uuid.UUID) error
}

// DuplicateMarker annotates extracted transactions that match stored ones.
type DuplicateMarker interface {
	MarkDuplicates(ctx context.Context, userID uuid.UUID, extracted []parser.ExtractedTransaction) (int, error)
}

// RunStats summarizes one ingestion run.
type RunStats struct {
	ParserName        string        `json:"parser_name"`
	ParserConfidence  float64       `json:"parser_confidence"`
	LinesTotal        int           `json:"lines_total"`
	LinesSkipped      int           `json:"lines_skipped"`
	BalancesMatch     *bool         `json:"balances_match,omitempty"`
	TransactionCount  int           `json:"transaction_count"`
	SuggestedCount    int           `json:"suggested_count"`
	DuplicateCount    int           `json:"duplicate_count"`
	SuggestionSkipped int           `json:"suggestion_skipped"`
	Duration          time.Duration `json:"duration"`
}

// Result is the output of one ingestion run.
type Result struct {
	Transactions []parser.ExtractedTransaction `json:"transactions"`
	Info         parser.BankStatementInfo      `json:"statement_info"`
	Stats        RunStats                      `json:"stats"`
}

// Options tunes one ingestion run.
type Options struct {
	// UserID scopes duplicate detection. Without it duplicates are not
	// checked.
	UserID *uuid.UUID
}

// IngestService runs the statement ingestion pipeline.
type IngestService struct {
	registry   *parser.Registry
	generic    *parser.GenericParser
	suggester  Suggester       // optional: nil disables category suggestions
	learner    KeywordLearner  // optional: nil disables learning
	duplicates DuplicateMarker // optional: nil disables duplicate flagging
	extractor  TextExtractor   // optional: nil disables document ingestion
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewIngestService creates the ingestion pipeline.
func NewIngestService(registry *parser.Registry, logger *slog.Logger) *IngestService {
	return &IngestService{
		registry: registry,
		generic:  parser.NewGenericParser(),
		logger:   logger,
		tracer:   otel.Tracer("statement-ingest"),
	}
}

// WithSuggester adds category suggestion support to the pipeline.
func (s *IngestService) WithSuggester(suggester Suggester) *IngestService {
	s.suggester = suggester
	return s
}

// WithKeywordLearner adds learning support to the pipeline.
func (s *IngestService) WithKeywordLearner(learner KeywordLearner) *IngestService {
	s.learner = learner
	return s
}

// WithDuplicateMarker adds duplicate flagging support to the pipeline.
func (s *IngestService) WithDuplicateMarker(marker DuplicateMarker) *IngestService {
	s.duplicates = marker
	return s
}

// WithTextExtractor adds document ingestion support to the pipeline.
func (s *IngestService) WithTextExtractor(extractor TextExtractor) *IngestService {
	s.extractor = extractor
	return s
}

// Ingest parses statement text with the best parser for the bank and enriches
// the transactions. Suggestion and duplicate failures degrade the result, they
// never fail the run.
func (s *IngestService) Ingest(ctx context.Context, text, bankName string, opts Options) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "ingest.Run",
		trace.WithAttributes(attribute.String("bank", bankName)),
	)
	defer span.End()

	started := time.Now()

	transactions, info, parserName, confidence := s.parse(text, bankName)
	span.SetAttributes(
		attribute.String("parser", parserName),
		attribute.Int("transactions", len(transactions)),
	)

	lines := countNonEmptyLines(text)
	stats := RunStats{
		ParserName:       parserName,
		ParserConfidence: confidence,
		LinesTotal:       lines,
		LinesSkipped:     lines - len(transactions),
		TransactionCount: len(transactions),
	}

	if matched, ok := parser.ReconcileBalances(info, transactions); ok {
		stats.BalancesMatch = &matched
		if !matched {
			s.logger.Warn("statement balances do not reconcile",
				slog.String("opening", info.OpeningBalance.Display()),
				slog.String("closing", info.ClosingBalance.Display()),
				slog.Int("transactions", len(transactions)))
		}
	}

	if s.suggester != nil {
		stats.SuggestedCount, stats.SuggestionSkipped = s.suggest(ctx, transactions)
	}

	if s.duplicates != nil && opts.UserID != nil && len(transactions) > 0 {
		marked, err := s.duplicates.MarkDuplicates(ctx, *opts.UserID, transactions)
		if err != nil {
			s.logger.Warn("duplicate detection failed, continuing without flags",
				slog.String("error", err.Error()),
			)
		} else {
			stats.DuplicateCount = marked
		}
	}

	stats.Duration = time.Since(started)
	observeRun(parserName, stats)

	s.logger.Info("statement ingested",
		slog.String("parser", parserName),
		slog.Int("transactions", stats.TransactionCount),
		slog.Int("suggested", stats.SuggestedCount),
		slog.Int("duplicates", stats.DuplicateCount),
		slog.Duration("duration", stats.Duration),
	)

	return &Result{
		Transactions: transactions,
		Info:         info,
		Stats:        stats,
	}, nil
}

// IngestDocument extracts text from an uploaded statement document and runs
// Ingest on it.
func (s *IngestService) IngestDocument(ctx context.Context, data []byte, bankName string, opts Options) (*Result, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("document ingestion not configured")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if s.extractor.IsEncrypted(data) {
		return nil, fmt.Errorf("document is password protected")
	}

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extract document text: %w", err)
	}

	if pages, err := s.extractor.PageCount(data); err == nil {
		s.logger.Debug("document extracted", slog.Int("pages", pages))
	}

	return s.Ingest(ctx, text, bankName, opts)
}

// LearnFromUserChoice forwards a confirmed category choice to the keyword
// learner, so future suggestions for similar transactions improve.
func (s *IngestService) LearnFromUserChoice(ctx context.Context, description, merchantName string, categoryID uuid.UUID) error {
	if s.learner == nil {
		return nil
	}
	return s.learner.LearnFromUserChoice(ctx, description, merchantName, categoryID)
}

// SupportedBanks lists the banks with a dedicated parser.
func (s *IngestService) SupportedBanks() []string {
	return s.registry.SupportedBanks()
}

func countNonEmptyLines(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// parse resolves a parser and runs it. When the bank parser yields no
// transactions the generic fallback gets a try; its lower confidence reflects
// the weaker match.
func (s *IngestService) parse(text, bankName string) ([]parser.ExtractedTransaction, parser.BankStatementInfo, string, float64) {
	if bankParser, ok := s.registry.Resolve(bankName); ok {
		transactions, info := bankParser.Parse(text)
		if len(transactions) > 0 {
			return transactions, info, bankParser.Name(), bankParser.Confidence()
		}
		s.logger.Debug("bank parser found no transactions, falling back",
			slog.String("parser", bankParser.Name()),
		)
	} else if bankName != "" {
		s.logger.Debug("no parser registered for bank", slog.String("bank", bankName))
	}

	transactions, info := s.generic.Parse(text)
	if bankName != "" {
		// Keep the user's bank name even when the generic parser ran.
		info.BankName = bankName
	}
	return transactions, info, s.generic.Name(), s.generic.Confidence()
}

func (s *IngestService) suggest(ctx context.Context, transactions []parser.ExtractedTransaction) (suggested, skipped int) {
	for i := range transactions {
		tx := &transactions[i]
		amount := tx.Amount
		suggestions, err := s.suggester.Suggest(ctx, tx.Description, tx.MerchantName, &amount, tx.Type)
		if err != nil {
			skipped++
			s.logger.Warn("category suggestion failed for transaction",
				slog.String("transaction_id", tx.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if len(suggestions) == 0 {
			continue
		}
		top := suggestions[0]
		id := top.CategoryID
		tx.SuggestedCategoryID = &id
		tx.SuggestedCategoryName = top.CategoryName
		suggested++
	}
	return suggested, skipped
}
