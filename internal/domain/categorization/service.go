package categorization

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kontowerk/statement-ingest/internal/domain/ingest/parser"
)

// Config carries the tunable suggestion parameters. The thresholds are policy
// defaults, not business requirements; keep them configurable.
type Config struct {
	MinConfidence  float64  // suggestions below this are discarded
	MaxSuggestions int      // ranked-list cap
	StopWords      []string // tokens never learned as keywords
}

// DefaultConfig returns the parameters the suggestion engine ships with.
func DefaultConfig() Config {
	return Config{
		MinConfidence:  0.3,
		MaxSuggestions: 5,
		StopWords:      defaultStopWords,
	}
}

// Service ranks category suggestions for transactions and learns keywords
// from user choices. Engines are cached per transaction type; the keyword
// store is the only cross-run shared state and has a single write path,
// LearnFromUserChoice.
type Service struct {
	store  CategoryStore
	cfg    Config
	logger *slog.Logger

	stopWords map[string]struct{}

	cacheMu sync.RWMutex
	engines map[parser.TransactionType]*Engine
}

// NewService creates a suggestion service.
func NewService(store CategoryStore, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultConfig().MaxSuggestions
	}
	// Zero is a valid threshold (keep every match); only a negative value
	// means unset.
	if cfg.MinConfidence < 0 {
		cfg.MinConfidence = DefaultConfig().MinConfidence
	}
	if len(cfg.StopWords) == 0 {
		cfg.StopWords = defaultStopWords
	}
	return &Service{
		store:     store,
		cfg:       cfg,
		logger:    logger,
		stopWords: stopWordSet(cfg.StopWords),
		engines:   make(map[parser.TransactionType]*Engine),
	}
}

// Suggest ranks categories for a transaction by keyword overlap with its
// description and merchant name. Results are capped, threshold-filtered, and
// deterministically ordered. The amount is accepted for future weighting and
// currently unused in scoring.
func (s *Service) Suggest(ctx context.Context, description, merchantName string, amount *decimal.Decimal, txType parser.TransactionType) ([]Suggestion, error) {
	engine, err := s.engineFor(ctx, txType)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	text := strings.TrimSpace(description + " " + merchantName)
	scored := engine.Score(text)

	suggestions := make([]Suggestion, 0, s.cfg.MaxSuggestions)
	for _, sc := range scored {
		if sc.Confidence < s.cfg.MinConfidence {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			CategoryID:   sc.Category.ID,
			CategoryName: sc.Category.Name,
			Icon:         sc.Category.Icon,
			Color:        sc.Category.Color,
			Confidence:   sc.Confidence,
			MatchReason:  fmt.Sprintf("matched keywords: %s", strings.Join(sc.MatchedKeywords, ", ")),
		})
		if len(suggestions) == s.cfg.MaxSuggestions {
			break
		}
	}

	return suggestions, nil
}

// SuggestBatch scores many transactions against one category fetch. Used by
// the ingestion pipeline to enrich a whole statement.
func (s *Service) SuggestBatch(ctx context.Context, transactions []parser.ExtractedTransaction) ([][]Suggestion, error) {
	results := make([][]Suggestion, len(transactions))
	for i, tx := range transactions {
		amount := tx.Amount
		suggestions, err := s.Suggest(ctx, tx.Description, tx.MerchantName, &amount, tx.Type)
		if err != nil {
			return nil, err
		}
		results[i] = suggestions
	}
	return results, nil
}

// LearnFromUserChoice unions the non-stop-word tokens of a transaction's text
// into the chosen category's keyword set. A non-existent category is a no-op:
// the user may have deleted it between suggestion and confirmation.
func (s *Service) LearnFromUserChoice(ctx context.Context, description, merchantName string, categoryID uuid.UUID) error {
	category, err := s.store.GetByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("load category %s: %w", categoryID, err)
	}
	if category == nil {
		s.logger.Debug("learn skipped, category not found",
			slog.String("category_id", categoryID.String()),
		)
		return nil
	}

	tokens := s.learnableTokens(description + " " + merchantName)
	if len(tokens) == 0 {
		return nil
	}

	existing := NormalizeKeywords(category.Keywords)
	known := make(map[string]struct{}, len(existing))
	for _, kw := range existing {
		known[kw] = struct{}{}
	}

	added := 0
	merged := existing
	for _, token := range tokens {
		if _, ok := known[token]; ok {
			continue
		}
		known[token] = struct{}{}
		merged = append(merged, token)
		added++
	}
	if added == 0 {
		return nil
	}

	if err := s.store.UpdateKeywords(ctx, categoryID, merged); err != nil {
		return fmt.Errorf("update keywords for %s: %w", categoryID, err)
	}

	s.logger.Info("learned category keywords",
		slog.String("category", category.Name),
		slog.Int("added", added),
	)

	// The cached engine for this type is stale now.
	s.invalidate(category.Type)
	return nil
}

// RefreshCache drops all cached engines so the next suggestion reloads
// categories. Wired to the background scheduler.
func (s *Service) RefreshCache(ctx context.Context) error {
	s.cacheMu.Lock()
	s.engines = make(map[parser.TransactionType]*Engine)
	s.cacheMu.Unlock()
	s.logger.Debug("category suggestion cache cleared")
	return nil
}

func (s *Service) engineFor(ctx context.Context, txType parser.TransactionType) (*Engine, error) {
	s.cacheMu.RLock()
	engine, ok := s.engines[txType]
	s.cacheMu.RUnlock()
	if ok {
		return engine, nil
	}

	categories, err := s.store.GetActiveByType(ctx, txType)
	if err != nil {
		return nil, err
	}

	engine = NewEngine(categories)

	s.cacheMu.Lock()
	s.engines[txType] = engine
	s.cacheMu.Unlock()

	return engine, nil
}

func (s *Service) invalidate(txType parser.TransactionType) {
	s.cacheMu.Lock()
	delete(s.engines, txType)
	s.cacheMu.Unlock()
}

// learnableTokens tokenizes text on non-letter/digit boundaries, lower-cases,
// and drops stop words and degenerate tokens.
func (s *Service) learnableTokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := s.stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}
