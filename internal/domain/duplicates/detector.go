// Package duplicates flags extracted transactions that were likely already
// imported, by comparing date proximity, amount, and text similarity against
// stored transactions.
package duplicates

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kontowerk/statement-ingest/internal/domain/ingest/parser"
)

// Config carries the duplicate detection thresholds.
type Config struct {
	Threshold      float64 // scores at or above this mark a duplicate
	DateWindowDays int     // stored transactions outside this window are not candidates
}

// DefaultConfig returns the detection parameters the pipeline ships with.
func DefaultConfig() Config {
	return Config{
		Threshold:      0.75,
		DateWindowDays: 30,
	}
}

// Match pairs an extracted transaction with the stored transaction it likely
// duplicates.
type Match struct {
	ExistingID uuid.UUID
	Score      float64
}

// Detector scores extracted transactions against stored ones.
type Detector struct {
	store  TransactionStore
	cfg    Config
	logger *slog.Logger
}

// NewDetector creates a duplicate detector.
func NewDetector(store TransactionStore, cfg Config, logger *slog.Logger) *Detector {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	if cfg.DateWindowDays <= 0 {
		cfg.DateWindowDays = DefaultConfig().DateWindowDays
	}
	return &Detector{store: store, cfg: cfg, logger: logger}
}

// Weights of the three similarity components. Amount carries the most weight:
// two transactions with different amounts are rarely the same booking even
// when the text matches.
const (
	dateWeight   = 0.3
	amountWeight = 0.4
	textWeight   = 0.3
)

// Score rates how likely the extracted transaction duplicates the stored one,
// in [0, 1]. Identical date, amount, and text score 1.0. A transaction with a
// different amount outside the date window scores 0.0 outright.
func (d *Detector) Score(existing StoredTransaction, extracted parser.ExtractedTransaction) float64 {
	gapDays := dateGapDays(existing.TransactionDate, extracted.TransactionDate)
	amountEqual := existing.Amount.Equal(extracted.Amount)

	if !amountEqual && gapDays > d.cfg.DateWindowDays {
		return 0.0
	}

	dateScore := 0.0
	if gapDays <= d.cfg.DateWindowDays {
		dateScore = 1.0 - float64(gapDays)/float64(d.cfg.DateWindowDays)
	}

	amountScore := 0.0
	if amountEqual {
		amountScore = 1.0
	}

	textScore := textSimilarity(
		compareText(existing.Description, existing.MerchantName),
		compareText(extracted.Description, extracted.MerchantName),
	)

	return dateWeight*dateScore + amountWeight*amountScore + textWeight*textScore
}

// FindDuplicates returns, per extracted transaction, the best-scoring stored
// match at or above the threshold, or nil where none qualifies. Candidates
// are fetched once for the whole batch.
func (d *Detector) FindDuplicates(ctx context.Context, userID uuid.UUID, extracted []parser.ExtractedTransaction) ([]*Match, error) {
	matches := make([]*Match, len(extracted))
	if len(extracted) == 0 {
		return matches, nil
	}

	from, to := batchDateRange(extracted, d.cfg.DateWindowDays)
	candidates, err := d.store.ListByUserAroundDate(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list candidate transactions: %w", err)
	}
	if len(candidates) == 0 {
		return matches, nil
	}

	for i, tx := range extracted {
		var best *Match
		for _, existing := range candidates {
			score := d.Score(existing, tx)
			if score < d.cfg.Threshold {
				continue
			}
			if best == nil || score > best.Score {
				best = &Match{ExistingID: existing.ID, Score: score}
			}
		}
		matches[i] = best
	}
	return matches, nil
}

// MarkDuplicates annotates the extracted transactions in place with their
// duplicate match, if any.
func (d *Detector) MarkDuplicates(ctx context.Context, userID uuid.UUID, extracted []parser.ExtractedTransaction) (int, error) {
	matches, err := d.FindDuplicates(ctx, userID, extracted)
	if err != nil {
		return 0, err
	}

	marked := 0
	for i, m := range matches {
		if m == nil {
			continue
		}
		id := m.ExistingID
		extracted[i].DuplicateOfID = &id
		extracted[i].DuplicateScore = m.Score
		marked++
	}

	if marked > 0 {
		d.logger.Info("duplicate transactions flagged",
			slog.Int("flagged", marked),
			slog.Int("total", len(extracted)),
		)
	}
	return marked, nil
}

func dateGapDays(a, b time.Time) int {
	gap := a.Sub(b)
	if gap < 0 {
		gap = -gap
	}
	return int(gap.Hours() / 24)
}

// batchDateRange spans the transaction dates of a batch plus the window on
// both sides, so one query covers every candidate.
func batchDateRange(extracted []parser.ExtractedTransaction, windowDays int) (time.Time, time.Time) {
	min, max := extracted[0].TransactionDate, extracted[0].TransactionDate
	for _, tx := range extracted[1:] {
		if tx.TransactionDate.Before(min) {
			min = tx.TransactionDate
		}
		if tx.TransactionDate.After(max) {
			max = tx.TransactionDate
		}
	}
	window := time.Duration(windowDays) * 24 * time.Hour
	return min.Add(-window), max.Add(window)
}

func compareText(description, merchant string) string {
	return strings.ToLower(strings.TrimSpace(description + " " + merchant))
}

// textSimilarity rates two transaction texts in [0, 1] by containment, edit
// distance, and subsequence rank, taking the best of the three.
func textSimilarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}

	if strings.Contains(a, b) {
		return 0.75 + 0.25*float64(len(b))/float64(len(a))
	}
	if strings.Contains(b, a) {
		return 0.75 + 0.25*float64(len(a))/float64(len(b))
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}

	distance := fuzzy.LevenshteinDistance(a, b)
	levScore := float64(maxLen-distance) / float64(maxLen)

	rankScore := 0.0
	if rank := fuzzy.RankMatch(b, a); rank >= 0 && rank < len(a) {
		rankScore = 0.6 - 0.4*float64(rank)/float64(len(a))
	}

	if levScore > rankScore {
		return levScore
	}
	return rankScore
}
