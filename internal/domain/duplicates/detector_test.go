package duplicates

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontowerk/statement-ingest/internal/domain/ingest/parser"
)

type fakeTransactionStore struct {
	transactions []StoredTransaction
	err          error
}

func (s *fakeTransactionStore) ListByUserAroundDate(_ context.Context, userID uuid.UUID, from, to time.Time) ([]StoredTransaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []StoredTransaction
	for _, tx := range s.transactions {
		if tx.UserID != userID {
			continue
		}
		if tx.TransactionDate.Before(from) || tx.TransactionDate.After(to) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func newTestDetector(store TransactionStore) *Detector {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDetector(store, DefaultConfig(), logger)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func storedTx(userID uuid.UUID, day time.Time, amount float64, description string) StoredTransaction {
	return StoredTransaction{
		ID:              uuid.New(),
		UserID:          userID,
		TransactionDate: day,
		Amount:          decimal.NewFromFloat(amount),
		Description:     description,
	}
}

func extractedTx(day time.Time, amount float64, description string) parser.ExtractedTransaction {
	return parser.ExtractedTransaction{
		ID:              uuid.New(),
		TransactionDate: day,
		BookingDate:     day,
		Amount:          decimal.NewFromFloat(amount),
		Type:            parser.TypeExpense,
		Description:     description,
	}
}

func TestDetectorScore(t *testing.T) {
	detector := newTestDetector(nil)
	userID := uuid.New()
	day := date(2024, time.March, 3)

	t.Run("identical transaction scores 1.0", func(t *testing.T) {
		existing := storedTx(userID, day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE")
		extracted := extractedTx(day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE")
		assert.InDelta(t, 1.0, detector.Score(existing, extracted), 0.001)
	})

	t.Run("different amount outside the date window scores 0.0", func(t *testing.T) {
		existing := storedTx(userID, day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE")
		extracted := extractedTx(day.AddDate(0, 0, 45), 99.99, "KARTENZAHLUNG REWE SAGT DANKE")
		assert.Equal(t, 0.0, detector.Score(existing, extracted))
	})

	t.Run("same amount a few days apart stays above threshold", func(t *testing.T) {
		existing := storedTx(userID, day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE")
		extracted := extractedTx(day.AddDate(0, 0, 2), 45.67, "KARTENZAHLUNG REWE SAGT DANKE")
		score := detector.Score(existing, extracted)
		assert.Greater(t, score, detector.cfg.Threshold)
		assert.Less(t, score, 1.0)
	})

	t.Run("same day different amount and text scores low", func(t *testing.T) {
		existing := storedTx(userID, day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE")
		extracted := extractedTx(day, 1200.00, "MIETE WOHNUNG HAUPTSTRASSE")
		assert.Less(t, detector.Score(existing, extracted), detector.cfg.Threshold)
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			existing := storedTx(userID,
				gofakeit.DateRange(date(2024, time.January, 1), date(2024, time.December, 31)),
				gofakeit.Float64Range(0.01, 5000),
				gofakeit.Sentence(4),
			)
			extracted := extractedTx(
				gofakeit.DateRange(date(2024, time.January, 1), date(2024, time.December, 31)),
				gofakeit.Float64Range(0.01, 5000),
				gofakeit.Sentence(4),
			)
			score := detector.Score(existing, extracted)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})
}

func TestDetectorFindDuplicates(t *testing.T) {
	userID := uuid.New()
	day := date(2024, time.March, 3)
	existing := storedTx(userID, day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE")
	other := storedTx(userID, day.AddDate(0, 0, 1), 12.50, "AMAZON.DE BESTELLUNG")

	store := &fakeTransactionStore{transactions: []StoredTransaction{existing, other}}
	detector := newTestDetector(store)

	extracted := []parser.ExtractedTransaction{
		extractedTx(day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE"),
		extractedTx(day, 300.00, "FRISEUR TERMIN"),
	}

	matches, err := detector.FindDuplicates(context.Background(), userID, extracted)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.NotNil(t, matches[0])
	assert.Equal(t, existing.ID, matches[0].ExistingID)
	assert.InDelta(t, 1.0, matches[0].Score, 0.001)
	assert.Nil(t, matches[1])
}

func TestDetectorFindDuplicatesScopesUser(t *testing.T) {
	userID := uuid.New()
	day := date(2024, time.March, 3)
	otherUsers := storedTx(uuid.New(), day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE")

	store := &fakeTransactionStore{transactions: []StoredTransaction{otherUsers}}
	detector := newTestDetector(store)

	matches, err := detector.FindDuplicates(context.Background(), userID, []parser.ExtractedTransaction{
		extractedTx(day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE"),
	})
	require.NoError(t, err)
	assert.Nil(t, matches[0])
}

func TestDetectorMarkDuplicates(t *testing.T) {
	userID := uuid.New()
	day := date(2024, time.March, 3)
	existing := storedTx(userID, day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE")

	store := &fakeTransactionStore{transactions: []StoredTransaction{existing}}
	detector := newTestDetector(store)

	extracted := []parser.ExtractedTransaction{
		extractedTx(day, 45.67, "KARTENZAHLUNG REWE SAGT DANKE"),
		extractedTx(day, 300.00, "FRISEUR TERMIN"),
	}

	marked, err := detector.MarkDuplicates(context.Background(), userID, extracted)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	require.NotNil(t, extracted[0].DuplicateOfID)
	assert.Equal(t, existing.ID, *extracted[0].DuplicateOfID)
	assert.InDelta(t, 1.0, extracted[0].DuplicateScore, 0.001)

	assert.Nil(t, extracted[1].DuplicateOfID)
	assert.Zero(t, extracted[1].DuplicateScore)
}

func TestDetectorStoreError(t *testing.T) {
	store := &fakeTransactionStore{err: errors.New("connection refused")}
	detector := newTestDetector(store)

	_, err := detector.FindDuplicates(context.Background(), uuid.New(), []parser.ExtractedTransaction{
		extractedTx(date(2024, time.March, 3), 45.67, "REWE"),
	})
	assert.Error(t, err)
}

func TestDetectorEmptyBatch(t *testing.T) {
	detector := newTestDetector(&fakeTransactionStore{})
	matches, err := detector.FindDuplicates(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
