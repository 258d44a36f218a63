package duplicates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// StoredTransaction is a previously imported transaction, reduced to the
// fields duplicate scoring compares.
type StoredTransaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	TransactionDate time.Time
	Amount          decimal.Decimal
	Description     string
	MerchantName    string
}

// TransactionStore yields duplicate candidates for a user inside a date range.
type TransactionStore interface {
	ListByUserAroundDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]StoredTransaction, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository is the Postgres-backed TransactionStore.
type Repository struct {
	db querier
}

// NewRepository creates a transaction repository on a pgx pool.
func NewRepository(db querier) *Repository {
	return &Repository{db: db}
}

// ListByUserAroundDate fetches a user's transactions inside the date range.
func (r *Repository) ListByUserAroundDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]StoredTransaction, error) {
	query := `
		SELECT id, user_id, transaction_date, amount, description, merchant_name
		FROM transactions
		WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3
		ORDER BY transaction_date ASC
	`

	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []StoredTransaction
	for rows.Next() {
		var tx StoredTransaction
		var merchant *string
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.TransactionDate, &tx.Amount, &tx.Description, &merchant); err != nil {
			return nil, err
		}
		if merchant != nil {
			tx.MerchantName = *merchant
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}
