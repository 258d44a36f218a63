// Package categorization suggests spending categories for extracted
// transactions by keyword scoring, and learns new keywords from user choices.
package categorization

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kontowerk/statement-ingest/internal/domain/ingest/parser"
)

// Category is a spending category with its keyword set. Keywords are stored
// normalized: lower-cased, deduplicated, never empty.
type Category struct {
	ID        uuid.UUID
	Name      string
	Type      parser.TransactionType
	Keywords  []string
	ParentID  *uuid.UUID
	Icon      string
	Color     string
	SortOrder int
	IsActive  bool
}

// Suggestion is one ranked category candidate for a transaction.
type Suggestion struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Icon         string    `json:"icon,omitempty"`
	Color        string    `json:"color,omitempty"`
	Confidence   float64   `json:"confidence"`
	MatchReason  string    `json:"match_reason"`
}

// CategoryStore is the category lookup this core depends on but does not own.
type CategoryStore interface {
	GetActiveByType(ctx context.Context, txType parser.TransactionType) ([]Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	UpdateKeywords(ctx context.Context, id uuid.UUID, keywords []string) error
}

// querier is the slice of the pgx pool surface the repository needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository is the Postgres-backed CategoryStore.
type Repository struct {
	db querier
}

// NewRepository creates a category repository on a pgx pool.
func NewRepository(db querier) *Repository {
	return &Repository{db: db}
}

// GetActiveByType fetches all active categories of one transaction type,
// ordered for deterministic suggestion tie-breaking.
func (r *Repository) GetActiveByType(ctx context.Context, txType parser.TransactionType) ([]Category, error) {
	query := `
		SELECT id, name, type, keywords, parent_id, icon, color, sort_order, is_active
		FROM categories
		WHERE type = $1 AND is_active = true
		ORDER BY sort_order ASC, name ASC
	`

	rows, err := r.db.Query(ctx, query, string(txType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// GetByID fetches one category; (nil, nil) when it does not exist, because a
// missing category is an expected no-op condition for learning.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	query := `
		SELECT id, name, type, keywords, parent_id, icon, color, sort_order, is_active
		FROM categories
		WHERE id = $1
	`

	row := r.db.QueryRow(ctx, query, id)
	c, err := scanCategory(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateKeywords replaces a category's keyword set. The caller performs the
// read-modify-write; last writer wins, which is acceptable for keyword sets.
func (r *Repository) UpdateKeywords(ctx context.Context, id uuid.UUID, keywords []string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE categories SET keywords = $2, updated_at = now() WHERE id = $1`,
		id, NormalizeKeywords(keywords),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var c Category
	var typ string
	if err := row.Scan(&c.ID, &c.Name, &typ, &c.Keywords, &c.ParentID, &c.Icon, &c.Color, &c.SortOrder, &c.IsActive); err != nil {
		return Category{}, err
	}
	c.Type = parser.TransactionType(typ)
	return c, nil
}

// NormalizeKeywords lower-cases, trims, and deduplicates a keyword set,
// dropping empties. Order of first appearance is kept.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
