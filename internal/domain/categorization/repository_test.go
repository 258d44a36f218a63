package categorization

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontowerk/statement-ingest/internal/domain/ingest/parser"
)

func newMockRepository(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func categoryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "type", "keywords", "parent_id", "icon", "color", "sort_order", "is_active"})
}

func TestRepositoryGetActiveByType(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, name, type, keywords`).
		WithArgs("expense").
		WillReturnRows(categoryRows().
			AddRow(id, "Lebensmittel", "expense", []string{"rewe", "edeka"}, (*uuid.UUID)(nil), "cart", "#4caf50", 1, true))

	categories, err := repo.GetActiveByType(context.Background(), parser.TypeExpense)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, id, categories[0].ID)
	assert.Equal(t, parser.TypeExpense, categories[0].Type)
	assert.Equal(t, []string{"rewe", "edeka"}, categories[0].Keywords)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT id, name, type, keywords`).
			WithArgs(id).
			WillReturnRows(categoryRows().
				AddRow(id, "Transport", "expense", []string{"tanken"}, (*uuid.UUID)(nil), "", "", 2, true))

		c, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "Transport", c.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing yields nil, nil", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT id, name, type, keywords`).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		c, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, c)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryUpdateKeywords(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	// Keywords are normalized before hitting the database.
	mock.ExpectExec(`UPDATE categories SET keywords`).
		WithArgs(id, []string{"rewe", "edeka"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateKeywords(context.Background(), id, []string{" REWE ", "Edeka", "rewe"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryQueryError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT id, name, type, keywords`).
		WithArgs("income").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetActiveByType(context.Background(), parser.TypeIncome)
	assert.Error(t, err)
}
