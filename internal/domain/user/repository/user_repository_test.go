package repository

import (
	"context"
	"testing"

	"art_contest_admin/internal/domain/user/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestSearchEscapesWildcards(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE \(mobile_number ILIKE \$1 OR username ILIKE \$2\)`).
		WithArgs(`%50\%%`, `%50\%%`, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "mobile_number"}).AddRow("u1", "9876500001"))

	users, err := NewUserRepository(db).Search(context.Background(), "50%", 20)

	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE status = \$1`).
		WithArgs("verified").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE status = \$1 .*ORDER BY created_at DESC LIMIT \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "wallet_balance"}).AddRow("u1", "verified", 120.5))

	users, total, err := NewUserRepository(db).List(context.Background(), model.StatusVerified, 0, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, 120.5, users[0].Wallet.Balance)
}
