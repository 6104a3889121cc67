package repository

import (
	"context"
	"testing"
	"time"

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

func TestCampaignParticipantIDs(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT DISTINCT "user_id" FROM "submissions" WHERE campaign_id = \$1`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))

	ids, err := NewNotificationRepository(db).CampaignParticipantIDs(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReminderSent(t *testing.T) {
	ctx := context.Background()

	t.Run("First mark wins", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "campaigns" SET "reminder_sent_at"=\$1 WHERE id = \$2 AND reminder_sent_at IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewNotificationRepository(db).MarkReminderSent(ctx, "c1", time.Now())

		assert.NoError(t, err)
	})

	t.Run("Already reminded", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "campaigns" SET "reminder_sent_at"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewNotificationRepository(db).MarkReminderSent(ctx, "c1", time.Now())

		assert.ErrorIs(t, err, ErrAlreadyReminded)
	})
}
