package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockedRepo(t *testing.T) (AssetRequestRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewAssetRequestRepository(db), mock
}

func TestNextReceiptSequence_DrawsMaxSuffixPlusOne(t *testing.T) {
	repo, mock := newMockedRepo(t)

	mock.ExpectExec("pg_advisory_xact_lock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("MAX").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))

	seq, err := repo.NextReceiptSequence(context.Background(), "RCPT-20260901-")
	require.NoError(t, err)
	require.Equal(t, int64(8), seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextReceiptSequence_StartsAtOneOnEmptyDay(t *testing.T) {
	repo, mock := newMockedRepo(t)

	mock.ExpectExec("pg_advisory_xact_lock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("MAX").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	seq, err := repo.NextReceiptSequence(context.Background(), "RCPT-20260901-")
	require.NoError(t, err)
	require.Equal(t, int64(1), seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextReceiptSequence_FailsWhenLockFails(t *testing.T) {
	repo, mock := newMockedRepo(t)

	mock.ExpectExec("pg_advisory_xact_lock").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.NextReceiptSequence(context.Background(), "RCPT-20260901-")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
