package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"toolcrib/lending"
	"toolcrib/models"
)

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	return NewRepo(gdb), mock, conn
}

func TestItemStoreFindByIDForUpdateLocksRow(t *testing.T) {
	repo, mock, conn := newMockRepo(t)
	defer conn.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "tc_items" WHERE id = \$1(.|\n)*FOR UPDATE`).
		WithArgs("i1", 1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "description", "category", "status", "created_at", "updated_at"}).
			AddRow("i1", "Cordless drill", "", "power tools", "Available", now, now))

	it, err := repo.Items().FindByIDForUpdate(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "i1", it.ID)
	assert.Equal(t, models.StatusAvailable, it.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemStoreFindByIDMapsMissingRow(t *testing.T) {
	repo, mock, conn := newMockRepo(t)
	defer conn.Close()

	mock.ExpectQuery(`SELECT \* FROM "tc_items" WHERE id = \$1`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Items().FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, lending.ErrNoRow)
}

func TestLoanStoreFindOpenByItemFiltersAndOrders(t *testing.T) {
	repo, mock, conn := newMockRepo(t)
	defer conn.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "tc_loans" WHERE item_id = \$1 AND returned_at IS NULL ORDER BY lent_at DESC`).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "item_id", "borrower_id", "borrower_name", "borrower_email", "lent_at"}).
			AddRow("l1", "i1", "b1", "Ada Lovelace", "ada@example.com", now))

	ls, err := repo.Loans().FindOpenByItem(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "l1", ls[0].ID)
	assert.Nil(t, ls[0].ReturnedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	repo, mock, conn := newMockRepo(t)
	defer conn.Close()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.RunInTransaction(context.Background(), func(ctx context.Context, s lending.Stores) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransactionCommitsOnSuccess(t *testing.T) {
	repo, mock, conn := newMockRepo(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tc_items" SET "status"=\$1`).
		WithArgs("Lent", sqlmock.AnyArg(), "i1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RunInTransaction(context.Background(), func(ctx context.Context, s lending.Stores) error {
		return s.Items().UpdateStatus(ctx, "i1", models.StatusLent)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteItemRefusesWhileLoansExist(t *testing.T) {
	repo, mock, conn := newMockRepo(t)
	defer conn.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tc_items" WHERE id = \$1(.|\n)*FOR UPDATE`).
		WithArgs("i1", 1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "description", "category", "status", "created_at", "updated_at"}).
			AddRow("i1", "Cordless drill", "", "power tools", "Available", now, now))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tc_loans" WHERE item_id = \$1`).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	err := repo.DeleteItem(context.Background(), "i1")
	require.ErrorIs(t, err, ErrItemHasLoans)
	assert.NoError(t, mock.ExpectationsWereMet())
}
