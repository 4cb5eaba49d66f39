package ledger

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var billableCols = []string{
	"user_id", "name", "email", "club_id", "membership_plan_id", "cents_owed", "next_billing_date",
	"plan_id", "plan_name", "price_cents", "billing_period_days",
}

func setupLedgerMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func TestListDueAccounts(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	today := date(2026, 3, 10)
	mock.ExpectQuery(regexp.QuoteMeta("AND next_billing_date <= $1")).
		WithArgs(today).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(8))

	ids, err := repo.ListDueAccounts(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 8}, ids)
}

func TestChargeIfDue_Success(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	today := date(2026, 3, 10)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF u")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(billableCols).
			AddRow(20, "Ann", "ann@example.com", 1, 2, 1000, date(2026, 3, 10), 2, "Monthly", 4999, 30))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs(5999, date(2026, 4, 9), 20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_entries (user_id, amount_cents, type, owed_after, billed_for)")).
		WithArgs(20, 4999, EntryMembershipCharge, 5999, date(2026, 3, 10)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := repo.ChargeIfDue(context.Background(), 20, today)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, int64(5999), res.Account.CentsOwed)
	assert.Equal(t, "Monthly", res.Plan.Name)
	assert.True(t, date(2026, 4, 9).Equal(res.Charge.NextBillingDate))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChargeIfDue_NotDueCommitsWithoutWrites(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF u")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(billableCols).
			AddRow(20, "Ann", "ann@example.com", 1, 2, 1000, date(2026, 4, 9), 2, "Monthly", 4999, 30))
	mock.ExpectCommit()

	res, err := repo.ChargeIfDue(context.Background(), 20, date(2026, 3, 10))
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChargeIfDue_NoPlan(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF u")).
		WithArgs(21).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	res, err := repo.ChargeIfDue(context.Background(), 21, date(2026, 3, 10))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestChargeIfDue_RollsBackOnFailure(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF u")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(billableCols).
			AddRow(20, "Ann", "ann@example.com", 1, 2, 0, date(2026, 3, 10), 2, "Monthly", 4999, 30))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	res, err := repo.ChargeIfDue(context.Background(), 20, date(2026, 3, 10))
	assert.Error(t, err)
	assert.Nil(t, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChargeIfDue_DuplicateEntry(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF u")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(billableCols).
			AddRow(20, "Ann", "ann@example.com", 1, 2, 0, date(2026, 3, 10), 2, "Monthly", 4999, 30))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_entries")).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.ChargeIfDue(context.Background(), 20, date(2026, 3, 10))
	assert.ErrorIs(t, err, ErrAlreadyCharged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountNotFound(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs(4).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAccount(context.Background(), 4)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestListEntriesDefaultsLimit(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM ledger_entries")).
		WithArgs(4, 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount_cents", "type", "owed_after", "billed_for", "created_at"}).
			AddRow(1, 4, 4999, EntryMembershipCharge, 4999, date(2026, 3, 10), time.Now()))

	entries, err := repo.ListEntries(context.Background(), 4, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4999), entries[0].OwedAfter)
}

func TestListOwing(t *testing.T) {
	repo, mock, close := setupLedgerMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cents_owed > 0")).
		WithArgs(2, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "club_id", "membership_plan_id", "cents_owed", "next_billing_date"}).
			AddRow(5, "Bo", "bo@example.com", 2, 1, 12000, date(2026, 4, 1)))

	accounts, err := repo.ListOwing(context.Background(), intPtr(2), 10, 0)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(12000), accounts[0].CentsOwed)
}
