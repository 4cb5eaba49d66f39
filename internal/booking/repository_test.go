package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"gymflow/internal/gymclass"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	classCols   = []string{"id", "name", "description", "staff_id", "location_id", "start_time", "end_time", "max_capacity", "created_at"}
	bookingCols = []string{"id", "member_id", "class_id", "status", "created_at"}
)

func setupBookingMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func TestRunInTxBookingFlow(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	since := start.Add(-7 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM gym_classes") + ".*FOR UPDATE").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(classCols).AddRow(3, "Spin", "", 2, 1, start, start.Add(time.Hour), 10, start))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id = $1 AND role = 'MEMBER' FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(")).
		WithArgs(5, 3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(5, since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(5, 3).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(11, 5, 3, "BOOKED", start))
	mock.ExpectCommit()

	var b *Booking
	err := repo.RunInTx(context.Background(), func(q Queries) error {
		class, err := q.GetClass(context.Background(), 3, true)
		require.NoError(t, err)
		assert.Equal(t, 10, class.MaxCapacity)

		require.NoError(t, q.GetMember(context.Background(), 5, true))

		exists, err := q.HasActiveBooking(context.Background(), 5, 3)
		require.NoError(t, err)
		assert.False(t, exists)

		n, err := q.CountMemberBookingsSince(context.Background(), 5, since)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = q.CountActiveBookings(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, 9, n)

		b, err = q.InsertBooking(context.Background(), 5, 3)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 11, b.ID)
	assert.Equal(t, StatusBooked, b.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnUniqueViolation(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(5, 3).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.RunInTx(context.Background(), func(q Queries) error {
		_, err := q.InsertBooking(context.Background(), 5, 3)
		return err
	})

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClassNotFound(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM gym_classes")).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows(classCols))

	_, err := repo.GetClass(context.Background(), 404, false)
	assert.ErrorIs(t, err, gymclass.ErrClassNotFound)
}

func TestGetMemberNotFound(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id = $1 AND role = 'MEMBER'") + "$").
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assert.ErrorIs(t, repo.GetMember(context.Background(), 8, false), ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByID(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(1, 5, 3, "BOOKED", now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	b, err := repo.GetBookingByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, b.MemberID)

	_, err = repo.GetBookingByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepositoryCancelBooking(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.CancelBooking(context.Background(), 1))
	assert.ErrorIs(t, repo.CancelBooking(context.Background(), 2), ErrBookingNotActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMemberBookings(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	now := time.Now()
	cols := append(append([]string{}, bookingCols...),
		"class_name", "class_start", "class_end", "location_name", "club_id", "member_name", "member_email")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.member_id = $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 5, 3, "BOOKED", now, "Spin", now, now.Add(time.Hour), "Studio A", 1, "Ana", "ana@example.com"))

	bookings, err := repo.GetMemberBookings(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Studio A", bookings[0].LocationName)
	assert.Equal(t, 1, bookings[0].ClubID)
}

func TestGetBookingStats(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	// cancelled bookings still count as created
	mock.ExpectQuery(`COUNT\(\*\)\s+AS bookings_created,(.|\n)*GROUP BY DATE\(created_at\)`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"bucket", "bookings_created", "bookings_cancelled"}).
			AddRow("2026-03-02", 4, 1))
	mock.ExpectQuery(`COUNT\(b\.id\)\s+AS bookings_created,(.|\n)*GROUP BY c\.id, c\.name`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"club_id", "club_name", "bookings_created", "bookings_cancelled"}).
			AddRow(1, "Downtown", 10, 2))

	days, err := repo.GetBookingStatsByDay(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, []BookingStatsByBucket{{Bucket: "2026-03-02", BookingsCreated: 4, BookingsCancelled: 1}}, days)

	clubs, err := repo.GetBookingStatsByClub(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, "Downtown", clubs[0].ClubName)
	require.NoError(t, mock.ExpectationsWereMet())
}
