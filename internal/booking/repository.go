package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymflow/internal/db"
	"gymflow/internal/gymclass"

	"github.com/jmoiron/sqlx"
)

const detailsSelect = `
	SELECT
		b.id,
		b.member_id,
		b.class_id,
		b.status,
		b.created_at,
		gc.name AS class_name,
		gc.start_time AS class_start,
		gc.end_time AS class_end,
		l.name AS location_name,
		l.club_id,
		u.name AS member_name,
		u.email AS member_email
	FROM bookings b
	JOIN gym_classes gc ON b.class_id = gc.id
	JOIN locations l ON gc.location_id = l.id
	JOIN users u ON b.member_id = u.id
`

type queries struct {
	q sqlx.ExtContext
}

func (r queries) GetClass(ctx context.Context, classID int, forUpdate bool) (*gymclass.GymClass, error) {
	query := `
		SELECT id, name, description, staff_id, location_id, start_time, end_time, max_capacity, created_at
		FROM gym_classes
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var c gymclass.GymClass
	if err := sqlx.GetContext(ctx, r.q, &c, query, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gymclass.ErrClassNotFound
		}
		return nil, fmt.Errorf("get class %d: %w", classID, err)
	}

	return &c, nil
}

// GetMember with forUpdate serialises one member's attempts across classes
// so the weekly limit cannot be overrun by parallel bookings of different
// classes.
func (r queries) GetMember(ctx context.Context, memberID int, forUpdate bool) error {
	query := `SELECT id FROM users WHERE id = $1 AND role = 'MEMBER'`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var id int
	if err := sqlx.GetContext(ctx, r.q, &id, query, memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("get member %d: %w", memberID, err)
	}
	return nil
}

func (r queries) HasActiveBooking(ctx context.Context, memberID, classID int) (bool, error) {
	return db.Exists(ctx, r.q, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE member_id = $1 AND class_id = $2 AND status = 'BOOKED'
		)
	`, memberID, classID)
}

func (r queries) CountMemberBookingsSince(ctx context.Context, memberID int, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE member_id = $1 AND status = 'BOOKED' AND created_at >= $2
	`

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, memberID, since); err != nil {
		return 0, err
	}
	return count, nil
}

func (r queries) CountActiveBookings(ctx context.Context, classID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE class_id = $1 AND status = 'BOOKED'
	`

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, classID); err != nil {
		return 0, err
	}
	return count, nil
}

func (r queries) InsertBooking(ctx context.Context, memberID, classID int) (*Booking, error) {
	query := `
		INSERT INTO bookings (member_id, class_id, status)
		VALUES ($1, $2, 'BOOKED')
		RETURNING id, member_id, class_id, status, created_at
	`

	var b Booking
	if err := sqlx.GetContext(ctx, r.q, &b, query, memberID, classID); err != nil {
		return nil, err
	}
	return &b, nil
}

type repository struct {
	queries
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{queries: queries{q: db}, db: db}
}

func (r *repository) RunInTx(ctx context.Context, fn func(q Queries) error) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(queries{q: tx})
	})
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, member_id, class_id, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) CancelBooking(ctx context.Context, id int) error {
	query := `
		UPDATE bookings
		SET status = 'CANCELLED'
		WHERE id = $1 AND status = 'BOOKED'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBookingNotActive
	}

	return nil
}

func (r *repository) GetMemberBookings(ctx context.Context, memberID int) ([]BookingWithDetails, error) {
	query := detailsSelect + `
		WHERE b.member_id = $1
		ORDER BY gc.start_time DESC
	`

	bookings := []BookingWithDetails{}
	if err := r.db.SelectContext(ctx, &bookings, query, memberID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error) {
	query := detailsSelect + `
		WHERE b.class_id = $1
		ORDER BY b.created_at DESC
	`

	bookings := []BookingWithDetails{}
	if err := r.db.SelectContext(ctx, &bookings, query, classID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) GetBookingsByClub(ctx context.Context, clubID int) ([]BookingWithDetails, error) {
	query := detailsSelect + `
		WHERE l.club_id = $1
		ORDER BY gc.start_time DESC, b.created_at DESC
	`

	bookings := []BookingWithDetails{}
	if err := r.db.SelectContext(ctx, &bookings, query, clubID); err != nil {
		return nil, err
	}
	return bookings, nil
}
