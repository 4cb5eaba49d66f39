package booking

import (
	"context"
	"time"

	"gymflow/internal/gymclass"
)

// Queries are the reads and writes of one booking attempt. They run either
// against the pool or inside the transaction opened by RunInTx.
type Queries interface {
	// GetClass returns gymclass.ErrClassNotFound when the class does not
	// exist. forUpdate row-locks the class until the transaction ends.
	GetClass(ctx context.Context, classID int, forUpdate bool) (*gymclass.GymClass, error)
	// GetMember returns ErrMemberNotFound unless memberID is a user with the
	// MEMBER role. forUpdate row-locks the user.
	GetMember(ctx context.Context, memberID int, forUpdate bool) error
	HasActiveBooking(ctx context.Context, memberID, classID int) (bool, error)
	CountMemberBookingsSince(ctx context.Context, memberID int, since time.Time) (int, error)
	CountActiveBookings(ctx context.Context, classID int) (int, error)
	InsertBooking(ctx context.Context, memberID, classID int) (*Booking, error)
}

type Repository interface {
	Queries
	RunInTx(ctx context.Context, fn func(q Queries) error) error

	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	CancelBooking(ctx context.Context, id int) error
	GetMemberBookings(ctx context.Context, memberID int) ([]BookingWithDetails, error)
	GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error)
	GetBookingsByClub(ctx context.Context, clubID int) ([]BookingWithDetails, error)
	GetBookingStatsByDay(ctx context.Context, from, to time.Time) ([]BookingStatsByBucket, error)
	GetBookingStatsByClub(ctx context.Context, from, to time.Time) ([]BookingStatsByClub, error)
}
