package booking

import (
	"time"

	"gymflow/internal/gymclass"
)

const (
	StatusBooked    = "BOOKED"
	StatusCancelled = "CANCELLED"
)

// Result is the outcome of a booking attempt. Rule violations are results,
// not errors; infrastructure failures come back as a separate error.
type Result int

const (
	ResultSuccess Result = iota
	ResultClassInPast
	ResultAlreadyBooked
	ResultFull
	ResultNotFound
	ResultWeeklyLimitReached
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultClassInPast:
		return "class_in_past"
	case ResultAlreadyBooked:
		return "already_booked"
	case ResultFull:
		return "full"
	case ResultNotFound:
		return "not_found"
	case ResultWeeklyLimitReached:
		return "weekly_limit_reached"
	default:
		return "unknown"
	}
}

// Message is the user-facing text for a rejected attempt.
func (r Result) Message() string {
	switch r {
	case ResultSuccess:
		return "Class booked"
	case ResultClassInPast:
		return "This class has already started"
	case ResultAlreadyBooked:
		return "You have already booked this class"
	case ResultFull:
		return "This class is full"
	case ResultNotFound:
		return "Class not found"
	case ResultWeeklyLimitReached:
		return "You have reached your weekly booking limit"
	default:
		return "Unknown booking result"
	}
}

type Outcome struct {
	Result  Result
	Booking *Booking
}

type BookingStatus string

const (
	CanBook    BookingStatus = "CAN_BOOK"
	CannotBook BookingStatus = "CANNOT_BOOK"
)

type Booking struct {
	ID        int       `db:"id" json:"id"`
	MemberID  int       `db:"member_id" json:"member_id"`
	ClassID   int       `db:"class_id" json:"class_id"`
	Status    string    `db:"status" json:"status" example:"BOOKED"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	ClassName    string    `db:"class_name" json:"class_name"`
	ClassStart   time.Time `db:"class_start" json:"class_start"`
	ClassEnd     time.Time `db:"class_end" json:"class_end"`
	LocationName string    `db:"location_name" json:"location_name"`
	ClubID       int       `db:"club_id" json:"club_id"`
	MemberName   string    `db:"member_name" json:"member_name"`
	MemberEmail  string    `db:"member_email" json:"member_email"`
}

type BookClassResponse struct {
	Message string   `json:"message" example:"Class booked"`
	Booking *Booking `json:"booking"`
}

type ClassDetail struct {
	gymclass.ClassWithAvailability
	BookingStatus BookingStatus `json:"booking_status" example:"CAN_BOOK"`
}

type CancelBookingResponse struct {
	Message string `json:"message" example:"Booking cancelled successfully"`
}
