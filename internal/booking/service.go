package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymflow/internal/db"
	"gymflow/internal/events"
	"gymflow/internal/gymclass"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"
	"gymflow/internal/user"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotBookingOwner  = errors.New("can only cancel own bookings")
	ErrBookingNotActive = errors.New("booking is already cancelled")
	ErrClassStarted     = errors.New("class has already started")
	ErrMemberNotFound   = errors.New("member not found")
	ErrInvalidRange     = errors.New("to must be after from")
)

// ClassReader loads a class with its availability as seen by one member.
type ClassReader interface {
	GetClass(ctx context.Context, classID, memberID int) (*gymclass.ClassWithAvailability, error)
}

type MemberFinder interface {
	GetByID(ctx context.Context, userID int) (*user.User, error)
}

type Mailer interface {
	SendBookingConfirmation(ctx context.Context, email, name, className, location string, when time.Time) error
	SendCancellation(ctx context.Context, email, name, className string, when time.Time) error
}

type Config struct {
	// WeeklyLimit caps active bookings made within the window. 0 disables it.
	WeeklyLimit int
	WindowMode  WindowMode
	Location    *time.Location
}

type Service interface {
	BookClass(ctx context.Context, classID, memberID int) (Outcome, error)
	GetBookingStatusForMember(ctx context.Context, memberID, classID int) (BookingStatus, error)
	GetClassDetail(ctx context.Context, classID, memberID int) (*ClassDetail, error)
	CancelBooking(ctx context.Context, memberID, bookingID int) error
	GetMemberBookings(ctx context.Context, memberID int) ([]BookingWithDetails, error)
	GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error)
	GetBookingsByClub(ctx context.Context, clubID int) ([]BookingWithDetails, error)
	GetBookingAnalytics(ctx context.Context, groupBy string, from, to time.Time) (*Analytics, error)
}

type service struct {
	repo      Repository
	classes   ClassReader
	members   MemberFinder
	mailer    Mailer
	publisher events.Publisher
	cfg       Config

	locks *classLocks
	now   func() time.Time
}

func NewService(repo Repository, classes ClassReader, members MemberFinder, mailer Mailer, publisher events.Publisher, cfg Config) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.WindowMode == "" {
		cfg.WindowMode = WindowRolling
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{
		repo:      repo,
		classes:   classes,
		members:   members,
		mailer:    mailer,
		publisher: publisher,
		cfg:       cfg,
		locks:     newClassLocks(),
		now:       time.Now,
	}
}

// BookClass books classID for memberID. Every check and the insert happen
// while holding the class lock and inside one transaction that row-locks the
// class and then the member.
func (s *service) BookClass(ctx context.Context, classID, memberID int) (Outcome, error) {
	unlock := s.locks.lock(classID)
	defer unlock()

	var (
		outcome Outcome
		class   *gymclass.GymClass
	)
	err := s.repo.RunInTx(ctx, func(q Queries) error {
		var err error
		class, err = q.GetClass(ctx, classID, true)
		if errors.Is(err, gymclass.ErrClassNotFound) {
			outcome.Result = ResultNotFound
			return nil
		}
		if err != nil {
			return err
		}

		if err := q.GetMember(ctx, memberID, true); err != nil {
			return err
		}

		result, err := s.evaluate(ctx, q, class, memberID)
		if err != nil {
			return err
		}
		if result != ResultSuccess {
			outcome.Result = result
			return nil
		}

		b, err := q.InsertBooking(ctx, memberID, classID)
		if err != nil {
			return err
		}
		outcome = Outcome{Result: ResultSuccess, Booking: b}
		return nil
	})
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			outcome = Outcome{Result: ResultAlreadyBooked}
		case errors.Is(err, ErrMemberNotFound):
			metrics.RecordBookingAttempt("member_not_found")
			logger.Warn("Booking by unknown member", "class_id", classID, "member_id", memberID)
			return Outcome{}, ErrMemberNotFound
		default:
			metrics.RecordBookingAttempt("error")
			logger.Error("Booking failed", "class_id", classID, "member_id", memberID, "error", err)
			return Outcome{}, fmt.Errorf("book class %d: %w", classID, err)
		}
	}

	metrics.RecordBookingAttempt(outcome.Result.String())
	logger.Info("Booking attempt", "class_id", classID, "member_id", memberID, "result", outcome.Result.String())

	if outcome.Result == ResultSuccess {
		s.notifyBooked(ctx, class, outcome.Booking)
	}
	return outcome, nil
}

// evaluate runs the rule checks that follow the existence check, in order.
func (s *service) evaluate(ctx context.Context, q Queries, class *gymclass.GymClass, memberID int) (Result, error) {
	now := s.now()
	if class.HasStarted(now) {
		return ResultClassInPast, nil
	}

	booked, err := q.HasActiveBooking(ctx, memberID, class.ID)
	if err != nil {
		return 0, err
	}
	if booked {
		return ResultAlreadyBooked, nil
	}

	if s.cfg.WeeklyLimit > 0 {
		since := WindowStart(s.cfg.WindowMode, now, s.cfg.Location)
		count, err := q.CountMemberBookingsSince(ctx, memberID, since)
		if err != nil {
			return 0, err
		}
		if count >= s.cfg.WeeklyLimit {
			return ResultWeeklyLimitReached, nil
		}
	}

	active, err := q.CountActiveBookings(ctx, class.ID)
	if err != nil {
		return 0, err
	}
	if active >= class.MaxCapacity {
		return ResultFull, nil
	}

	return ResultSuccess, nil
}

func (s *service) notifyBooked(ctx context.Context, class *gymclass.GymClass, b *Booking) {
	err := s.publisher.PublishBookingCreated(ctx, events.BookingCreated{
		BookingID: b.ID,
		MemberID:  b.MemberID,
		ClassID:   b.ClassID,
		StartTime: class.StartTime,
		CreatedAt: b.CreatedAt,
	})
	if err != nil {
		logger.Warn("Failed to publish booking event", "booking_id", b.ID, "error", err)
	}

	if s.mailer == nil {
		return
	}
	member, err := s.members.GetByID(ctx, b.MemberID)
	if err != nil {
		logger.Warn("Skipping booking confirmation", "booking_id", b.ID, "error", err)
		return
	}
	location := ""
	if detail, err := s.classes.GetClass(ctx, class.ID, b.MemberID); err == nil {
		location = detail.LocationName
	}
	if err := s.mailer.SendBookingConfirmation(ctx, member.Email, member.Name, class.Name, location, class.StartTime); err != nil {
		logger.Warn("Failed to queue booking confirmation", "booking_id", b.ID, "error", err)
	}
}

// GetBookingStatusForMember answers whether BookClass would currently
// succeed. It takes no locks, so the answer can be stale by the time the
// member books. Staff and unknown users always get CannotBook.
func (s *service) GetBookingStatusForMember(ctx context.Context, memberID, classID int) (BookingStatus, error) {
	class, err := s.repo.GetClass(ctx, classID, false)
	if errors.Is(err, gymclass.ErrClassNotFound) {
		return CannotBook, nil
	}
	if err != nil {
		return "", err
	}

	err = s.repo.GetMember(ctx, memberID, false)
	if errors.Is(err, ErrMemberNotFound) {
		return CannotBook, nil
	}
	if err != nil {
		return "", err
	}

	result, err := s.evaluate(ctx, s.repo, class, memberID)
	if err != nil {
		return "", err
	}
	if result != ResultSuccess {
		return CannotBook, nil
	}
	return CanBook, nil
}

func (s *service) GetClassDetail(ctx context.Context, classID, memberID int) (*ClassDetail, error) {
	class, err := s.classes.GetClass(ctx, classID, memberID)
	if err != nil {
		return nil, err
	}

	status, err := s.GetBookingStatusForMember(ctx, memberID, classID)
	if err != nil {
		return nil, err
	}

	return &ClassDetail{ClassWithAvailability: *class, BookingStatus: status}, nil
}

func (s *service) CancelBooking(ctx context.Context, memberID, bookingID int) error {
	b, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.MemberID != memberID {
		return ErrNotBookingOwner
	}
	if b.Status != StatusBooked {
		return ErrBookingNotActive
	}

	class, err := s.repo.GetClass(ctx, b.ClassID, false)
	if err != nil {
		return err
	}
	if class.HasStarted(s.now()) {
		return ErrClassStarted
	}

	if err := s.repo.CancelBooking(ctx, bookingID); err != nil {
		return err
	}

	metrics.RecordBookingCancellation()
	logger.Info("Booking cancelled", "booking_id", bookingID, "member_id", memberID)

	if s.mailer != nil {
		if member, err := s.members.GetByID(ctx, memberID); err == nil {
			if err := s.mailer.SendCancellation(ctx, member.Email, member.Name, class.Name, class.StartTime); err != nil {
				logger.Warn("Failed to queue cancellation email", "booking_id", bookingID, "error", err)
			}
		}
	}
	return nil
}

func (s *service) GetMemberBookings(ctx context.Context, memberID int) ([]BookingWithDetails, error) {
	return s.repo.GetMemberBookings(ctx, memberID)
}

func (s *service) GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error) {
	if _, err := s.repo.GetClass(ctx, classID, false); err != nil {
		return nil, err
	}
	return s.repo.GetBookingsByClass(ctx, classID)
}

func (s *service) GetBookingsByClub(ctx context.Context, clubID int) ([]BookingWithDetails, error) {
	return s.repo.GetBookingsByClub(ctx, clubID)
}
