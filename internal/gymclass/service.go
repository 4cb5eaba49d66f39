package gymclass

import (
	"context"
	"errors"
	"time"

	"gymflow/internal/club"
)

var (
	ErrClassNotFound = errors.New("class not found")
	ErrClassInvalid  = errors.New("invalid class")
)

// LocationFinder is the part of the club repository classes depend on.
type LocationFinder interface {
	GetClubByID(ctx context.Context, id int) (*club.Club, error)
	GetLocationByID(ctx context.Context, id int) (*club.Location, error)
}

type Service interface {
	CreateClass(ctx context.Context, staffID int, req CreateClassRequest) (*GymClass, error)
	GetClass(ctx context.Context, classID, memberID int) (*ClassWithAvailability, error)
	ListClubClasses(ctx context.Context, clubID, memberID int, includePast bool) ([]ClassWithAvailability, error)
}

type service struct {
	repo      Repository
	locations LocationFinder
	now       func() time.Time
}

func NewService(repo Repository, locations LocationFinder) Service {
	return &service{
		repo:      repo,
		locations: locations,
		now:       time.Now,
	}
}

func (s *service) CreateClass(ctx context.Context, staffID int, req CreateClassRequest) (*GymClass, error) {
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrClassInvalid
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrClassInvalid
	}

	if !endTime.After(startTime) || req.MaxCapacity <= 0 {
		return nil, ErrClassInvalid
	}

	if _, err := s.locations.GetLocationByID(ctx, req.LocationID); err != nil {
		return nil, err
	}

	instructor := staffID
	if req.StaffID != nil {
		instructor = *req.StaffID
	}

	return s.repo.CreateClass(ctx, GymClass{
		Name:        req.Name,
		Description: req.Description,
		StaffID:     instructor,
		LocationID:  req.LocationID,
		StartTime:   startTime.UTC(),
		EndTime:     endTime.UTC(),
		MaxCapacity: req.MaxCapacity,
	})
}

func (s *service) GetClass(ctx context.Context, classID, memberID int) (*ClassWithAvailability, error) {
	return s.repo.GetClassWithAvailability(ctx, classID, memberID)
}

func (s *service) ListClubClasses(ctx context.Context, clubID, memberID int, includePast bool) ([]ClassWithAvailability, error) {
	if _, err := s.locations.GetClubByID(ctx, clubID); err != nil {
		return nil, err
	}

	var from *time.Time
	if !includePast {
		now := s.now()
		from = &now
	}

	return s.repo.ListClubClasses(ctx, clubID, memberID, from)
}
