package club

import (
	"context"
	"errors"
)

var (
	ErrClubNotFound     = errors.New("club not found")
	ErrLocationNotFound = errors.New("location not found")
)

type Service interface {
	CreateClub(ctx context.Context, req CreateClubRequest) (*Club, error)
	GetAllClubs(ctx context.Context) ([]Club, error)
	GetClubByID(ctx context.Context, id int) (*Club, error)
	CreateLocation(ctx context.Context, clubID int, req CreateLocationRequest) (*Location, error)
	GetLocations(ctx context.Context, clubID int) ([]Location, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateClub(ctx context.Context, req CreateClubRequest) (*Club, error) {
	return s.repo.CreateClub(ctx, req.Name, req.Address)
}

func (s *service) GetAllClubs(ctx context.Context) ([]Club, error) {
	return s.repo.GetAllClubs(ctx)
}

func (s *service) GetClubByID(ctx context.Context, id int) (*Club, error) {
	return s.repo.GetClubByID(ctx, id)
}

func (s *service) CreateLocation(ctx context.Context, clubID int, req CreateLocationRequest) (*Location, error) {
	if _, err := s.repo.GetClubByID(ctx, clubID); err != nil {
		return nil, err
	}
	return s.repo.CreateLocation(ctx, clubID, req.Name)
}

func (s *service) GetLocations(ctx context.Context, clubID int) ([]Location, error) {
	if _, err := s.repo.GetClubByID(ctx, clubID); err != nil {
		return nil, err
	}
	return s.repo.GetLocationsByClub(ctx, clubID)
}
