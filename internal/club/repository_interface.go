package club

import "context"

type Repository interface {
	CreateClub(ctx context.Context, name, address string) (*Club, error)
	GetAllClubs(ctx context.Context) ([]Club, error)
	GetClubByID(ctx context.Context, id int) (*Club, error)
	CreateLocation(ctx context.Context, clubID int, name string) (*Location, error)
	GetLocationsByClub(ctx context.Context, clubID int) ([]Location, error)
	GetLocationByID(ctx context.Context, id int) (*Location, error)
}
