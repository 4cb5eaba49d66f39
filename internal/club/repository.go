package club

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClub(ctx context.Context, name, address string) (*Club, error) {
	query := `
		INSERT INTO clubs (name, address)
		VALUES ($1, $2)
		RETURNING id, name, address, created_at
	`

	var club Club
	if err := r.db.GetContext(ctx, &club, query, name, address); err != nil {
		return nil, err
	}

	return &club, nil
}

func (r *repository) GetAllClubs(ctx context.Context) ([]Club, error) {
	query := `
		SELECT id, name, address, created_at
		FROM clubs
		ORDER BY name ASC
	`

	clubs := []Club{}
	if err := r.db.SelectContext(ctx, &clubs, query); err != nil {
		return nil, err
	}

	return clubs, nil
}

func (r *repository) GetClubByID(ctx context.Context, id int) (*Club, error) {
	query := `
		SELECT id, name, address, created_at
		FROM clubs
		WHERE id = $1
	`

	var club Club
	if err := r.db.GetContext(ctx, &club, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	return &club, nil
}

func (r *repository) CreateLocation(ctx context.Context, clubID int, name string) (*Location, error) {
	query := `
		INSERT INTO locations (club_id, name)
		VALUES ($1, $2)
		RETURNING id, club_id, name, created_at
	`

	var loc Location
	if err := r.db.GetContext(ctx, &loc, query, clubID, name); err != nil {
		return nil, err
	}

	return &loc, nil
}

func (r *repository) GetLocationsByClub(ctx context.Context, clubID int) ([]Location, error) {
	query := `
		SELECT id, club_id, name, created_at
		FROM locations
		WHERE club_id = $1
		ORDER BY name ASC
	`

	locations := []Location{}
	if err := r.db.SelectContext(ctx, &locations, query, clubID); err != nil {
		return nil, err
	}

	return locations, nil
}

func (r *repository) GetLocationByID(ctx context.Context, id int) (*Location, error) {
	query := `
		SELECT id, club_id, name, created_at
		FROM locations
		WHERE id = $1
	`

	var loc Location
	if err := r.db.GetContext(ctx, &loc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	return &loc, nil
}
