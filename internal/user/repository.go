package user

import (
	"context"
	"database/sql"
	"errors"

	"gymflow/internal/db"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, password_hash, role, club_id, membership_plan_id, cents_owed, next_billing_date, date_joined`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string, clubID *int) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, club_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	var u User
	err := r.db.GetContext(ctx, &u, query, name, email, passwordHash, role, clubID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		if db.IsForeignKeyViolation(err) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) ListMembers(ctx context.Context, clubID *int, limit, offset int) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'MEMBER'
		  AND ($1::int IS NULL OR club_id = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, clubID, limit, offset); err != nil {
		return nil, err
	}
	return users, nil
}
