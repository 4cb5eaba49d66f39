package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymflow/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	query := `
		INSERT INTO membership_plans (club_id, name, price_cents, billing_period_days)
		VALUES ($1, $2, $3, $4)
		RETURNING id, club_id, name, price_cents, billing_period_days, created_at
	`

	var p Plan
	err := r.db.GetContext(ctx, &p, query, req.ClubID, req.Name, req.PriceCents, req.BillingPeriodDays)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetPlanByID(ctx context.Context, id int) (*Plan, error) {
	query := `
		SELECT id, club_id, name, price_cents, billing_period_days, created_at
		FROM membership_plans
		WHERE id = $1
	`

	var p Plan
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListPlansByClub(ctx context.Context, clubID int) ([]Plan, error) {
	query := `
		SELECT id, club_id, name, price_cents, billing_period_days, created_at
		FROM membership_plans
		WHERE club_id = $1
		ORDER BY price_cents ASC, id ASC
	`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query, clubID); err != nil {
		return nil, err
	}

	return plans, nil
}

// AssignPlan puts a member on planID. A member joining for the first time is
// first billed on firstBilling; switching plans keeps the current cycle date.
func (r *repository) AssignPlan(ctx context.Context, userID, planID int, firstBilling time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET membership_plan_id = $1,
		    next_billing_date = COALESCE(next_billing_date, $2)
		WHERE id = $3 AND role = 'MEMBER'
	`, planID, firstBilling, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotMember
	}

	return nil
}
