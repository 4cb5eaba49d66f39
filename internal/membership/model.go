package membership

import (
	"time"

	"gymflow/internal/ledger"
)

type Plan struct {
	ID                int       `db:"id" json:"id"`
	ClubID            int       `db:"club_id" json:"club_id"`
	Name              string    `db:"name" json:"name"`
	PriceCents        int64     `db:"price_cents" json:"price_cents"`
	BillingPeriodDays int       `db:"billing_period_days" json:"billing_period_days"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type CreatePlanRequest struct {
	ClubID            int    `json:"club_id" binding:"required,min=1"`
	Name              string `json:"name" binding:"required"`
	PriceCents        int64  `json:"price_cents" binding:"min=0"`
	BillingPeriodDays int    `json:"billing_period_days" binding:"required,min=1"`
}

type JoinRequest struct {
	PlanID int `json:"plan_id" binding:"required,min=1"`
}

// Details is what a member sees for their membership. Reading it bills the
// account first when a cycle is due.
type Details struct {
	Plan            *Plan          `json:"plan,omitempty"`
	CentsOwed       int64          `json:"cents_owed"`
	NextBillingDate *time.Time     `json:"next_billing_date,omitempty"`
	RecentCharges   []ledger.Entry `json:"recent_charges"`
}
