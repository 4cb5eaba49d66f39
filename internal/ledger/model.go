package ledger

import "time"

const EntryMembershipCharge = "membership_charge"

// Account is the billing view of a user row.
type Account struct {
	UserID          int        `db:"user_id" json:"user_id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	ClubID          *int       `db:"club_id" json:"club_id,omitempty"`
	PlanID          *int       `db:"membership_plan_id" json:"membership_plan_id,omitempty"`
	CentsOwed       int64      `db:"cents_owed" json:"cents_owed"`
	NextBillingDate *time.Time `db:"next_billing_date" json:"next_billing_date,omitempty"`
}

type Plan struct {
	ID                int    `db:"plan_id" json:"id"`
	Name              string `db:"plan_name" json:"name"`
	PriceCents        int64  `db:"price_cents" json:"price_cents"`
	BillingPeriodDays int    `db:"billing_period_days" json:"billing_period_days"`
}

// Charge describes one applied billing cycle.
type Charge struct {
	AmountCents     int64     `json:"amount_cents"`
	BilledFor       time.Time `json:"billed_for"`
	OwedAfter       int64     `json:"owed_after"`
	NextBillingDate time.Time `json:"next_billing_date"`
}

type ChargeResult struct {
	Account Account `json:"account"`
	Plan    Plan    `json:"plan"`
	Charge  Charge  `json:"charge"`
}

type Entry struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Type        string    `db:"type" json:"type" example:"membership_charge"`
	OwedAfter   int64     `db:"owed_after" json:"owed_after"`
	BilledFor   time.Time `db:"billed_for" json:"billed_for"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type billableRow struct {
	Account
	Plan
}
