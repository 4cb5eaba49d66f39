package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymflow/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAlreadyCharged  = errors.New("billing date already charged")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListDueAccounts(ctx context.Context, today time.Time) ([]int, error) {
	query := `
		SELECT id
		FROM users
		WHERE next_billing_date IS NOT NULL
		  AND membership_plan_id IS NOT NULL
		  AND next_billing_date <= $1
		ORDER BY id
	`

	ids := []int{}
	if err := r.db.SelectContext(ctx, &ids, query, today); err != nil {
		return nil, fmt.Errorf("list due accounts: %w", err)
	}
	return ids, nil
}

// ChargeIfDue re-reads the account under a row lock and applies one billing
// period when it is still due. A nil result means there was nothing to charge.
func (r *repository) ChargeIfDue(ctx context.Context, userID int, today time.Time) (*ChargeResult, error) {
	var result *ChargeResult

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var row billableRow
		err := tx.QueryRowxContext(ctx, `
			SELECT u.id AS user_id, u.name, u.email, u.club_id, u.membership_plan_id,
			       u.cents_owed, u.next_billing_date,
			       p.id AS plan_id, p.name AS plan_name, p.price_cents, p.billing_period_days
			FROM users u
			JOIN membership_plans p ON p.id = u.membership_plan_id
			WHERE u.id = $1
			FOR UPDATE OF u`,
			userID,
		).StructScan(&row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("lock account %d: %w", userID, err)
		}

		updated, charge := ApplyBilling(row.Account, row.Plan, today)
		if charge == nil {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users
			 SET cents_owed = $1, next_billing_date = $2
			 WHERE id = $3`,
			updated.CentsOwed, charge.NextBillingDate, userID,
		)
		if err != nil {
			return fmt.Errorf("update account %d: %w", userID, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO ledger_entries (user_id, amount_cents, type, owed_after, billed_for)
			 VALUES ($1, $2, $3, $4, $5)`,
			userID, charge.AmountCents, EntryMembershipCharge, charge.OwedAfter, charge.BilledFor,
		)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrAlreadyCharged
			}
			return fmt.Errorf("insert ledger entry for %d: %w", userID, err)
		}

		result = &ChargeResult{Account: updated, Plan: row.Plan, Charge: *charge}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *repository) GetAccount(ctx context.Context, userID int) (*Account, error) {
	query := `
		SELECT id AS user_id, name, email, club_id, membership_plan_id, cents_owed, next_billing_date
		FROM users
		WHERE id = $1
	`

	var a Account
	if err := r.db.GetContext(ctx, &a, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListEntries(ctx context.Context, userID, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	entries := []Entry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, amount_cents, type, owed_after, billed_for, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY billed_for DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *repository) ListOwing(ctx context.Context, clubID *int, limit, offset int) ([]Account, error) {
	query := `
		SELECT id AS user_id, name, email, club_id, membership_plan_id, cents_owed, next_billing_date
		FROM users
		WHERE cents_owed > 0
		  AND ($1::int IS NULL OR club_id = $1)
		ORDER BY cents_owed DESC, id
		LIMIT $2 OFFSET $3
	`

	accounts := []Account{}
	if err := r.db.SelectContext(ctx, &accounts, query, clubID, limit, offset); err != nil {
		return nil, err
	}
	return accounts, nil
}
