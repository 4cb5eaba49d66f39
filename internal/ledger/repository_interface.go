package ledger

import (
	"context"
	"time"
)

type Repository interface {
	ListDueAccounts(ctx context.Context, today time.Time) ([]int, error)
	ChargeIfDue(ctx context.Context, userID int, today time.Time) (*ChargeResult, error)
	GetAccount(ctx context.Context, userID int) (*Account, error)
	ListEntries(ctx context.Context, userID, limit, offset int) ([]Entry, error)
	ListOwing(ctx context.Context, clubID *int, limit, offset int) ([]Account, error)
}
