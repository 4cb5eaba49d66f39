package membership

import (
	"context"
	"time"
)

type Repository interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	GetPlanByID(ctx context.Context, id int) (*Plan, error)
	ListPlansByClub(ctx context.Context, clubID int) ([]Plan, error)
	AssignPlan(ctx context.Context, userID, planID int, firstBilling time.Time) error
}
