package membership

import (
	"context"
	"errors"
	"fmt"

	"gymflow/internal/ledger"
	"gymflow/internal/logger"
)

var (
	ErrPlanNotFound  = errors.New("membership plan not found")
	ErrPlanNotInClub = errors.New("membership plan belongs to another club")
	ErrClubNotFound  = errors.New("club not found")
	ErrNotMember     = errors.New("only members can hold a membership")
)

const recentChargesLimit = 10

type Service interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	ListPlans(ctx context.Context, clubID int) ([]Plan, error)
	Join(ctx context.Context, userID int, req JoinRequest) (*Details, error)
	GetDetails(ctx context.Context, userID int) (*Details, error)
}

type service struct {
	repo   Repository
	ledger ledger.Service
}

func NewService(repo Repository, ledgerService ledger.Service) Service {
	return &service{
		repo:   repo,
		ledger: ledgerService,
	}
}

func (s *service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	return s.repo.CreatePlan(ctx, req)
}

func (s *service) ListPlans(ctx context.Context, clubID int) ([]Plan, error) {
	return s.repo.ListPlansByClub(ctx, clubID)
}

func (s *service) Join(ctx context.Context, userID int, req JoinRequest) (*Details, error) {
	plan, err := s.repo.GetPlanByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	account, err := s.ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account.ClubID == nil || *account.ClubID != plan.ClubID {
		return nil, ErrPlanNotInClub
	}

	if err := s.repo.AssignPlan(ctx, userID, plan.ID, s.ledger.Today()); err != nil {
		return nil, err
	}
	logger.Info("Member joined plan", "account_id", userID, "plan_id", plan.ID)

	return s.GetDetails(ctx, userID)
}

// GetDetails bills the account if a cycle is due and then reads it back, so
// the member never sees a balance that is behind the schedule by a full cycle.
func (s *service) GetDetails(ctx context.Context, userID int) (*Details, error) {
	if _, err := s.ledger.BillIfDue(ctx, userID); err != nil {
		return nil, fmt.Errorf("bill account %d: %w", userID, err)
	}

	account, err := s.ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := &Details{
		CentsOwed:       account.CentsOwed,
		NextBillingDate: account.NextBillingDate,
	}

	if account.PlanID != nil {
		plan, err := s.repo.GetPlanByID(ctx, *account.PlanID)
		if err != nil {
			return nil, err
		}
		details.Plan = plan
	}

	details.RecentCharges, err = s.ledger.History(ctx, userID, recentChargesLimit, 0)
	if err != nil {
		return nil, err
	}

	return details, nil
}
