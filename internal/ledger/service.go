package ledger

import (
	"context"
	"time"

	"gymflow/internal/events"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"
)

// Mailer sends the membership charge notice.
type Mailer interface {
	SendMembershipCharge(ctx context.Context, email, name, planName string, amountCents, owedCents int64, nextBilling time.Time) error
}

type Service interface {
	Today() time.Time
	DueAccounts(ctx context.Context, today time.Time) ([]int, error)
	ChargeIfDue(ctx context.Context, userID int, today time.Time) (*ChargeResult, error)
	BillIfDue(ctx context.Context, userID int) (*ChargeResult, error)
	GetAccount(ctx context.Context, userID int) (*Account, error)
	History(ctx context.Context, userID, limit, offset int) ([]Entry, error)
	ListOwing(ctx context.Context, clubID *int, limit, offset int) ([]Account, error)
}

type service struct {
	repo      Repository
	mailer    Mailer
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
}

// NewService builds the ledger service. Billing dates are evaluated in loc.
func NewService(repo Repository, mailer Mailer, publisher events.Publisher, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{
		repo:      repo,
		mailer:    mailer,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *service) Today() time.Time {
	return Today(s.now(), s.loc)
}

func (s *service) DueAccounts(ctx context.Context, today time.Time) ([]int, error) {
	return s.repo.ListDueAccounts(ctx, today)
}

func (s *service) ChargeIfDue(ctx context.Context, userID int, today time.Time) (*ChargeResult, error) {
	res, err := s.repo.ChargeIfDue(ctx, userID, today)
	if err != nil || res == nil {
		return res, err
	}

	metrics.RecordBillingCharge(res.Charge.AmountCents)
	logger.Info("Membership charged",
		"account_id", userID,
		"amount_cents", res.Charge.AmountCents,
		"billed_for", res.Charge.BilledFor.Format("2006-01-02"),
		"cents_owed", res.Account.CentsOwed,
	)
	s.notify(ctx, res)

	return res, nil
}

func (s *service) BillIfDue(ctx context.Context, userID int) (*ChargeResult, error) {
	return s.ChargeIfDue(ctx, userID, s.Today())
}

// notify is best effort; the charge is already committed.
func (s *service) notify(ctx context.Context, res *ChargeResult) {
	if s.mailer != nil {
		err := s.mailer.SendMembershipCharge(ctx, res.Account.Email, res.Account.Name, res.Plan.Name,
			res.Charge.AmountCents, res.Account.CentsOwed, res.Charge.NextBillingDate)
		if err != nil {
			logger.Warn("Failed to queue charge email", "account_id", res.Account.UserID, "error", err)
		}
	}

	err := s.publisher.PublishAccountBilled(ctx, events.AccountBilled{
		UserID:          res.Account.UserID,
		AmountCents:     res.Charge.AmountCents,
		CentsOwed:       res.Account.CentsOwed,
		BilledFor:       res.Charge.BilledFor,
		NextBillingDate: res.Charge.NextBillingDate,
	})
	if err != nil {
		logger.Warn("Failed to publish account.billed", "account_id", res.Account.UserID, "error", err)
	}
}

func (s *service) GetAccount(ctx context.Context, userID int) (*Account, error) {
	return s.repo.GetAccount(ctx, userID)
}

func (s *service) History(ctx context.Context, userID, limit, offset int) ([]Entry, error) {
	return s.repo.ListEntries(ctx, userID, limit, offset)
}

func (s *service) ListOwing(ctx context.Context, clubID *int, limit, offset int) ([]Account, error) {
	return s.repo.ListOwing(ctx, clubID, limit, offset)
}
