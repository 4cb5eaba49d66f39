package ledger

import "time"

// Today returns the calendar date of now in loc, as midnight UTC. Billing
// dates are compared as plain dates in that form.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsDue reports whether the account has a plan and a billing date on or
// before today.
func IsDue(a Account, today time.Time) bool {
	if a.PlanID == nil || a.NextBillingDate == nil {
		return false
	}
	return !dateOnly(*a.NextBillingDate).After(dateOnly(today))
}

// ApplyBilling charges one period of plan to the account if it is due on
// today. It returns the updated account and the charge, or the account
// unchanged and nil when nothing is due. Only one period is applied per
// call; an account further behind stays due.
func ApplyBilling(a Account, p Plan, today time.Time) (Account, *Charge) {
	if !IsDue(a, today) || p.BillingPeriodDays <= 0 {
		return a, nil
	}

	billedFor := dateOnly(*a.NextBillingDate)
	next := billedFor.AddDate(0, 0, p.BillingPeriodDays)

	a.CentsOwed += p.PriceCents
	a.NextBillingDate = &next

	return a, &Charge{
		AmountCents:     p.PriceCents,
		BilledFor:       billedFor,
		OwedAfter:       a.CentsOwed,
		NextBillingDate: next,
	}
}
