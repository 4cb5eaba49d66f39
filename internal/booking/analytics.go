package booking

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidGroupBy = errors.New("group_by must be day or club")

// Created counts every booking made in the range, including ones cancelled
// since.
type BookingStatsByBucket struct {
	Bucket            string `db:"bucket" json:"bucket"`
	BookingsCreated   int    `db:"bookings_created" json:"bookings_created"`
	BookingsCancelled int    `db:"bookings_cancelled" json:"bookings_cancelled"`
}

type BookingStatsByClub struct {
	ClubID            int    `db:"club_id" json:"club_id"`
	ClubName          string `db:"club_name" json:"club_name"`
	BookingsCreated   int    `db:"bookings_created" json:"bookings_created"`
	BookingsCancelled int    `db:"bookings_cancelled" json:"bookings_cancelled"`
}

type Analytics struct {
	GroupBy string      `json:"group_by" example:"day"`
	From    time.Time   `json:"from"`
	To      time.Time   `json:"to"`
	Data    interface{} `json:"data"`
}

func (r *repository) GetBookingStatsByDay(ctx context.Context, from, to time.Time) ([]BookingStatsByBucket, error) {
	query := `
SELECT
  TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS bucket,
  COUNT(*)                                     AS bookings_created,
  COUNT(*) FILTER (WHERE status = 'CANCELLED') AS bookings_cancelled
FROM bookings
WHERE created_at BETWEEN $1 AND $2
GROUP BY DATE(created_at)
ORDER BY bucket;
`
	stats := []BookingStatsByBucket{}
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repository) GetBookingStatsByClub(ctx context.Context, from, to time.Time) ([]BookingStatsByClub, error) {
	query := `
SELECT
  c.id   AS club_id,
  c.name AS club_name,
  COUNT(b.id)                                       AS bookings_created,
  COUNT(b.id) FILTER (WHERE b.status = 'CANCELLED') AS bookings_cancelled
FROM clubs c
JOIN locations l ON l.club_id = c.id
JOIN gym_classes gc ON gc.location_id = l.id
JOIN bookings b ON b.class_id = gc.id
WHERE b.created_at BETWEEN $1 AND $2
GROUP BY c.id, c.name
ORDER BY c.id;
`
	stats := []BookingStatsByClub{}
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *service) GetBookingAnalytics(ctx context.Context, groupBy string, from, to time.Time) (*Analytics, error) {
	if !to.After(from) {
		return nil, ErrInvalidRange
	}

	out := &Analytics{GroupBy: groupBy, From: from, To: to}
	var err error
	switch groupBy {
	case "day":
		out.Data, err = s.repo.GetBookingStatsByDay(ctx, from, to)
	case "club":
		out.Data, err = s.repo.GetBookingStatsByClub(ctx, from, to)
	default:
		return nil, ErrInvalidGroupBy
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
