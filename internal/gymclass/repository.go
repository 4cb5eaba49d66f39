package gymclass

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

const availabilitySelect = `
	SELECT
		gc.id, gc.name, gc.description, gc.staff_id, gc.location_id,
		gc.start_time, gc.end_time, gc.max_capacity, gc.created_at,
		l.name AS location_name,
		l.club_id,
		(SELECT COUNT(*) FROM bookings b WHERE b.class_id = gc.id AND b.status = 'BOOKED') AS booked_count,
		EXISTS(
			SELECT 1 FROM bookings b
			WHERE b.class_id = gc.id AND b.member_id = $1 AND b.status = 'BOOKED'
		) AS booked_by_me
	FROM gym_classes gc
	JOIN locations l ON l.id = gc.location_id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClass(ctx context.Context, c GymClass) (*GymClass, error) {
	query := `
		INSERT INTO gym_classes (name, description, staff_id, location_id, start_time, end_time, max_capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, description, staff_id, location_id, start_time, end_time, max_capacity, created_at
	`

	var created GymClass
	err := r.db.GetContext(ctx, &created, query,
		c.Name, c.Description, c.StaffID, c.LocationID, c.StartTime, c.EndTime, c.MaxCapacity)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetClassWithAvailability(ctx context.Context, id, memberID int) (*ClassWithAvailability, error) {
	query := availabilitySelect + ` WHERE gc.id = $2`

	var c ClassWithAvailability
	if err := r.db.GetContext(ctx, &c, query, memberID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	c.fill()

	return &c, nil
}

// ListClubClasses returns the club timetable ordered by start time. A nil
// from lists past classes too.
func (r *repository) ListClubClasses(ctx context.Context, clubID, memberID int, from *time.Time) ([]ClassWithAvailability, error) {
	query := availabilitySelect + `
		WHERE l.club_id = $2
		  AND ($3::timestamptz IS NULL OR gc.start_time > $3)
		ORDER BY gc.start_time ASC
	`

	classes := []ClassWithAvailability{}
	if err := r.db.SelectContext(ctx, &classes, query, memberID, clubID, from); err != nil {
		return nil, err
	}
	for i := range classes {
		classes[i].fill()
	}

	return classes, nil
}
