package gymclass

import "time"

type GymClass struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	StaffID     int       `db:"staff_id" json:"staff_id"`
	LocationID  int       `db:"location_id" json:"location_id"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	MaxCapacity int       `db:"max_capacity" json:"max_capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// HasStarted reports whether the class can no longer be booked at now.
func (g *GymClass) HasStarted(now time.Time) bool {
	return !g.StartTime.After(now)
}

type ClassWithAvailability struct {
	GymClass
	LocationName string `db:"location_name" json:"location_name"`
	ClubID       int    `db:"club_id" json:"club_id"`
	BookedCount  int    `db:"booked_count" json:"booked_count"`
	Available    int    `db:"-" json:"available"`
	IsFull       bool   `db:"-" json:"is_full"`
	BookedByMe   bool   `db:"booked_by_me" json:"booked_by_me"`
}

func (c *ClassWithAvailability) fill() {
	c.Available = c.MaxCapacity - c.BookedCount
	if c.Available < 0 {
		c.Available = 0
	}
	c.IsFull = c.Available == 0
}

type CreateClassRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LocationID  int    `json:"location_id" binding:"required,min=1"`
	StaffID     *int   `json:"staff_id,omitempty" binding:"omitempty,min=1"`
	StartTime   string `json:"start_time" binding:"required" example:"2026-05-01T18:00:00Z"`
	EndTime     string `json:"end_time" binding:"required" example:"2026-05-01T19:00:00Z"`
	MaxCapacity int    `json:"max_capacity" binding:"required,min=1"`
}
