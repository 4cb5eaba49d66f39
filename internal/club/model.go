package club

import "time"

type Club struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Location is a studio or room inside a club where classes take place.
type Location struct {
	ID        int       `db:"id" json:"id"`
	ClubID    int       `db:"club_id" json:"club_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateClubRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type CreateLocationRequest struct {
	Name string `json:"name" binding:"required"`
}
