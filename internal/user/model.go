package user

import "time"

type User struct {
	ID               int        `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Role             string     `db:"role" json:"role" example:"MEMBER"`
	ClubID           *int       `db:"club_id" json:"club_id,omitempty"`
	MembershipPlanID *int       `db:"membership_plan_id" json:"membership_plan_id,omitempty"`
	CentsOwed        int64      `db:"cents_owed" json:"cents_owed"`
	NextBillingDate  *time.Time `db:"next_billing_date" json:"next_billing_date,omitempty"`
	DateJoined       time.Time  `db:"date_joined" json:"date_joined"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	ClubID   int    `json:"club_id" binding:"required,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	ClubID   *int   `json:"club_id,omitempty"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
