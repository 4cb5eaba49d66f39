package gymclass

import (
	"context"
	"time"
)

type Repository interface {
	CreateClass(ctx context.Context, c GymClass) (*GymClass, error)
	GetClassWithAvailability(ctx context.Context, id, memberID int) (*ClassWithAvailability, error)
	ListClubClasses(ctx context.Context, clubID, memberID int, from *time.Time) ([]ClassWithAvailability, error)
}
