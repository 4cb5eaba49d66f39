package booking

import (
	"fmt"
	"time"
)

type WindowMode string

const (
	// WindowRolling counts bookings made in the 7 days before now.
	WindowRolling WindowMode = "rolling"
	// WindowCalendar counts bookings made since Monday 00:00 local time.
	WindowCalendar WindowMode = "calendar"
)

func ParseWindowMode(s string) (WindowMode, error) {
	switch WindowMode(s) {
	case WindowRolling, WindowCalendar:
		return WindowMode(s), nil
	case "":
		return WindowRolling, nil
	default:
		return "", fmt.Errorf("unknown booking window mode %q", s)
	}
}

// WindowStart returns the beginning of the weekly window that ends at now.
func WindowStart(mode WindowMode, now time.Time, loc *time.Location) time.Time {
	if mode != WindowCalendar {
		return now.Add(-7 * 24 * time.Hour)
	}
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, loc)
}
