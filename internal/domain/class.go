package domain

import (
	"fmt"
	"time"
)

type Schedule struct {
	Day             string `json:"day"`
	StartTime       string `json:"start_time"` // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
}

type Class struct {
	ID           int64
	Name         string
	Description  string
	Type         string
	Level        string
	Trainer      string
	Capacity     int
	Enrolled     int
	Schedule     Schedule
	Location     string
	PriceCents   int64
	Rating       float64
	TotalReviews int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsFull reports whether every seat is taken. Enrolled never exceeds
// capacity; the repository guards the counter with a conditional update.
func (c *Class) IsFull() bool {
	return c.Enrolled >= c.Capacity
}

// SessionStart combines a booked date (YYYY-MM-DD) with the class's start
// time. The refund policy measures time until this instant, so a booking two
// weeks out is refunded against its own session, not the next weekly slot.
func (c *Class) SessionStart(date string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking date %q: %w", date, err)
	}
	start, err := time.Parse("15:04", c.Schedule.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid class start time %q: %w", c.Schedule.StartTime, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC), nil
}

// ValidWeekday reports whether day is a lowercase weekday name.
func ValidWeekday(day string) bool {
	_, ok := weekdays[day]
	return ok
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WaitlistEntry is one user waiting for a seat. Position is implied by
// insertion order; the repository returns entries FIFO.
type WaitlistEntry struct {
	ID        int64
	ClassID   int64
	UserID    string
	CreatedAt time.Time
}
