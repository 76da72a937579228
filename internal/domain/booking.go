package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// HoldsSeat reports whether a booking in this status still occupies a seat
// in its class. Terminal statuses keep no enrollment.
func (s BookingStatus) HoldsSeat() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	ID           int64
	Reference    string
	UserID       string
	ClassID      int64
	BookingDate  string // YYYY-MM-DD
	AmountCents  int64
	Status       BookingStatus
	CancelReason string
	RefundCents  int64
	Rating       *int
	Review       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
