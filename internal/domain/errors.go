package domain

import "errors"

var (
	// ErrNotFound is returned when a class or booking does not exist or is inactive.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the actor is neither the booking owner nor an admin.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicateBooking is returned when the user already holds a live booking
	// for the same class and date.
	ErrDuplicateBooking = errors.New("booking already exists for this class and date")
	// ErrClassFull is returned by the store when the capacity guard rejects an
	// enrollment increment.
	ErrClassFull = errors.New("class is full")
	// ErrAlreadyReviewed is returned when a booking already carries a rating.
	ErrAlreadyReviewed = errors.New("booking already reviewed")
	// ErrInvalidTransition is returned when a status change is not allowed from
	// the booking's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries field level input problems that handlers surface
// as a 400 response.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	return "validation failed"
}

func (v *ValidationError) Add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}
