package bookings

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/Domenick1991/gymbooking/internal/kafka"
	"github.com/Domenick1991/gymbooking/internal/repository"
	"github.com/google/uuid"
)

// Actor is the authenticated caller of a booking operation, as resolved by
// the gateway in front of this service.
type Actor struct {
	UserID string
	Admin  bool
}

type CreateBookingInput struct {
	UserID  string `json:"user_id"`
	ClassID int64  `json:"class_id"`
	Date    string `json:"date"`
}

// Outcome is the result of a booking request. A full class routes the user
// to the waitlist instead of failing; Waitlisted distinguishes the two.
type Outcome struct {
	Booking          *domain.Booking
	Waitlisted       bool
	WaitlistPosition int
}

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*Outcome, error)
	CancelBooking(ctx context.Context, reference string, actor Actor, reason string) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, reference string, actor Actor) (*domain.Booking, error)
	MarkNoShow(ctx context.Context, reference string, actor Actor) (*domain.Booking, error)
	AddReview(ctx context.Context, reference string, actor Actor, rating int, review string) (*domain.Booking, error)
	GetBooking(ctx context.Context, reference string, actor Actor) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	ListAllBookings(ctx context.Context, actor Actor) ([]domain.Booking, error)
	PromoteFreedSeats(ctx context.Context) (int, error)
}

// Cache keeps short-lived promotion holds. A hold reserves a freed seat for
// the promoted waitlist user until the TTL runs out.
type Cache interface {
	PlaceHold(ctx context.Context, classID int64, userID string, ttl time.Duration) (bool, error)
	GetHold(ctx context.Context, classID int64) (string, error)
	ReleaseHold(ctx context.Context, classID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, bookingRef string) error
	ProcessRefund(ctx context.Context, bookingRef string) error
}

type Notifier interface {
	SendCancellationNotification(ctx context.Context, event kafka.BookingEvent) error
	ScheduleWaitlistNotification(ctx context.Context, classID int64, userID string) error
}

type RefundPolicy interface {
	RefundCents(amountCents int64, classStart, now time.Time) int64
}

type BookingService struct {
	bookings    repository.BookingRepository
	classes     repository.ClassRepository
	cache       Cache
	producer    Producer
	payments    PaymentGateway
	notifier    Notifier
	refunds     RefundPolicy
	eventsTopic string
	holdTTL     time.Duration
	now         func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	classes repository.ClassRepository,
	cache Cache,
	producer Producer,
	payments PaymentGateway,
	notifier Notifier,
	refunds RefundPolicy,
	eventsTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		classes:     classes,
		cache:       cache,
		producer:    producer,
		payments:    payments,
		notifier:    notifier,
		refunds:     refunds,
		eventsTopic: eventsTopic,
		holdTTL:     holdTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking books a seat in the class or, when the class is full,
// appends the user to the waitlist and reports the 1-based position. The
// seat itself is taken by a guarded increment in the store, so a request
// that loses the race for the last seat falls through to the waitlist.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*Outcome, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	class, err := s.classes.GetByID(ctx, input.ClassID)
	if err != nil {
		return nil, err
	}
	if !class.IsActive {
		return nil, domain.ErrNotFound
	}

	// A live promotion hold reserves one freed seat for the promoted user.
	holder := ""
	if s.cache != nil {
		holder, err = s.cache.GetHold(ctx, class.ID)
		if err != nil {
			log.Printf("WARNING: failed to read promotion hold for class %d: %v", class.ID, err)
			holder = ""
		}
	}

	available := class.Capacity - class.Enrolled
	if holder != "" && holder != input.UserID {
		available--
	}
	if available <= 0 {
		return s.enqueue(ctx, class.ID, input.UserID)
	}

	booking := &domain.Booking{
		Reference:   uuid.NewString(),
		UserID:      input.UserID,
		ClassID:     class.ID,
		BookingDate: input.Date,
		AmountCents: class.PriceCents,
	}
	if err := s.bookings.CreateConfirmed(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrClassFull) {
			// Lost the race for the last seat.
			return s.enqueue(ctx, class.ID, input.UserID)
		}
		return nil, err
	}

	if s.cache != nil && holder == input.UserID {
		if err := s.cache.ReleaseHold(ctx, class.ID); err != nil {
			log.Printf("WARNING: failed to release promotion hold for class %d: %v", class.ID, err)
		}
	}

	// Payment settles out of band; the booking stands regardless.
	if err := s.payments.CreatePaymentIntent(ctx, booking.Reference); err != nil {
		log.Printf("WARNING: failed to create payment intent for booking %s: %v", booking.Reference, err)
	}

	s.publish(ctx, "booking_created", booking)
	return &Outcome{Booking: booking}, nil
}

func (s *BookingService) enqueue(ctx context.Context, classID int64, userID string) (*Outcome, error) {
	position, err := s.classes.Enqueue(ctx, classID, userID)
	if err != nil {
		return nil, err
	}
	return &Outcome{Waitlisted: true, WaitlistPosition: position}, nil
}

// CancelBooking cancels the booking, computes the refund from the policy,
// frees the seat and promotes the waitlist head. Failures of the payment
// gateway or the notification dispatch are logged and never reverse the
// committed cancellation.
func (s *BookingService) CancelBooking(ctx context.Context, reference string, actor Actor, reason string) (*domain.Booking, error) {
	current, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && actor.UserID != current.UserID {
		return nil, domain.ErrForbidden
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}
	if !current.Status.HoldsSeat() {
		return nil, domain.ErrInvalidTransition
	}

	class, err := s.classes.GetByID(ctx, current.ClassID)
	if err != nil {
		return nil, err
	}
	var refund int64
	if start, startErr := class.SessionStart(current.BookingDate); startErr != nil {
		log.Printf("WARNING: cannot resolve session start for booking %s, refunding nothing: %v", reference, startErr)
	} else {
		refund = s.refunds.RefundCents(current.AmountCents, start, s.now())
	}

	cancelled, promoted, err := s.bookings.Cancel(ctx, reference, reason, refund)
	if err != nil {
		return nil, err
	}

	if cancelled.RefundCents > 0 {
		if err := s.payments.ProcessRefund(ctx, cancelled.Reference); err != nil {
			log.Printf("WARNING: failed to process refund for booking %s: %v", cancelled.Reference, err)
		}
	}
	if err := s.notifier.SendCancellationNotification(ctx, eventFor("booking_cancelled", cancelled)); err != nil {
		log.Printf("WARNING: failed to send cancellation notification for booking %s: %v", cancelled.Reference, err)
	}
	if promoted != nil {
		s.offerSeat(ctx, promoted.ClassID, promoted.UserID)
	}

	s.publish(ctx, "booking_cancelled", cancelled)
	return cancelled, nil
}

func (s *BookingService) offerSeat(ctx context.Context, classID int64, userID string) {
	if s.cache != nil {
		if _, err := s.cache.PlaceHold(ctx, classID, userID, s.holdTTL); err != nil {
			log.Printf("WARNING: failed to place promotion hold for class %d: %v", classID, err)
		}
	}
	if err := s.notifier.ScheduleWaitlistNotification(ctx, classID, userID); err != nil {
		log.Printf("WARNING: failed to schedule waitlist notification for user %s: %v", userID, err)
	}
}

func (s *BookingService) CompleteBooking(ctx context.Context, reference string, actor Actor) (*domain.Booking, error) {
	return s.finish(ctx, reference, actor, domain.BookingStatusCompleted, "booking_completed")
}

func (s *BookingService) MarkNoShow(ctx context.Context, reference string, actor Actor) (*domain.Booking, error) {
	return s.finish(ctx, reference, actor, domain.BookingStatusNoShow, "booking_no_show")
}

func (s *BookingService) finish(ctx context.Context, reference string, actor Actor, status domain.BookingStatus, eventType string) (*domain.Booking, error) {
	if !actor.Admin {
		return nil, domain.ErrForbidden
	}
	booking, err := s.bookings.UpdateStatus(ctx, reference, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, eventType, booking)
	return booking, nil
}

// AddReview attaches a rating and text to the caller's booking and refreshes
// the class aggregate. A rating can be set once; there is no terminal lock,
// so completed and even cancelled bookings stay reviewable by their owner.
func (s *BookingService) AddReview(ctx context.Context, reference string, actor Actor, rating int, review string) (*domain.Booking, error) {
	if rating < 1 || rating > 5 {
		verr := &domain.ValidationError{}
		verr.Add("rating", "rating must be between 1 and 5")
		return nil, verr
	}

	current, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if actor.UserID != current.UserID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.bookings.SetReview(ctx, reference, rating, review)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_reviewed", updated)
	return updated, nil
}

func (s *BookingService) GetBooking(ctx context.Context, reference string, actor Actor) (*domain.Booking, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && actor.UserID != booking.UserID {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) ListAllBookings(ctx context.Context, actor Actor) ([]domain.Booking, error) {
	if !actor.Admin {
		return nil, domain.ErrForbidden
	}
	return s.bookings.ListAll(ctx)
}

// PromoteFreedSeats re-offers seats whose promotion hold expired unused.
// For every class with free capacity and a non-empty waitlist and no live
// hold, the FIFO head is removed, held and notified. Run periodically by
// the worker.
func (s *BookingService) PromoteFreedSeats(ctx context.Context) (int, error) {
	entries, err := s.classes.PeekPromotable(ctx)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, entry := range entries {
		if s.cache != nil {
			holder, err := s.cache.GetHold(ctx, entry.ClassID)
			if err != nil {
				log.Printf("WARNING: failed to read promotion hold for class %d: %v", entry.ClassID, err)
				continue
			}
			if holder != "" {
				continue
			}
		}
		removed, err := s.classes.RemoveWaitlistEntry(ctx, entry.ID)
		if err != nil {
			return promoted, err
		}
		if !removed {
			continue
		}
		s.offerSeat(ctx, entry.ClassID, entry.UserID)
		promoted++
	}
	return promoted, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.Reference, eventFor(eventType, booking)); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.Reference, err)
	}
}

func eventFor(eventType string, booking *domain.Booking) kafka.BookingEvent {
	return kafka.BookingEvent{
		Type:        eventType,
		Reference:   booking.Reference,
		UserID:      booking.UserID,
		ClassID:     booking.ClassID,
		BookingDate: booking.BookingDate,
		Status:      string(booking.Status),
		RefundCents: booking.RefundCents,
	}
}

func validateCreateInput(input CreateBookingInput) error {
	verr := &domain.ValidationError{}
	if input.UserID == "" {
		verr.Add("user_id", "user id is required")
	}
	if input.ClassID <= 0 {
		verr.Add("class_id", "class id is required")
	}
	if input.Date == "" {
		verr.Add("date", "date is required")
	} else if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		verr.Add("date", "date must be formatted as YYYY-MM-DD")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
