package notify

import (
	"context"

	"github.com/Domenick1991/gymbooking/internal/kafka"
)

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Service publishes notification requests for the worker to deliver.
// Delivery is fire-and-forget relative to the booking operation that
// triggered it.
type Service struct {
	producer           Producer
	notificationsTopic string
	waitlistTopic      string
}

func NewService(producer Producer, notificationsTopic, waitlistTopic string) *Service {
	return &Service{
		producer:           producer,
		notificationsTopic: notificationsTopic,
		waitlistTopic:      waitlistTopic,
	}
}

func (s *Service) SendCancellationNotification(ctx context.Context, booking kafka.BookingEvent) error {
	booking.Type = "booking_cancelled"
	return s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, booking)
}

// ScheduleWaitlistNotification queues a seat-available offer for a promoted
// waitlist user. The worker consumes the topic and delivers eventually; the
// offer does not create a booking.
func (s *Service) ScheduleWaitlistNotification(ctx context.Context, classID int64, userID string) error {
	event := kafka.BookingEvent{
		Type:    "waitlist_slot_available",
		UserID:  userID,
		ClassID: classID,
	}
	return s.producer.Publish(ctx, s.waitlistTopic, userID, event)
}
