package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/gymbooking/internal/kafka"
)

// Sender delivers notification events consumed by the worker. Console
// delivery stands in for the real channel.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	switch event.Type {
	case "waitlist_slot_available":
		fmt.Printf("notify user %s: a seat opened up in class %d\n", event.UserID, event.ClassID)
	default:
		fmt.Printf("notify user %s about %s for booking %s\n", event.UserID, event.Type, event.Reference)
	}
	return nil
}
