package policy

import "time"

// Refund maps time-until-class to a refund amount in cents. It is a pure
// function of the paid amount, the class start and the cancellation time.
type Refund interface {
	RefundCents(amountCents int64, classStart, now time.Time) int64
}

// TieredRefund is the default schedule: full refund far enough ahead of the
// class, a partial refund closer in, nothing after the cutoff.
type TieredRefund struct {
	FullBefore     time.Duration
	PartialBefore  time.Duration
	PartialPercent int
}

func DefaultTieredRefund() TieredRefund {
	return TieredRefund{
		FullBefore:     24 * time.Hour,
		PartialBefore:  2 * time.Hour,
		PartialPercent: 50,
	}
}

func (p TieredRefund) RefundCents(amountCents int64, classStart, now time.Time) int64 {
	until := classStart.Sub(now)
	switch {
	case until >= p.FullBefore:
		return amountCents
	case until >= p.PartialBefore:
		return amountCents * int64(p.PartialPercent) / 100
	default:
		return 0
	}
}

var _ Refund = TieredRefund{}
