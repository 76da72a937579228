package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	CreateConfirmed(ctx context.Context, booking *domain.Booking) error
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	Cancel(ctx context.Context, reference, reason string, refundCents int64) (*domain.Booking, *domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) (*domain.Booking, error)
	SetReview(ctx context.Context, reference string, rating int, review string) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, user_id, class_id, booking_date, amount_cents, status, cancel_reason, refund_cents, rating, review, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.ClassID, &b.BookingDate, &b.AmountCents,
		&b.Status, &b.CancelReason, &b.RefundCents, &b.Rating, &b.Review, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateConfirmed takes one seat and writes the booking in a single
// transaction. The enrollment increment carries a capacity guard, so two
// requests racing for the last seat cannot both commit; the loser gets
// domain.ErrClassFull. A live booking for the same (user, class, date)
// trips the partial unique index and surfaces as ErrDuplicateBooking.
func (r *PGBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE classes SET enrolled = enrolled + 1, updated_at = now() WHERE id=$1 AND enrolled < capacity`, booking.ClassID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrClassFull
	}

	booking.Status = domain.BookingStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, user_id, class_id, booking_date, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.UserID, booking.ClassID, booking.BookingDate, booking.AmountCents, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBooking
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, reference)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Cancel flips the booking to cancelled and releases its seat in one
// transaction. The class row is locked for the decrement-and-promote
// sequence, so concurrent cancellations each free one seat and pop at most
// one waitlist head. Cancelling an already terminal booking is a no-op and
// returns the stored row.
func (r *PGBookingRepository) Cancel(ctx context.Context, reference, reason string, refundCents int64) (*domain.Booking, *domain.WaitlistEntry, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1 FOR UPDATE`, reference)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	if !booking.Status.HoldsSeat() {
		return booking, nil, tx.Commit(ctx)
	}

	row = tx.QueryRow(ctx, `UPDATE bookings SET status=$2, cancel_reason=$3, refund_cents=$4, updated_at=now() WHERE reference=$1 RETURNING `+bookingColumns, reference, domain.BookingStatusCancelled, reason, refundCents)
	booking, err = scanBooking(row)
	if err != nil {
		return nil, nil, err
	}

	// Lock the class row so the decrement and the waitlist pop are a unit.
	if _, err := tx.Exec(ctx, `SELECT id FROM classes WHERE id=$1 FOR UPDATE`, booking.ClassID); err != nil {
		return nil, nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE classes SET enrolled = enrolled - 1, updated_at = now() WHERE id=$1 AND enrolled > 0`, booking.ClassID); err != nil {
		return nil, nil, err
	}

	var promoted *domain.WaitlistEntry
	var e domain.WaitlistEntry
	err = tx.QueryRow(ctx, `DELETE FROM waitlist_entries WHERE id = (SELECT id FROM waitlist_entries WHERE class_id=$1 ORDER BY id LIMIT 1) RETURNING id, class_id, user_id, created_at`, booking.ClassID).
		Scan(&e.ID, &e.ClassID, &e.UserID, &e.CreatedAt)
	switch {
	case err == nil:
		promoted = &e
	case errors.Is(err, pgx.ErrNoRows):
		// empty waitlist, nothing to promote
	default:
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return booking, promoted, nil
}

// UpdateStatus moves a booking into a terminal status. Only pending and
// confirmed bookings may transition.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now() WHERE reference=$1 AND status IN ('pending', 'confirmed') RETURNING `+bookingColumns, reference, status)
	booking, err := scanBooking(row)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, getErr := r.GetByReference(ctx, reference); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrInvalidTransition
}

// SetReview writes the rating once and refreshes the class aggregate
// (mean over rated bookings rounded to one decimal, plus the review count)
// in the same transaction.
func (r *PGBookingRepository) SetReview(ctx context.Context, reference string, rating int, review string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET rating=$2, review=$3, updated_at=now() WHERE reference=$1 AND rating IS NULL RETURNING `+bookingColumns, reference, rating, review)
	booking, err := scanBooking(row)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if _, getErr := r.GetByReference(ctx, reference); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrAlreadyReviewed
	}

	if _, err := tx.Exec(ctx, `UPDATE classes SET
			rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM bookings WHERE class_id=$1 AND rating IS NOT NULL), 0),
			total_reviews = (SELECT COUNT(*) FROM bookings WHERE class_id=$1 AND rating IS NOT NULL),
			updated_at = now()
		WHERE id=$1`, booking.ClassID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
