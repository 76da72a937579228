package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClassFilter struct {
	Type       string
	Level      string
	Trainer    string
	Day        string
	ActiveOnly bool
}

type ClassRepository interface {
	List(ctx context.Context, filter ClassFilter) ([]domain.Class, error)
	GetByID(ctx context.Context, id int64) (*domain.Class, error)
	Create(ctx context.Context, class *domain.Class) error
	Update(ctx context.Context, class *domain.Class) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	Enqueue(ctx context.Context, classID int64, userID string) (int, error)
	PeekPromotable(ctx context.Context) ([]domain.WaitlistEntry, error)
	RemoveWaitlistEntry(ctx context.Context, entryID int64) (bool, error)
}

type PGClassRepository struct {
	db *pgxpool.Pool
}

func NewClassRepository(db *pgxpool.Pool) ClassRepository {
	return &PGClassRepository{db: db}
}

const classColumns = `id, name, description, type, level, trainer, capacity, enrolled, day, start_time, duration_minutes, location, price_cents, rating, total_reviews, is_active, created_at, updated_at`

func scanClass(row pgx.Row) (*domain.Class, error) {
	var c domain.Class
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Type, &c.Level, &c.Trainer, &c.Capacity, &c.Enrolled,
		&c.Schedule.Day, &c.Schedule.StartTime, &c.Schedule.DurationMinutes, &c.Location,
		&c.PriceCents, &c.Rating, &c.TotalReviews, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGClassRepository) List(ctx context.Context, filter ClassFilter) ([]domain.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE ($1 = '' OR type = $1) AND ($2 = '' OR level = $2) AND ($3 = '' OR trainer = $3) AND ($4 = '' OR day = $4) AND (NOT $5 OR is_active) ORDER BY day, start_time`
	rows, err := r.db.Query(ctx, query, filter.Type, filter.Level, filter.Trainer, filter.Day, filter.ActiveOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]domain.Class, 0)
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

func (r *PGClassRepository) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	row := r.db.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id=$1`, id)
	class, err := scanClass(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return class, nil
}

func (r *PGClassRepository) Create(ctx context.Context, class *domain.Class) error {
	return r.db.QueryRow(ctx, `INSERT INTO classes (name, description, type, level, trainer, capacity, day, start_time, duration_minutes, location, price_cents, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, enrolled, rating, total_reviews, created_at, updated_at`,
		class.Name, class.Description, class.Type, class.Level, class.Trainer, class.Capacity,
		class.Schedule.Day, class.Schedule.StartTime, class.Schedule.DurationMinutes,
		class.Location, class.PriceCents, class.IsActive).
		Scan(&class.ID, &class.Enrolled, &class.Rating, &class.TotalReviews, &class.CreatedAt, &class.UpdatedAt)
}

func (r *PGClassRepository) Update(ctx context.Context, class *domain.Class) error {
	cmd, err := r.db.Exec(ctx, `UPDATE classes SET name=$2, description=$3, type=$4, level=$5, trainer=$6, capacity=$7, day=$8, start_time=$9, duration_minutes=$10, location=$11, price_cents=$12, is_active=$13, updated_at=now()
		WHERE id=$1 AND $7 >= enrolled`,
		class.ID, class.Name, class.Description, class.Type, class.Level, class.Trainer, class.Capacity,
		class.Schedule.Day, class.Schedule.StartTime, class.Schedule.DurationMinutes,
		class.Location, class.PriceCents, class.IsActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, class.ID); err != nil {
			return err
		}
		verr := &domain.ValidationError{}
		verr.Add("capacity", "capacity cannot be lower than current enrollment")
		return verr
	}
	return nil
}

func (r *PGClassRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE classes SET is_active=$2, updated_at=now() WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGClassRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM classes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Enqueue appends the user to the class waitlist and returns the 1-based
// position. Re-enqueueing an already waitlisted user returns the current
// position instead of a second entry.
func (r *PGClassRepository) Enqueue(ctx context.Context, classID int64, userID string) (int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO waitlist_entries (class_id, user_id) VALUES ($1, $2) ON CONFLICT (class_id, user_id) DO NOTHING`, classID, userID); err != nil {
		return 0, err
	}

	var position int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM waitlist_entries WHERE class_id=$1 AND id <= (SELECT id FROM waitlist_entries WHERE class_id=$1 AND user_id=$2)`, classID, userID).Scan(&position); err != nil {
		return 0, err
	}

	return position, tx.Commit(ctx)
}

// PeekPromotable returns the FIFO head of every waitlist whose class has a
// free seat again. Entries are not removed; the caller decides whether a
// promotion hold is already outstanding.
func (r *PGClassRepository) PeekPromotable(ctx context.Context) ([]domain.WaitlistEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT ON (w.class_id) w.id, w.class_id, w.user_id, w.created_at
		FROM waitlist_entries w
		JOIN classes c ON c.id = w.class_id
		WHERE c.enrolled < c.capacity AND c.is_active
		ORDER BY w.class_id, w.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WaitlistEntry
	for rows.Next() {
		var e domain.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.ClassID, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PGClassRepository) RemoveWaitlistEntry(ctx context.Context, entryID int64) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM waitlist_entries WHERE id=$1`, entryID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

var _ ClassRepository = (*PGClassRepository)(nil)
