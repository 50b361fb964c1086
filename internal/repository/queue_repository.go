package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"backend-queuebot/internal/models"
)

// QueueRepo persists queue entries in MySQL. It implements queue.Store.
// Entries are never deleted; terminal statuses are kept for history.
type QueueRepo struct {
	db *sql.DB
}

func NewQueueRepo(db *sql.DB) *QueueRepo { return &QueueRepo{db: db} }

const queueColumns = `id, user_id, staff_id, status, date, created_at, updated_at`

// InsertIfNoActive inserts the entry in a single statement that is a
// no-op when the user already holds an active booking for the date. The
// uq_active_booking unique index backs this up at the storage level, so
// a concurrent duplicate that races past the NOT EXISTS still loses.
func (r *QueueRepo) InsertIfNoActive(ctx context.Context, entry *models.QueueEntry) (bool, error) {
	const q = `
		INSERT INTO queue_entries (user_id, staff_id, status, date, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?
		FROM DUAL
		WHERE NOT EXISTS (
			SELECT 1 FROM queue_entries
			WHERE user_id = ? AND date = ? AND status IN ('waiting', 'in-progress')
		)
	`
	res, err := r.db.ExecContext(ctx, q,
		entry.UserID, entry.StaffID, entry.Status, entry.Date, entry.CreatedAt, entry.UpdatedAt,
		entry.UserID, entry.Date,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			// Kalah race dengan booking lain -> duplicate key di
			// uq_active_booking, bukan failure.
			return false, nil
		}
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	entry.ID = id
	return true, nil
}

func (r *QueueRepo) FindActive(ctx context.Context, userID, date string) (*models.QueueEntry, error) {
	const q = `
		SELECT ` + queueColumns + `
		FROM queue_entries
		WHERE user_id = ? AND date = ? AND status IN ('waiting', 'in-progress')
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, q, userID, date))
}

// ListDay returns all of the staff member's entries for the date in
// creation order. This ordering is the basis for every position number
// and is recomputed on each query, never stored.
func (r *QueueRepo) ListDay(ctx context.Context, staffID int64, date string) ([]models.QueueEntry, error) {
	const q = `
		SELECT ` + queueColumns + `
		FROM queue_entries
		WHERE staff_id = ? AND date = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, staffID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.QueueEntry
	for rows.Next() {
		var e models.QueueEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.StaffID, &e.Status, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *QueueRepo) CountDay(ctx context.Context, staffID int64, date string) (int, error) {
	const q = `SELECT COUNT(*) FROM queue_entries WHERE staff_id = ? AND date = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, q, staffID, date).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CancelActive flips the user's active entry for the date to cancelled in
// one conditional UPDATE. Concurrent duplicate cancels race on that
// single statement; only one affects a row, the other sees nothing to do.
func (r *QueueRepo) CancelActive(ctx context.Context, userID, date string, now time.Time) (*models.QueueEntry, error) {
	const upd = `
		UPDATE queue_entries
		SET status = 'cancelled', updated_at = ?
		WHERE user_id = ? AND date = ? AND status IN ('waiting', 'in-progress')
		LIMIT 1
	`
	res, err := r.db.ExecContext(ctx, upd, now, userID, date)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	// Read-back untuk rendering. Maksimal satu entry aktif per user per
	// hari, jadi yang barusan dibatalkan adalah yang paling baru.
	const sel = `
		SELECT ` + queueColumns + `
		FROM queue_entries
		WHERE user_id = ? AND date = ? AND status = 'cancelled'
		ORDER BY updated_at DESC, id DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, sel, userID, date))
}

func (r *QueueRepo) FindByID(ctx context.Context, id int64) (*models.QueueEntry, error) {
	const q = `SELECT ` + queueColumns + ` FROM queue_entries WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// UpdateStatus persists a transition conditioned on the status the caller
// observed, so a concurrent double transition applies once.
func (r *QueueRepo) UpdateStatus(ctx context.Context, id int64, from, to string, now time.Time) (bool, error) {
	const q = `UPDATE queue_entries SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

	res, err := r.db.ExecContext(ctx, q, to, now, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountByStatus returns today's entry counts per status for one staff
// member. Used by the display endpoint.
func (r *QueueRepo) CountByStatus(ctx context.Context, staffID int64, date string) (map[string]int, error) {
	const q = `
		SELECT status, COUNT(*)
		FROM queue_entries
		WHERE staff_id = ? AND date = ?
		GROUP BY status
	`
	rows, err := r.db.QueryContext(ctx, q, staffID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *QueueRepo) scanOne(row *sql.Row) (*models.QueueEntry, error) {
	var e models.QueueEntry
	err := row.Scan(&e.ID, &e.UserID, &e.StaffID, &e.Status, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
