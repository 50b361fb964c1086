package repository

import (
	"context"
	"database/sql"

	"backend-queuebot/internal/models"
)

// StaffRepo reads and writes the staff directory. Read-mostly: rows are
// created by the seeder or the admin staff endpoint.
type StaffRepo struct {
	db *sql.DB
}

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

const staffColumns = `id, name, role, created_at, updated_at`

// Resolve returns the staff member, or nil when the id is unknown.
func (r *StaffRepo) Resolve(ctx context.Context, staffID int64) (*models.Staff, error) {
	const q = `SELECT ` + staffColumns + ` FROM staff WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, staffID))
}

// FindByName matches the exact display name. The webhook routes "book
// <name>" commands through this.
func (r *StaffRepo) FindByName(ctx context.Context, name string) (*models.Staff, error) {
	const q = `SELECT ` + staffColumns + ` FROM staff WHERE name = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, name))
}

func (r *StaffRepo) ListAll(ctx context.Context) ([]models.Staff, error) {
	const q = `SELECT ` + staffColumns + ` FROM staff ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []models.Staff
	for rows.Next() {
		var s models.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Role, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (r *StaffRepo) Create(ctx context.Context, name, role string) (*models.Staff, error) {
	const q = `INSERT INTO staff (name, role) VALUES (?, ?)`

	res, err := r.db.ExecContext(ctx, q, name, role)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, id)
}

func (r *StaffRepo) scanOne(row *sql.Row) (*models.Staff, error) {
	var s models.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Role, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
