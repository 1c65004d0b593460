package postgres

import (
	"context"

	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// OfficerRepo implements OfficerRepository using PostgreSQL.
type OfficerRepo struct{ db *DB }

// NewOfficerRepo constructs an officer repository.
func NewOfficerRepo(db *DB) *OfficerRepo { return &OfficerRepo{db: db} }

const officerCols = `id, official_email, service_number_hash, full_name, rank, station, role, phone, created_at, updated_at`

// Create inserts a new officer row and fills its timestamps.
func (r *OfficerRepo) Create(ctx context.Context, o *model.Officer) error {
	const q = `
INSERT INTO officers (id, official_email, service_number_hash, full_name, rank, station, role, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, q,
		o.ID, o.OfficialEmail, o.ServiceNumberHash, o.FullName, o.Rank, o.Station, string(o.Role), o.Phone,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if isUniqueViolation(err) {
		return errs.ErrDuplicateIdentity
	}
	return err
}

// GetByID selects an officer by ID.
func (r *OfficerRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Officer, error) {
	q := `SELECT ` + officerCols + ` FROM officers WHERE id=$1`
	return scanOfficer(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects an officer by official e-mail.
func (r *OfficerRepo) GetByEmail(ctx context.Context, email string) (*model.Officer, error) {
	q := `SELECT ` + officerCols + ` FROM officers WHERE official_email=$1`
	return scanOfficer(r.db.Pool.QueryRow(ctx, q, email))
}

// List returns every officer, newest first.
func (r *OfficerRepo) List(ctx context.Context) ([]model.Officer, error) {
	q := `SELECT ` + officerCols + ` FROM officers ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Officer
	for rows.Next() {
		o, err := scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOfficer(row pgx.Row) (*model.Officer, error) {
	var (
		o    model.Officer
		role string
	)
	if err := row.Scan(&o.ID, &o.OfficialEmail, &o.ServiceNumberHash, &o.FullName, &o.Rank, &o.Station,
		&role, &o.Phone, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	o.Role = model.Role(role)
	return &o, nil
}
