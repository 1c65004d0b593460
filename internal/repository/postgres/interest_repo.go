package postgres

import (
	"context"

	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// InterestRepo implements InterestRepository using PostgreSQL.
type InterestRepo struct{ db *DB }

// NewInterestRepo constructs an interest repository.
func NewInterestRepo(db *DB) *InterestRepo { return &InterestRepo{db: db} }

const interestCols = `id, listing_id, interested_officer_id, message, status, created_at, updated_at`

// Create inserts an interest row.
func (r *InterestRepo) Create(ctx context.Context, i *model.Interest) error {
	const q = `
INSERT INTO interests (id, listing_id, interested_officer_id, message, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`
	return r.db.Pool.QueryRow(ctx, q, i.ID, i.ListingID, i.InterestedOfficerID, i.Message, string(i.Status)).
		Scan(&i.CreatedAt, &i.UpdatedAt)
}

// GetByID selects an interest by ID.
func (r *InterestRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Interest, error) {
	q := `SELECT ` + interestCols + ` FROM interests WHERE id=$1`
	return scanInterest(r.db.Pool.QueryRow(ctx, q, id))
}

// ListByListing returns a listing's interests, newest first.
func (r *InterestRepo) ListByListing(ctx context.Context, listingID uuid.UUID) ([]model.Interest, error) {
	q := `SELECT ` + interestCols + ` FROM interests WHERE listing_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Interest
	for rows.Next() {
		i, err := scanInterest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

// UpdateStatus sets an interest's status and returns the updated row.
func (r *InterestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InterestStatus) (*model.Interest, error) {
	q := `UPDATE interests SET status=$2, updated_at=now() WHERE id=$1 RETURNING ` + interestCols
	return scanInterest(r.db.Pool.QueryRow(ctx, q, id, string(status)))
}

func scanInterest(row pgx.Row) (*model.Interest, error) {
	var (
		i      model.Interest
		status string
	)
	if err := row.Scan(&i.ID, &i.ListingID, &i.InterestedOfficerID, &i.Message, &status,
		&i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	i.Status = model.InterestStatus(status)
	return &i, nil
}
