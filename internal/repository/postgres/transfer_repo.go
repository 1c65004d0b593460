package postgres

import (
	"context"

	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// TransferRepo implements TransferRepository using PostgreSQL.
type TransferRepo struct{ db *DB }

// NewTransferRepo constructs a transfer repository.
func NewTransferRepo(db *DB) *TransferRepo { return &TransferRepo{db: db} }

const transferCols = `id, listing_id, from_officer_id, to_officer_id, proposed_move_in, effective_date,
consent_pdf_url, status, created_at, updated_at`

// Create inserts a transfer row. ConsentPDFURL must already be sealed.
func (r *TransferRepo) Create(ctx context.Context, t *model.Transfer) error {
	const q = `
INSERT INTO transfers (id, listing_id, from_officer_id, to_officer_id, proposed_move_in, effective_date, consent_pdf_url, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at`
	return r.db.Pool.QueryRow(ctx, q, t.ID, t.ListingID, t.FromOfficerID, t.ToOfficerID,
		t.ProposedMoveIn, t.EffectiveDate, t.ConsentPDFURL, string(t.Status),
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID selects a transfer by ID.
func (r *TransferRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Transfer, error) {
	q := `SELECT ` + transferCols + ` FROM transfers WHERE id=$1`
	return scanTransfer(r.db.Pool.QueryRow(ctx, q, id))
}

// ListByListing returns a listing's transfers, newest first.
func (r *TransferRepo) ListByListing(ctx context.Context, listingID uuid.UUID) ([]model.Transfer, error) {
	q := `SELECT ` + transferCols + ` FROM transfers WHERE listing_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpdateStatus sets status and consent in one statement and returns the updated row.
func (r *TransferRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TransferStatus, consent *string) (*model.Transfer, error) {
	q := `UPDATE transfers SET status=$2, consent_pdf_url=$3, updated_at=now() WHERE id=$1 RETURNING ` + transferCols
	return scanTransfer(r.db.Pool.QueryRow(ctx, q, id, string(status), consent))
}

func scanTransfer(row pgx.Row) (*model.Transfer, error) {
	var (
		t      model.Transfer
		status string
	)
	if err := row.Scan(&t.ID, &t.ListingID, &t.FromOfficerID, &t.ToOfficerID, &t.ProposedMoveIn,
		&t.EffectiveDate, &t.ConsentPDFURL, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	t.Status = model.TransferStatus(status)
	return &t, nil
}
