package postgres

import (
	"context"

	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// ListingRepo implements ListingRepository using PostgreSQL.
type ListingRepo struct{ db *DB }

// NewListingRepo constructs a listing repository.
func NewListingRepo(db *DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `id, owner_id, title, city, state, base, geo_area, rent_amount, rent_currency, rent_cycle,
deposit_amount, bedrooms, bathrooms, furnished, amenities, exact_address_enc, available_from, next_rent_due,
photos, status, created_at, updated_at`

// Create inserts a listing and fills its timestamps.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	const q = `
INSERT INTO listings (id, owner_id, title, city, state, base, geo_area, rent_amount, rent_currency, rent_cycle,
  deposit_amount, bedrooms, bathrooms, furnished, amenities, exact_address_enc, available_from, next_rent_due,
  photos, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING created_at, updated_at`
	return r.db.Pool.QueryRow(ctx, q,
		l.ID, l.OwnerID, l.Title, l.City, l.State, l.Base, l.GeoArea, l.RentAmount, l.RentCurrency, string(l.RentCycle),
		l.DepositAmount, l.Bedrooms, l.Bathrooms, l.Furnished, l.Amenities, l.ExactAddressEnc, l.AvailableFrom, l.NextRentDue,
		l.Photos, string(l.Status),
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

// GetByID selects a listing by ID.
func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	q := `SELECT ` + listingCols + ` FROM listings WHERE id=$1`
	return scanListing(r.db.Pool.QueryRow(ctx, q, id))
}

// List returns every listing, newest first.
func (r *ListingRepo) List(ctx context.Context) ([]model.Listing, error) {
	q := `SELECT ` + listingCols + ` FROM listings ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// UpdateStatus sets a listing's status and returns the updated row.
func (r *ListingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ListingStatus) (*model.Listing, error) {
	q := `UPDATE listings SET status=$2, updated_at=now() WHERE id=$1 RETURNING ` + listingCols
	return scanListing(r.db.Pool.QueryRow(ctx, q, id, string(status)))
}

func scanListing(row pgx.Row) (*model.Listing, error) {
	var (
		l             model.Listing
		cycle, status string
	)
	if err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.City, &l.State, &l.Base, &l.GeoArea,
		&l.RentAmount, &l.RentCurrency, &cycle, &l.DepositAmount, &l.Bedrooms, &l.Bathrooms, &l.Furnished,
		&l.Amenities, &l.ExactAddressEnc, &l.AvailableFrom, &l.NextRentDue, &l.Photos, &status,
		&l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	l.RentCycle = model.RentCycle(cycle)
	l.Status = model.ListingStatus(status)
	return &l, nil
}
