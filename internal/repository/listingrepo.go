package repository

import (
	"context"

	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ListingRepository stores housing listings.
type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	// List returns all listings, newest first.
	List(ctx context.Context) ([]model.Listing, error)
	// UpdateStatus sets the status and returns the updated row.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ListingStatus) (*model.Listing, error)
}

// InterestRepository stores expressions of interest.
type InterestRepository interface {
	Create(ctx context.Context, i *model.Interest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Interest, error)
	// ListByListing returns interests of a listing, newest first.
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]model.Interest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InterestStatus) (*model.Interest, error)
}

// TransferRepository stores ownership transfers. ConsentPDFURL is always a sealed blob here.
type TransferRepository interface {
	Create(ctx context.Context, t *model.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Transfer, error)
	// ListByListing returns transfers of a listing, newest first.
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]model.Transfer, error)
	// UpdateStatus sets the status and the (possibly unchanged) sealed consent reference.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TransferStatus, consent *string) (*model.Transfer, error)
}
