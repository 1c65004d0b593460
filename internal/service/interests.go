package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/nhh/internal/access"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/repository"
	"github.com/and161185/nhh/internal/validation"
)

// InterestService records officers' interest in listings.
type InterestService interface {
	Create(ctx context.Context, v *model.Viewer, listingID uuid.UUID, message string) (*model.Interest, error)
	UpdateStatus(ctx context.Context, v *model.Viewer, id uuid.UUID, status model.InterestStatus) (*model.Interest, error)
	ListForListing(ctx context.Context, v *model.Viewer, listingID uuid.UUID) ([]model.Interest, error)
}

type InterestServiceImpl struct {
	interests repository.InterestRepository
	listings  repository.ListingRepository
}

// NewInterestService constructs InterestService.
func NewInterestService(interests repository.InterestRepository, listings repository.ListingRepository) *InterestServiceImpl {
	return &InterestServiceImpl{interests: interests, listings: listings}
}

// Create registers interest in someone else's listing.
func (s *InterestServiceImpl) Create(ctx context.Context, v *model.Viewer, listingID uuid.UUID, message string) (*model.Interest, error) {
	if err := access.Require(v, access.OpCreateInterest); err != nil {
		return nil, err
	}
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID == v.ID {
		return nil, fmt.Errorf("%w: cannot register interest in your own listing", errs.ErrForbidden)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	in := &model.Interest{
		ID:                  id,
		ListingID:           l.ID,
		InterestedOfficerID: v.ID,
		Message:             strings.TrimSpace(message),
		Status:              model.InterestPending,
	}
	if err := s.interests.Create(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// UpdateStatus is open to the listing owner and the interested officer.
func (s *InterestServiceImpl) UpdateStatus(ctx context.Context, v *model.Viewer, id uuid.UUID, status model.InterestStatus) (*model.Interest, error) {
	if err := access.Require(v, access.OpUpdateInterestStatus); err != nil {
		return nil, err
	}
	if err := validation.Var("status", status, "oneof=pending accepted declined"); err != nil {
		return nil, err
	}
	in, err := s.interests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l, err := s.listings.GetByID(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if v.ID != l.OwnerID && v.ID != in.InterestedOfficerID {
		return nil, errs.ErrForbidden
	}
	return s.interests.UpdateStatus(ctx, id, status)
}

// ListForListing is open to the owner and command.
func (s *InterestServiceImpl) ListForListing(ctx context.Context, v *model.Viewer, listingID uuid.UUID) ([]model.Interest, error) {
	if v == nil {
		return nil, errs.ErrUnauthenticated
	}
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !access.OwnsOrOversees(v, l.OwnerID) {
		return nil, errs.ErrForbidden
	}
	return s.interests.ListByListing(ctx, listingID)
}
