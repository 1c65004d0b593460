package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/nhh/internal/access"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/repository"
	"github.com/and161185/nhh/internal/validation"
)

// ListingInput describes a new listing. ExactAddress is plaintext here only.
type ListingInput struct {
	Title         string          `json:"title" validate:"required,notblank"`
	City          string          `json:"city" validate:"required,notblank"`
	State         string          `json:"state" validate:"required,notblank"`
	Base          string          `json:"base" validate:"required,notblank"`
	GeoArea       *string         `json:"geo_area"`
	RentAmount    float64         `json:"rent_amount" validate:"min=0"`
	RentCurrency  string          `json:"rent_currency"`
	RentCycle     model.RentCycle `json:"rent_cycle" validate:"oneof=monthly quarterly yearly"`
	DepositAmount *float64        `json:"deposit_amount" validate:"omitempty,min=0"`
	Bedrooms      int             `json:"bedrooms" validate:"min=0"`
	Bathrooms     int             `json:"bathrooms" validate:"min=0"`
	Furnished     bool            `json:"furnished"`
	Amenities     []string        `json:"amenities"`
	ExactAddress  string          `json:"exact_address" validate:"required,notblank"`
	AvailableFrom time.Time       `json:"available_from" validate:"required"`
	NextRentDue   *time.Time      `json:"next_rent_due"`
	Photos        []string        `json:"photos"`
}

// ListingService manages listings. Every listing leaves it through the redactor.
type ListingService interface {
	Create(ctx context.Context, v *model.Viewer, in ListingInput) (model.ListingView, error)
	UpdateStatus(ctx context.Context, v *model.Viewer, id uuid.UUID, status model.ListingStatus) (model.ListingView, error)
	List(ctx context.Context, v *model.Viewer) ([]model.ListingView, error)
	Get(ctx context.Context, v *model.Viewer, id uuid.UUID) (model.ListingView, error)
}

type ListingServiceImpl struct {
	listings repository.ListingRepository
	redactor *access.Redactor
}

// NewListingService constructs ListingService.
func NewListingService(listings repository.ListingRepository, redactor *access.Redactor) *ListingServiceImpl {
	return &ListingServiceImpl{listings: listings, redactor: redactor}
}

// Create stores a draft listing owned by v with its address encoded.
func (s *ListingServiceImpl) Create(ctx context.Context, v *model.Viewer, in ListingInput) (model.ListingView, error) {
	if err := access.Require(v, access.OpCreateListing); err != nil {
		return model.ListingView{}, err
	}
	if err := validation.Struct(in); err != nil {
		return model.ListingView{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.ListingView{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.RentCurrency))
	if currency == "" {
		currency = "NGN"
	}
	l := &model.Listing{
		ID:              id,
		OwnerID:         v.ID,
		Title:           strings.TrimSpace(in.Title),
		City:            strings.TrimSpace(in.City),
		State:           strings.TrimSpace(in.State),
		Base:            strings.TrimSpace(in.Base),
		GeoArea:         in.GeoArea,
		RentAmount:      in.RentAmount,
		RentCurrency:    currency,
		RentCycle:       in.RentCycle,
		DepositAmount:   in.DepositAmount,
		Bedrooms:        in.Bedrooms,
		Bathrooms:       in.Bathrooms,
		Furnished:       in.Furnished,
		Amenities:       nonNil(in.Amenities),
		ExactAddressEnc: access.EncodeAddress(in.ExactAddress),
		AvailableFrom:   in.AvailableFrom,
		NextRentDue:     in.NextRentDue,
		Photos:          nonNil(in.Photos),
		Status:          model.ListingDraft,
	}
	if err := s.listings.Create(ctx, l); err != nil {
		return model.ListingView{}, err
	}
	return s.redactor.RedactListing(*l, v), nil
}

// UpdateStatus is reserved to the owner.
func (s *ListingServiceImpl) UpdateStatus(ctx context.Context, v *model.Viewer, id uuid.UUID, status model.ListingStatus) (model.ListingView, error) {
	if err := access.Require(v, access.OpUpdateListingStatus); err != nil {
		return model.ListingView{}, err
	}
	if err := validation.Var("status", status, "oneof=draft published archived"); err != nil {
		return model.ListingView{}, err
	}
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return model.ListingView{}, err
	}
	if l.OwnerID != v.ID {
		return model.ListingView{}, errs.ErrForbidden
	}
	l, err = s.listings.UpdateStatus(ctx, id, status)
	if err != nil {
		return model.ListingView{}, err
	}
	return s.redactor.RedactListing(*l, v), nil
}

func (s *ListingServiceImpl) List(ctx context.Context, v *model.Viewer) ([]model.ListingView, error) {
	list, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ListingView, 0, len(list))
	for _, l := range list {
		out = append(out, s.redactor.RedactListing(l, v))
	}
	return out, nil
}

func (s *ListingServiceImpl) Get(ctx context.Context, v *model.Viewer, id uuid.UUID) (model.ListingView, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return model.ListingView{}, err
	}
	return s.redactor.RedactListing(*l, v), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
