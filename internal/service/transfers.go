package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/nhh/internal/access"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/repository"
	"github.com/and161185/nhh/internal/validation"
)

// Sealer encrypts protected field values.
type Sealer interface {
	Seal(plaintext string) (string, error)
}

// TransferInput proposes handing a listing over to another officer.
type TransferInput struct {
	ListingID      uuid.UUID  `json:"listing_id"`
	ToOfficerID    uuid.UUID  `json:"to_officer_id"`
	ProposedMoveIn time.Time  `json:"proposed_move_in" validate:"required"`
	EffectiveDate  *time.Time `json:"effective_date"`
	ConsentPDFURL  *string    `json:"consent_pdf_url"`
}

// TransferService manages handovers. The consent reference is sealed at rest and
// leaves the service only through the redactor.
type TransferService interface {
	Create(ctx context.Context, v *model.Viewer, in TransferInput) (model.TransferView, error)
	UpdateStatus(ctx context.Context, v *model.Viewer, id uuid.UUID, status model.TransferStatus, consentURL *string) (model.TransferView, error)
	ListForListing(ctx context.Context, v *model.Viewer, listingID uuid.UUID) ([]model.TransferView, error)
}

type TransferServiceImpl struct {
	transfers repository.TransferRepository
	listings  repository.ListingRepository
	officers  repository.OfficerRepository
	sealer    Sealer
	redactor  *access.Redactor
}

// NewTransferService constructs TransferService.
func NewTransferService(transfers repository.TransferRepository, listings repository.ListingRepository,
	officers repository.OfficerRepository, sealer Sealer, redactor *access.Redactor) *TransferServiceImpl {
	return &TransferServiceImpl{transfers: transfers, listings: listings, officers: officers, sealer: sealer, redactor: redactor}
}

// Create opens a pending transfer from the listing owner to the receiver.
func (s *TransferServiceImpl) Create(ctx context.Context, v *model.Viewer, in TransferInput) (model.TransferView, error) {
	if err := access.Require(v, access.OpCreateTransfer); err != nil {
		return model.TransferView{}, err
	}
	if err := validation.Struct(in); err != nil {
		return model.TransferView{}, err
	}
	l, err := s.listings.GetByID(ctx, in.ListingID)
	if err != nil {
		return model.TransferView{}, err
	}
	if !access.OwnsOrOversees(v, l.OwnerID) {
		return model.TransferView{}, errs.ErrForbidden
	}
	if in.ToOfficerID == l.OwnerID {
		return model.TransferView{}, fmt.Errorf("%w: receiver already owns the listing", errs.ErrValidation)
	}
	if _, err := s.officers.GetByID(ctx, in.ToOfficerID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TransferView{}, fmt.Errorf("receiving officer: %w", errs.ErrNotFound)
		}
		return model.TransferView{}, err
	}
	consent, err := s.seal(in.ConsentPDFURL)
	if err != nil {
		return model.TransferView{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.TransferView{}, err
	}
	t := &model.Transfer{
		ID:             id,
		ListingID:      l.ID,
		FromOfficerID:  l.OwnerID,
		ToOfficerID:    in.ToOfficerID,
		ProposedMoveIn: in.ProposedMoveIn,
		EffectiveDate:  in.EffectiveDate,
		ConsentPDFURL:  consent,
		Status:         model.TransferPending,
	}
	if err := s.transfers.Create(ctx, t); err != nil {
		return model.TransferView{}, err
	}
	return s.redactor.RevealTransfer(*t, v), nil
}

// UpdateStatus is open to both parties and command. A new consent reference
// replaces the stored one; without one the stored value is kept.
func (s *TransferServiceImpl) UpdateStatus(ctx context.Context, v *model.Viewer, id uuid.UUID, status model.TransferStatus, consentURL *string) (model.TransferView, error) {
	if err := access.Require(v, access.OpUpdateTransferStatus); err != nil {
		return model.TransferView{}, err
	}
	if err := validation.Var("status", status, "oneof=pending approved rejected completed"); err != nil {
		return model.TransferView{}, err
	}
	t, err := s.transfers.GetByID(ctx, id)
	if err != nil {
		return model.TransferView{}, err
	}
	if v.ID != t.FromOfficerID && v.ID != t.ToOfficerID && !access.IsCommand(v.Role) {
		return model.TransferView{}, errs.ErrForbidden
	}
	consent := t.ConsentPDFURL
	if consentURL != nil && *consentURL != "" {
		if consent, err = s.seal(consentURL); err != nil {
			return model.TransferView{}, err
		}
	}
	t, err = s.transfers.UpdateStatus(ctx, id, status, consent)
	if err != nil {
		return model.TransferView{}, err
	}
	return s.redactor.RevealTransfer(*t, v), nil
}

// ListForListing is open to the owner and command.
func (s *TransferServiceImpl) ListForListing(ctx context.Context, v *model.Viewer, listingID uuid.UUID) ([]model.TransferView, error) {
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
	list, err := s.transfers.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	out := make([]model.TransferView, 0, len(list))
	for _, t := range list {
		out = append(out, s.redactor.RevealTransfer(t, v))
	}
	return out, nil
}

func (s *TransferServiceImpl) seal(plain *string) (*string, error) {
	if plain == nil || *plain == "" {
		return nil, nil
	}
	blob, err := s.sealer.Seal(*plain)
	if err != nil {
		return nil, fmt.Errorf("seal consent: %w", err)
	}
	return &blob, nil
}
