package access

import (
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
)

const (
	// SentinelRedacted replaces a protected field the viewer may not see.
	SentinelRedacted = "REDACTED - Contact the moderator for access"
	// SentinelUnavailable replaces a protected field that could not be decoded.
	SentinelUnavailable = "UNAVAILABLE - DECRYPTION FAILED"
)

// Opener decrypts sealed field values.
type Opener interface {
	Open(blob string) (string, error)
}

// EncodeAddress stores a listing address in its reversible at-rest form.
// This is an encoding, not a secrecy boundary.
func EncodeAddress(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(plain))
}

// DecodeAddress reverses EncodeAddress.
func DecodeAddress(enc string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("%w: address: %v", errs.ErrDecryption, err)
	}
	return string(b), nil
}

// Redactor produces per-viewer views of records holding protected fields.
type Redactor struct {
	cipher Opener
	log    *zap.Logger
}

// NewRedactor builds a Redactor. A nil logger is replaced with a no-op one.
func NewRedactor(cipher Opener, log *zap.Logger) *Redactor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redactor{cipher: cipher, log: log}
}

// RedactListing shows the exact address to the owner and command only.
func (r *Redactor) RedactListing(l model.Listing, v *model.Viewer) model.ListingView {
	view := model.ListingView{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		Title:         l.Title,
		City:          l.City,
		State:         l.State,
		Base:          l.Base,
		GeoArea:       l.GeoArea,
		RentAmount:    l.RentAmount,
		RentCurrency:  l.RentCurrency,
		RentCycle:     l.RentCycle,
		DepositAmount: l.DepositAmount,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		Furnished:     l.Furnished,
		Amenities:     l.Amenities,
		AvailableFrom: l.AvailableFrom,
		NextRentDue:   l.NextRentDue,
		Photos:        l.Photos,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if !CanRevealProtectedField(v, l.OwnerID) {
		view.ExactAddress = SentinelRedacted
		return view
	}
	addr, err := DecodeAddress(l.ExactAddressEnc)
	if err != nil {
		r.log.Warn("listing address undecodable", zap.String("listing_id", l.ID.String()), zap.Error(err))
		view.ExactAddress = SentinelUnavailable
		return view
	}
	view.ExactAddress = addr
	return view
}

// RevealTransfer opens the consent reference for participants and command and
// masks it for everyone else. A transfer without consent stays without one.
func (r *Redactor) RevealTransfer(t model.Transfer, v *model.Viewer) model.TransferView {
	view := model.TransferView{
		ID:             t.ID,
		ListingID:      t.ListingID,
		FromOfficerID:  t.FromOfficerID,
		ToOfficerID:    t.ToOfficerID,
		ProposedMoveIn: t.ProposedMoveIn,
		EffectiveDate:  t.EffectiveDate,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.ConsentPDFURL == nil {
		return view
	}
	out := SentinelRedacted
	if isParticipant(v, t) {
		plain, err := r.cipher.Open(*t.ConsentPDFURL)
		if err != nil {
			r.log.Warn("consent reference undecryptable", zap.String("transfer_id", t.ID.String()), zap.Error(err))
			plain = SentinelUnavailable
		}
		out = plain
	}
	view.ConsentPDFURL = &out
	return view
}

func isParticipant(v *model.Viewer, t model.Transfer) bool {
	if v == nil {
		return false
	}
	return IsCommand(v.Role) || v.ID == t.FromOfficerID || v.ID == t.ToOfficerID
}
