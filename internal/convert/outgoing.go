// Package convert maps domain values to and from google.protobuf.Struct payloads.
package convert

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/nhh/internal/model"
)

// --- helpers ---

func ts(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func optTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return ts(*t)
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func list(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

// Struct builds a Struct from a map produced by this package.
func Struct(m map[string]any) (*structpb.Struct, error) { return structpb.NewStruct(m) }

// --- officers & auth ---

// Officer renders an officer without its credential hash.
func Officer(o model.PublicOfficer) map[string]any {
	return map[string]any{
		"id":             o.ID.String(),
		"official_email": o.OfficialEmail,
		"full_name":      o.FullName,
		"rank":           o.Rank,
		"station":        o.Station,
		"role":           string(o.Role),
		"phone":          optString(o.Phone),
		"created_at":     ts(o.CreatedAt),
		"updated_at":     ts(o.UpdatedAt),
	}
}

// Officers renders a directory page.
func Officers(os []model.PublicOfficer) map[string]any {
	items := make([]any, 0, len(os))
	for _, o := range os {
		items = append(items, Officer(o))
	}
	return map[string]any{"officers": items}
}

// Tokens renders a token pair.
func Tokens(p model.TokenPair) map[string]any {
	return map[string]any{
		"access_token":       p.AccessToken,
		"refresh_token":      p.RefreshToken,
		"expires_in":         p.ExpiresIn,
		"refresh_expires_in": p.RefreshExpiresIn,
	}
}

// AuthResult is the body returned by register, login and refresh.
func AuthResult(o model.PublicOfficer, p model.TokenPair) map[string]any {
	return map[string]any{
		"status":  "success",
		"officer": Officer(o),
		"tokens":  Tokens(p),
	}
}

// Verification renders a credential check result.
func Verification(v model.Verification) map[string]any {
	return map[string]any{"status": v.Status, "officer_id": v.OfficerID.String()}
}

// --- listings ---

// Listing renders a redacted listing view.
func Listing(v model.ListingView) map[string]any {
	return map[string]any{
		"id":             v.ID.String(),
		"owner_id":       v.OwnerID.String(),
		"title":          v.Title,
		"city":           v.City,
		"state":          v.State,
		"base":           v.Base,
		"geo_area":       optString(v.GeoArea),
		"rent_amount":    v.RentAmount,
		"rent_currency":  v.RentCurrency,
		"rent_cycle":     string(v.RentCycle),
		"deposit_amount": optFloat(v.DepositAmount),
		"bedrooms":       v.Bedrooms,
		"bathrooms":      v.Bathrooms,
		"furnished":      v.Furnished,
		"amenities":      list(v.Amenities),
		"exact_address":  v.ExactAddress,
		"available_from": ts(v.AvailableFrom),
		"next_rent_due":  optTS(v.NextRentDue),
		"photos":         list(v.Photos),
		"status":         string(v.Status),
		"created_at":     ts(v.CreatedAt),
		"updated_at":     ts(v.UpdatedAt),
	}
}

// Listings renders a list of listing views.
func Listings(vs []model.ListingView) map[string]any {
	items := make([]any, 0, len(vs))
	for _, v := range vs {
		items = append(items, Listing(v))
	}
	return map[string]any{"listings": items}
}

// --- interests & transfers ---

// Interest renders an interest.
func Interest(i model.Interest) map[string]any {
	return map[string]any{
		"id":                    i.ID.String(),
		"listing_id":            i.ListingID.String(),
		"interested_officer_id": i.InterestedOfficerID.String(),
		"message":               i.Message,
		"status":                string(i.Status),
		"created_at":            ts(i.CreatedAt),
		"updated_at":            ts(i.UpdatedAt),
	}
}

// Interests renders a list of interests.
func Interests(is []model.Interest) map[string]any {
	items := make([]any, 0, len(is))
	for _, i := range is {
		items = append(items, Interest(i))
	}
	return map[string]any{"interests": items}
}

// Transfer renders a transfer view.
func Transfer(v model.TransferView) map[string]any {
	return map[string]any{
		"id":               v.ID.String(),
		"listing_id":       v.ListingID.String(),
		"from_officer_id":  v.FromOfficerID.String(),
		"to_officer_id":    v.ToOfficerID.String(),
		"proposed_move_in": ts(v.ProposedMoveIn),
		"effective_date":   optTS(v.EffectiveDate),
		"consent_pdf_url":  optString(v.ConsentPDFURL),
		"status":           string(v.Status),
		"created_at":       ts(v.CreatedAt),
		"updated_at":       ts(v.UpdatedAt),
	}
}

// Transfers renders a list of transfer views.
func Transfers(vs []model.TransferView) map[string]any {
	items := make([]any, 0, len(vs))
	for _, v := range vs {
		items = append(items, Transfer(v))
	}
	return map[string]any{"transfers": items}
}
