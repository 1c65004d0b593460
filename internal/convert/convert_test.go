package convert

import (
	"testing"
	"time"

	u "github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestOutgoing_BuildsValidStructs(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	deposit := 100.5
	consent := "https://x/y.pdf"

	officer := model.PublicOfficer{ID: u.Must(u.NewV4()), OfficialEmail: "a@navy.mil.ng", Role: model.RoleAdmin, CreatedAt: now}
	for name, m := range map[string]map[string]any{
		"auth":     AuthResult(officer, model.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900, RefreshExpiresIn: 604800}),
		"officers": Officers([]model.PublicOfficer{officer}),
		"verify":   Verification(model.Verification{Status: "verified", OfficerID: officer.ID}),
		"listings": Listings([]model.ListingView{{
			ID: u.Must(u.NewV4()), Amenities: []string{"water"}, DepositAmount: &deposit,
			ExactAddress: "REDACTED - Contact the moderator for access", AvailableFrom: now,
		}}),
		"interests": Interests([]model.Interest{{ID: u.Must(u.NewV4()), Status: model.InterestPending}}),
		"transfers": Transfers([]model.TransferView{{ID: u.Must(u.NewV4()), ConsentPDFURL: &consent, ProposedMoveIn: now}}),
	} {
		_, err := Struct(m)
		require.NoError(t, err, name)
	}

	s, err := Struct(AuthResult(officer, model.TokenPair{AccessToken: "a", ExpiresIn: 900}))
	require.NoError(t, err)
	tokens := s.GetFields()["tokens"].GetStructValue().GetFields()
	require.Equal(t, "a", tokens["access_token"].GetStringValue())
	require.EqualValues(t, 900, tokens["expires_in"].GetNumberValue())
	o := s.GetFields()["officer"].GetStructValue().GetFields()
	require.Equal(t, "2026-05-01T09:30:00Z", o["created_at"].GetStringValue())
	_, hasHash := o["service_number_hash"]
	require.False(t, hasHash)
}

func TestListing_NilOptionals(t *testing.T) {
	t.Parallel()
	m := Listing(model.ListingView{ID: u.Must(u.NewV4())})
	require.Nil(t, m["geo_area"])
	require.Nil(t, m["deposit_amount"])
	require.Nil(t, m["next_rent_due"])
	require.Nil(t, m["available_from"])
	require.Equal(t, []any{}, m["amenities"])
}

func TestFields_Readers(t *testing.T) {
	t.Parallel()
	id := u.Must(u.NewV4())
	f := Of(mustStruct(t, map[string]any{
		"s":     "x",
		"n":     3.0,
		"frac":  2.5,
		"b":     true,
		"list":  []any{"a", "b"},
		"mixed": []any{"a", 1.0},
		"date":  "2026-06-01",
		"ts":    "2026-06-01T10:00:00Z",
		"bad":   "yesterday",
		"id":    id.String(),
		"null":  nil,
	}))

	require.Equal(t, "x", f.String("s"))
	require.Equal(t, "", f.String("missing"))
	require.Nil(t, f.OptString("missing"))
	require.Nil(t, f.OptString("null"))
	require.Equal(t, "x", *f.OptString("s"))
	require.True(t, f.Bool("b"))
	require.False(t, f.Bool("missing"))

	n, err := f.Int("n")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	_, err = f.Int("frac")
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = f.Float("s")
	require.ErrorIs(t, err, errs.ErrValidation)
	p, err := f.OptFloat("missing")
	require.NoError(t, err)
	require.Nil(t, p)

	ss, err := f.Strings("list")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, ss)
	_, err = f.Strings("mixed")
	require.ErrorIs(t, err, errs.ErrValidation)

	d, err := f.Time("date")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), d)
	_, err = f.Time("ts")
	require.NoError(t, err)
	_, err = f.Time("bad")
	require.ErrorIs(t, err, errs.ErrValidation)
	opt, err := f.OptTime("missing")
	require.NoError(t, err)
	require.Nil(t, opt)

	got, err := f.UUID("id")
	require.NoError(t, err)
	require.Equal(t, id, got)
	_, err = f.UUID("s")
	require.ErrorIs(t, err, errs.ErrValidation)

	empty := Of(nil)
	require.Equal(t, "", empty.String("anything"))
}

func TestListingInput(t *testing.T) {
	t.Parallel()
	in, err := ListingInput(mustStruct(t, map[string]any{
		"title":          "Flat",
		"city":           "Lagos",
		"state":          "Lagos",
		"base":           "NNS Beecroft",
		"rent_amount":    1200000.0,
		"rent_cycle":     "yearly",
		"deposit_amount": 50000.0,
		"bedrooms":       2.0,
		"bathrooms":      1.0,
		"furnished":      true,
		"amenities":      []any{"water"},
		"exact_address":  "12 Marina Close",
		"available_from": "2026-07-01",
	}))
	require.NoError(t, err)
	require.Equal(t, "Flat", in.Title)
	require.Equal(t, model.RentYearly, in.RentCycle)
	require.Equal(t, 2, in.Bedrooms)
	require.Equal(t, 50000.0, *in.DepositAmount)
	require.Equal(t, []string{"water"}, in.Amenities)
	require.Nil(t, in.NextRentDue)

	_, err = ListingInput(mustStruct(t, map[string]any{"bedrooms": "two"}))
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestTransferInput(t *testing.T) {
	t.Parallel()
	lid, to := u.Must(u.NewV4()), u.Must(u.NewV4())
	in, err := TransferInput(mustStruct(t, map[string]any{
		"listing_id":       lid.String(),
		"to_officer_id":    to.String(),
		"proposed_move_in": "2026-08-01",
		"consent_pdf_url":  "https://x/c.pdf",
	}))
	require.NoError(t, err)
	require.Equal(t, lid, in.ListingID)
	require.Equal(t, to, in.ToOfficerID)
	require.Equal(t, "https://x/c.pdf", *in.ConsentPDFURL)
	require.Nil(t, in.EffectiveDate)

	_, err = TransferInput(mustStruct(t, map[string]any{"listing_id": "nope"}))
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestCredentialsAndRegister(t *testing.T) {
	t.Parallel()
	c := Credentials(mustStruct(t, map[string]any{"official_email": "a@navy.mil.ng", "service_number": "X1"}))
	require.Equal(t, "a@navy.mil.ng", c.OfficialEmail)
	require.Equal(t, "X1", c.ServiceNumber)

	r := RegisterInput(mustStruct(t, map[string]any{"official_email": "a@navy.mil.ng", "full_name": "A", "phone": "+234"}))
	require.Equal(t, "A", r.FullName)
	require.Equal(t, "+234", *r.Phone)
}
