package grpcserver

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/nhh/internal/access"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/service"
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type fakeAuth struct {
	mu       sync.Mutex
	officer  model.PublicOfficer
	sn       string
	access   map[string]*model.Viewer
	refresh  map[string]bool
	lastMeta *model.ClientMeta
}

func newFakeAuth() *fakeAuth {
	o := model.PublicOfficer{
		ID:            uuid.Must(uuid.NewV4()),
		OfficialEmail: "lt.bello@navy.mil.ng",
		FullName:      "Lt Bello",
		Rank:          "Lieutenant",
		Station:       "NNS Beecroft",
		Role:          model.RoleOfficer,
		CreatedAt:     t0,
		UpdatedAt:     t0,
	}
	return &fakeAuth{
		officer: o,
		sn:      "NN1234",
		access:  map[string]*model.Viewer{},
		refresh: map[string]bool{},
	}
}

func (f *fakeAuth) grant(tok string, v *model.Viewer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access[tok] = v
}

func (f *fakeAuth) meta() *model.ClientMeta {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastMeta
}

func (f *fakeAuth) pair() model.TokenPair {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt := uuid.Must(uuid.NewV4()).String()
	f.refresh[rt] = true
	at := uuid.Must(uuid.NewV4()).String()
	f.access[at] = &model.Viewer{ID: f.officer.ID, Role: f.officer.Role}
	return model.TokenPair{AccessToken: at, RefreshToken: rt, ExpiresIn: 900, RefreshExpiresIn: 604800}
}

func (f *fakeAuth) Register(_ context.Context, in service.RegisterInput, meta *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error) {
	f.mu.Lock()
	f.lastMeta = meta
	dup := service.NormalizeEmail(in.OfficialEmail) == f.officer.OfficialEmail
	f.mu.Unlock()
	if dup {
		return model.PublicOfficer{}, model.TokenPair{}, errs.ErrDuplicateIdentity
	}
	o := f.officer
	o.OfficialEmail = service.NormalizeEmail(in.OfficialEmail)
	return o, f.pair(), nil
}

func (f *fakeAuth) Login(_ context.Context, c service.Credentials, meta *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error) {
	f.mu.Lock()
	f.lastMeta = meta
	f.mu.Unlock()
	if service.NormalizeEmail(c.OfficialEmail) != f.officer.OfficialEmail || c.ServiceNumber != f.sn {
		return model.PublicOfficer{}, model.TokenPair{}, errs.ErrInvalidCredentials
	}
	return f.officer, f.pair(), nil
}

func (f *fakeAuth) Refresh(_ context.Context, tok string, _ *model.ClientMeta) (model.PublicOfficer, model.TokenPair, error) {
	f.mu.Lock()
	live := f.refresh[tok]
	delete(f.refresh, tok)
	f.mu.Unlock()
	if !live {
		return model.PublicOfficer{}, model.TokenPair{}, errs.ErrRevokedToken
	}
	return f.officer, f.pair(), nil
}

func (f *fakeAuth) Verify(_ context.Context, c service.Credentials, _ *model.ClientMeta) (model.Verification, error) {
	if c.ServiceNumber != f.sn {
		return model.Verification{}, errs.ErrVerificationFailed
	}
	return model.Verification{Status: "verified", OfficerID: f.officer.ID}, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, tok string) (*model.Viewer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.access[tok]
	if !ok {
		return nil, errs.ErrInvalidToken
	}
	return v, nil
}

func (f *fakeAuth) ValidateRefreshStrategy(context.Context, string) (*model.Claims, error) {
	return nil, errs.ErrInvalidToken
}

func (f *fakeAuth) Logout(_ context.Context, tok string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refresh, tok)
	return nil
}

type fakeOfficers struct{ auth *fakeAuth }

func (f *fakeOfficers) Me(_ context.Context, v *model.Viewer) (model.PublicOfficer, error) {
	if v == nil {
		return model.PublicOfficer{}, errs.ErrUnauthenticated
	}
	if v.ID != f.auth.officer.ID {
		return model.PublicOfficer{}, errs.ErrNotFound
	}
	return f.auth.officer, nil
}

func (f *fakeOfficers) List(_ context.Context, v *model.Viewer) ([]model.PublicOfficer, error) {
	if err := access.Require(v, access.OpListOfficers); err != nil {
		return nil, err
	}
	return []model.PublicOfficer{f.auth.officer}, nil
}

// fakeListings holds one listing and renders its address per viewer.
type fakeListings struct {
	listing model.ListingView
	address string
}

func newFakeListings(owner uuid.UUID) *fakeListings {
	return &fakeListings{
		address: "12 Marina Close",
		listing: model.ListingView{
			ID:            uuid.Must(uuid.NewV4()),
			OwnerID:       owner,
			Title:         "Two-bed flat",
			City:          "Lagos",
			State:         "Lagos",
			Base:          "NNS Beecroft",
			RentAmount:    1200000,
			RentCurrency:  "NGN",
			RentCycle:     model.RentYearly,
			Bedrooms:      2,
			Bathrooms:     1,
			Amenities:     []string{},
			Photos:        []string{},
			AvailableFrom: t0,
			Status:        model.ListingPublished,
			CreatedAt:     t0,
			UpdatedAt:     t0,
		},
	}
}

func (f *fakeListings) view(v *model.Viewer) model.ListingView {
	out := f.listing
	out.ExactAddress = access.SentinelRedacted
	if access.CanRevealProtectedField(v, out.OwnerID) {
		out.ExactAddress = f.address
	}
	return out
}

func (f *fakeListings) Create(_ context.Context, v *model.Viewer, in service.ListingInput) (model.ListingView, error) {
	if err := access.Require(v, access.OpCreateListing); err != nil {
		return model.ListingView{}, err
	}
	out := f.listing
	out.ID = uuid.Must(uuid.NewV4())
	out.OwnerID = v.ID
	out.Title = in.Title
	out.ExactAddress = in.ExactAddress
	return out, nil
}

func (f *fakeListings) UpdateStatus(_ context.Context, v *model.Viewer, id uuid.UUID, st model.ListingStatus) (model.ListingView, error) {
	if err := access.Require(v, access.OpUpdateListingStatus); err != nil {
		return model.ListingView{}, err
	}
	if id != f.listing.ID {
		return model.ListingView{}, errs.ErrNotFound
	}
	if v.ID != f.listing.OwnerID {
		return model.ListingView{}, errs.ErrForbidden
	}
	out := f.view(v)
	out.Status = st
	return out, nil
}

func (f *fakeListings) List(_ context.Context, v *model.Viewer) ([]model.ListingView, error) {
	return []model.ListingView{f.view(v)}, nil
}

func (f *fakeListings) Get(_ context.Context, v *model.Viewer, id uuid.UUID) (model.ListingView, error) {
	if id != f.listing.ID {
		return model.ListingView{}, errs.ErrNotFound
	}
	return f.view(v), nil
}

type fakeInterests struct{}

func (fakeInterests) Create(_ context.Context, v *model.Viewer, listingID uuid.UUID, msg string) (*model.Interest, error) {
	if err := access.Require(v, access.OpCreateInterest); err != nil {
		return nil, err
	}
	return &model.Interest{
		ID: uuid.Must(uuid.NewV4()), ListingID: listingID, InterestedOfficerID: v.ID,
		Message: msg, Status: model.InterestPending, CreatedAt: t0, UpdatedAt: t0,
	}, nil
}

func (fakeInterests) UpdateStatus(_ context.Context, v *model.Viewer, id uuid.UUID, st model.InterestStatus) (*model.Interest, error) {
	if err := access.Require(v, access.OpUpdateInterestStatus); err != nil {
		return nil, err
	}
	return &model.Interest{ID: id, Status: st, CreatedAt: t0, UpdatedAt: t0}, nil
}

func (fakeInterests) ListForListing(_ context.Context, v *model.Viewer, _ uuid.UUID) ([]model.Interest, error) {
	if v == nil {
		return nil, errs.ErrUnauthenticated
	}
	return nil, nil
}

type fakeTransfers struct {
	mu      sync.Mutex
	consent *string
}

func (f *fakeTransfers) Create(_ context.Context, v *model.Viewer, in service.TransferInput) (model.TransferView, error) {
	if err := access.Require(v, access.OpCreateTransfer); err != nil {
		return model.TransferView{}, err
	}
	f.mu.Lock()
	f.consent = in.ConsentPDFURL
	f.mu.Unlock()
	return model.TransferView{
		ID: uuid.Must(uuid.NewV4()), ListingID: in.ListingID, FromOfficerID: v.ID, ToOfficerID: in.ToOfficerID,
		ProposedMoveIn: in.ProposedMoveIn, EffectiveDate: in.EffectiveDate, ConsentPDFURL: in.ConsentPDFURL,
		Status: model.TransferPending, CreatedAt: t0, UpdatedAt: t0,
	}, nil
}

func (f *fakeTransfers) UpdateStatus(_ context.Context, v *model.Viewer, id uuid.UUID, st model.TransferStatus, consent *string) (model.TransferView, error) {
	if err := access.Require(v, access.OpUpdateTransferStatus); err != nil {
		return model.TransferView{}, err
	}
	f.mu.Lock()
	if consent != nil && *consent != "" {
		f.consent = consent
	}
	c := f.consent
	f.mu.Unlock()
	return model.TransferView{ID: id, Status: st, ConsentPDFURL: c, ProposedMoveIn: t0, CreatedAt: t0, UpdatedAt: t0}, nil
}

func (f *fakeTransfers) ListForListing(_ context.Context, v *model.Viewer, _ uuid.UUID) ([]model.TransferView, error) {
	if v == nil {
		return nil, errs.ErrUnauthenticated
	}
	return []model.TransferView{}, nil
}
