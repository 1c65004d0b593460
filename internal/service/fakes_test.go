package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/nhh/internal/access"
	"github.com/and161185/nhh/internal/crypto"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/repository"
)

var testHasher = crypto.NewArgon2Hasher(crypto.Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 32, SaltLen: 16})

// clock hands out strictly increasing timestamps so newest-first ordering is stable.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.t.IsZero() {
		c.t = time.Now().UTC()
	}
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

/************ officers ************/

type fakeOfficers struct {
	mu      sync.Mutex
	clk     clock
	byID    map[uuid.UUID]*model.Officer
	getErr  error
	listErr error
}

var _ repository.OfficerRepository = (*fakeOfficers)(nil)

func newFakeOfficers() *fakeOfficers { return &fakeOfficers{byID: map[uuid.UUID]*model.Officer{}} }

func (f *fakeOfficers) Create(_ context.Context, o *model.Officer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.OfficialEmail == o.OfficialEmail {
			return errs.ErrDuplicateIdentity
		}
	}
	o.CreatedAt = f.clk.next()
	o.UpdatedAt = o.CreatedAt
	c := *o
	f.byID[o.ID] = &c
	return nil
}

func (f *fakeOfficers) GetByID(_ context.Context, id uuid.UUID) (*model.Officer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (f *fakeOfficers) GetByEmail(_ context.Context, email string) (*model.Officer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, o := range f.byID {
		if o.OfficialEmail == email {
			c := *o
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeOfficers) List(context.Context) ([]model.Officer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Officer, 0, len(f.byID))
	for _, o := range f.byID {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// put stores an officer with a cheap hash of serviceNumber.
func (f *fakeOfficers) put(email, serviceNumber string, role model.Role) *model.Officer {
	hash, err := testHasher.Hash(serviceNumber)
	if err != nil {
		panic(err)
	}
	o := &model.Officer{
		ID:                uuid.Must(uuid.NewV4()),
		OfficialEmail:     email,
		ServiceNumberHash: hash,
		FullName:          "Test " + string(role),
		Rank:              "Lt",
		Station:           "Lagos",
		Role:              role,
	}
	if err := f.Create(context.Background(), o); err != nil {
		panic(err)
	}
	return o
}

func viewerOf(o *model.Officer) *model.Viewer { return &model.Viewer{ID: o.ID, Role: o.Role} }

/************ sessions ************/

type fakeSessions struct {
	mu      sync.Mutex
	clk     clock
	rows    map[uuid.UUID]model.Session
	listErr error
}

var _ repository.SessionRepository = (*fakeSessions)(nil)

func newFakeSessions() *fakeSessions { return &fakeSessions{rows: map[uuid.UUID]model.Session{}} }

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.CreatedAt = f.clk.next()
	f.rows[s.ID] = *s
	return nil
}

func (f *fakeSessions) ListRecentByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Session
	for _, s := range f.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessions) DeleteByID(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.rows {
		if s.ExpiresAt.Before(now) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

/************ listings / interests / transfers ************/

type fakeListings struct {
	mu   sync.Mutex
	clk  clock
	rows map[uuid.UUID]model.Listing
}

var _ repository.ListingRepository = (*fakeListings)(nil)

func newFakeListings() *fakeListings { return &fakeListings{rows: map[uuid.UUID]model.Listing{}} }

func (f *fakeListings) Create(_ context.Context, l *model.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.CreatedAt = f.clk.next()
	l.UpdatedAt = l.CreatedAt
	f.rows[l.ID] = *l
	return nil
}

func (f *fakeListings) GetByID(_ context.Context, id uuid.UUID) (*model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &l, nil
}

func (f *fakeListings) List(context.Context) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Listing, 0, len(f.rows))
	for _, l := range f.rows {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeListings) UpdateStatus(_ context.Context, id uuid.UUID, status model.ListingStatus) (*model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = f.clk.next()
	f.rows[id] = l
	return &l, nil
}

type fakeInterests struct {
	mu   sync.Mutex
	clk  clock
	rows map[uuid.UUID]model.Interest
}

var _ repository.InterestRepository = (*fakeInterests)(nil)

func newFakeInterests() *fakeInterests { return &fakeInterests{rows: map[uuid.UUID]model.Interest{}} }

func (f *fakeInterests) Create(_ context.Context, i *model.Interest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i.CreatedAt = f.clk.next()
	i.UpdatedAt = i.CreatedAt
	f.rows[i.ID] = *i
	return nil
}

func (f *fakeInterests) GetByID(_ context.Context, id uuid.UUID) (*model.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &i, nil
}

func (f *fakeInterests) ListByListing(_ context.Context, listingID uuid.UUID) ([]model.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Interest
	for _, i := range f.rows {
		if i.ListingID == listingID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (f *fakeInterests) UpdateStatus(_ context.Context, id uuid.UUID, status model.InterestStatus) (*model.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	i.Status = status
	i.UpdatedAt = f.clk.next()
	f.rows[id] = i
	return &i, nil
}

type fakeTransfers struct {
	mu   sync.Mutex
	clk  clock
	rows map[uuid.UUID]model.Transfer
}

var _ repository.TransferRepository = (*fakeTransfers)(nil)

func newFakeTransfers() *fakeTransfers { return &fakeTransfers{rows: map[uuid.UUID]model.Transfer{}} }

func (f *fakeTransfers) Create(_ context.Context, t *model.Transfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.CreatedAt = f.clk.next()
	t.UpdatedAt = t.CreatedAt
	f.rows[t.ID] = *t
	return nil
}

func (f *fakeTransfers) GetByID(_ context.Context, id uuid.UUID) (*model.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTransfers) ListByListing(_ context.Context, listingID uuid.UUID) ([]model.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Transfer
	for _, t := range f.rows {
		if t.ListingID == listingID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (f *fakeTransfers) UpdateStatus(_ context.Context, id uuid.UUID, status model.TransferStatus, consent *string) (*model.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	t.Status = status
	t.ConsentPDFURL = consent
	t.UpdatedAt = f.clk.next()
	f.rows[id] = t
	return &t, nil
}

/************ wiring ************/

type harness struct {
	officers  *fakeOfficers
	sessions  *fakeSessions
	listings  *fakeListings
	interests *fakeInterests
	transfers *fakeTransfers

	cipher   *crypto.FieldCipher
	store    *SessionStoreImpl
	issuer   *JWTIssuer
	auth     *AuthServiceImpl
	listing  *ListingServiceImpl
	interest *InterestServiceImpl
	transfer *TransferServiceImpl
	officer  *OfficerServiceImpl
}

var testTokenConfig = TokenConfig{
	AccessSecret:  []byte("access-secret"),
	RefreshSecret: []byte("refresh-secret"),
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    7 * 24 * time.Hour,
}

func newHarness() *harness {
	h := &harness{
		officers:  newFakeOfficers(),
		sessions:  newFakeSessions(),
		listings:  newFakeListings(),
		interests: newFakeInterests(),
		transfers: newFakeTransfers(),
		cipher:    crypto.NewFieldCipher("change-this-key"),
	}
	h.store = NewSessionStore(h.sessions, testHasher, nil)
	h.issuer = NewJWTIssuer(testTokenConfig, h.store, testHasher)
	h.auth = NewAuthService(h.officers, h.store, h.issuer, testHasher, nil, nil)
	red := access.NewRedactor(h.cipher, nil)
	h.listing = NewListingService(h.listings, red)
	h.interest = NewInterestService(h.interests, h.listings)
	h.transfer = NewTransferService(h.transfers, h.listings, h.officers, h.cipher, red)
	h.officer = NewOfficerService(h.officers)
	return h
}
