package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/nhh/internal/access"
	"github.com/and161185/nhh/internal/crypto"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/repository"
)

type seedOfficer struct {
	email, serviceNumber, name, rank, station string
	role                                      model.Role
}

var seedOfficers = []seedOfficer{
	{"admin@navy.mil.ng", "ADM001", "Admin Officer", "Commodore", "Naval HQ Abuja", model.RoleAdmin},
	{"moderator@navy.mil.ng", "MOD001", "Moderator Officer", "Captain", "Western Naval Command", model.RoleModerator},
	{"officer@navy.mil.ng", "OFF001", "Demo Officer", "Lieutenant", "NNS Beecroft", model.RoleOfficer},
}

// Seeder loads demo identities and one published listing. It is idempotent:
// existing officers are reused and the listing is only created for a fresh officer.
type Seeder struct {
	officers repository.OfficerRepository
	listings repository.ListingRepository
	hasher   crypto.Hasher
	log      *zap.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(officers repository.OfficerRepository, listings repository.ListingRepository, hasher crypto.Hasher, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{officers: officers, listings: listings, hasher: hasher, log: log}
}

// Seed creates whatever is missing.
func (s *Seeder) Seed(ctx context.Context) error {
	var demo *model.Officer
	created := false
	for _, so := range seedOfficers {
		o, fresh, err := s.ensureOfficer(ctx, so)
		if err != nil {
			return err
		}
		if so.role == model.RoleOfficer {
			demo, created = o, fresh
		}
	}
	if !created {
		return nil
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	area := "Victoria Island"
	deposit := 500000.0
	l := &model.Listing{
		ID:              id,
		OwnerID:         demo.ID,
		Title:           "Two-bedroom flat near NNS Beecroft",
		City:            "Lagos",
		State:           "Lagos",
		Base:            "NNS Beecroft",
		GeoArea:         &area,
		RentAmount:      2500000,
		RentCurrency:    "NGN",
		RentCycle:       model.RentYearly,
		DepositAmount:   &deposit,
		Bedrooms:        2,
		Bathrooms:       2,
		Furnished:       true,
		Amenities:       []string{"generator", "water", "parking"},
		ExactAddressEnc: access.EncodeAddress("12 Marina Close, Victoria Island"),
		AvailableFrom:   time.Now().UTC().AddDate(0, 1, 0),
		Photos:          []string{},
		Status:          model.ListingPublished,
	}
	if err := s.listings.Create(ctx, l); err != nil {
		return err
	}
	s.log.Info("seeded listing", zap.String("listing_id", l.ID.String()))
	return nil
}

func (s *Seeder) ensureOfficer(ctx context.Context, so seedOfficer) (*model.Officer, bool, error) {
	o, err := s.officers.GetByEmail(ctx, so.email)
	if err == nil {
		return o, false, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, false, err
	}
	hash, err := s.hasher.Hash(so.serviceNumber)
	if err != nil {
		return nil, false, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, false, err
	}
	o = &model.Officer{
		ID:                id,
		OfficialEmail:     so.email,
		ServiceNumberHash: hash,
		FullName:          so.name,
		Rank:              so.rank,
		Station:           so.station,
		Role:              so.role,
	}
	if err := s.officers.Create(ctx, o); err != nil {
		return nil, false, err
	}
	s.log.Info("seeded officer", zap.String("email", so.email), zap.String("role", string(so.role)))
	return o, true, nil
}
