// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is an officer's clearance level.
type Role string

const (
	RoleOfficer   Role = "OFFICER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOfficer, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Officer is a registered identity. The service number is stored only as a hash.
type Officer struct {
	ID                uuid.UUID
	OfficialEmail     string // lower-cased, unique, immutable
	ServiceNumberHash string // PHC-encoded Argon2id
	FullName          string
	Rank              string
	Station           string
	Role              Role
	Phone             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicOfficer is an Officer without its credential hash.
type PublicOfficer struct {
	ID            uuid.UUID
	OfficialEmail string
	FullName      string
	Rank          string
	Station       string
	Role          Role
	Phone         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Public strips the credential hash.
func (o Officer) Public() PublicOfficer {
	return PublicOfficer{
		ID:            o.ID,
		OfficialEmail: o.OfficialEmail,
		FullName:      o.FullName,
		Rank:          o.Rank,
		Station:       o.Station,
		Role:          o.Role,
		Phone:         o.Phone,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// Viewer is the authenticated caller of a request. A nil *Viewer is anonymous.
type Viewer struct {
	ID   uuid.UUID
	Role Role
}

// ClientMeta is optional request metadata attached to a session.
type ClientMeta struct {
	IP        string
	UserAgent string
}

// Session is one issued, not yet consumed refresh token.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string // PHC-encoded Argon2id of the raw refresh token
	ExpiresAt time.Time
	IP        *string
	UserAgent *string
	CreatedAt time.Time
}

// TokenPair is returned to clients and never persisted as a whole.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        int64 // access token TTL, seconds
	RefreshExpiresIn int64 // refresh token TTL, seconds
}

// Claims is the verified payload of an access or refresh token.
type Claims struct {
	Subject       uuid.UUID
	Role          Role
	OfficialEmail string
	ExpiresAt     time.Time
}

// Verification is the result of a successful credential check.
type Verification struct {
	Status    string
	OfficerID uuid.UUID
}

// RentCycle is the billing period of a listing.
type RentCycle string

const (
	RentMonthly   RentCycle = "monthly"
	RentQuarterly RentCycle = "quarterly"
	RentYearly    RentCycle = "yearly"
)

// ListingStatus is the publication state of a listing.
type ListingStatus string

const (
	ListingDraft     ListingStatus = "draft"
	ListingPublished ListingStatus = "published"
	ListingArchived  ListingStatus = "archived"
)

// Listing is a housing unit offered for handover.
type Listing struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Title           string
	City            string
	State           string
	Base            string
	GeoArea         *string
	RentAmount      float64
	RentCurrency    string
	RentCycle       RentCycle
	DepositAmount   *float64
	Bedrooms        int
	Bathrooms       int
	Furnished       bool
	Amenities       []string
	ExactAddressEnc string // base64 encoding, not encryption
	AvailableFrom   time.Time
	NextRentDue     *time.Time
	Photos          []string
	Status          ListingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListingView is a Listing as shown to a specific viewer.
type ListingView struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Title         string
	City          string
	State         string
	Base          string
	GeoArea       *string
	RentAmount    float64
	RentCurrency  string
	RentCycle     RentCycle
	DepositAmount *float64
	Bedrooms      int
	Bathrooms     int
	Furnished     bool
	Amenities     []string
	ExactAddress  string // plaintext or a sentinel
	AvailableFrom time.Time
	NextRentDue   *time.Time
	Photos        []string
	Status        ListingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InterestStatus is the state of an expression of interest.
type InterestStatus string

const (
	InterestPending  InterestStatus = "pending"
	InterestAccepted InterestStatus = "accepted"
	InterestDeclined InterestStatus = "declined"
)

// Interest records an officer's interest in someone else's listing.
type Interest struct {
	ID                  uuid.UUID
	ListingID           uuid.UUID
	InterestedOfficerID uuid.UUID
	Message             string
	Status              InterestStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TransferStatus is the state of an ownership transfer.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferApproved  TransferStatus = "approved"
	TransferRejected  TransferStatus = "rejected"
	TransferCompleted TransferStatus = "completed"
)

// Transfer hands a listing over from one officer to another.
type Transfer struct {
	ID             uuid.UUID
	ListingID      uuid.UUID
	FromOfficerID  uuid.UUID
	ToOfficerID    uuid.UUID
	ProposedMoveIn time.Time
	EffectiveDate  *time.Time
	ConsentPDFURL  *string // sealed blob
	Status         TransferStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TransferView is a Transfer with its consent reference opened or masked.
type TransferView struct {
	ID             uuid.UUID
	ListingID      uuid.UUID
	FromOfficerID  uuid.UUID
	ToOfficerID    uuid.UUID
	ProposedMoveIn time.Time
	EffectiveDate  *time.Time
	ConsentPDFURL  *string // plaintext or a sentinel; nil when never set
	Status         TransferStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
