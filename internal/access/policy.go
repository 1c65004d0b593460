// Package access decides who may do what and what each viewer is allowed to see.
package access

import (
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
)

// Operation names a mutating or privileged action.
type Operation string

const (
	OpCreateListing        Operation = "listing.create"
	OpUpdateListingStatus  Operation = "listing.update_status"
	OpCreateInterest       Operation = "interest.create"
	OpUpdateInterestStatus Operation = "interest.update_status"
	OpCreateTransfer       Operation = "transfer.create"
	OpUpdateTransferStatus Operation = "transfer.update_status"
	OpListOfficers         Operation = "officer.list"
	// OpOverseeListing lets command act on listings owned by someone else.
	OpOverseeListing Operation = "listing.oversee"
)

var everyone = []model.Role{model.RoleOfficer, model.RoleModerator, model.RoleAdmin}
var command = []model.Role{model.RoleModerator, model.RoleAdmin}

var capabilities = map[Operation][]model.Role{
	OpCreateListing:        everyone,
	OpUpdateListingStatus:  everyone,
	OpCreateInterest:       everyone,
	OpUpdateInterestStatus: everyone,
	OpCreateTransfer:       everyone,
	OpUpdateTransferStatus: everyone,
	OpListOfficers:         command,
	OpOverseeListing:       command,
}

// IsAllowed reports whether role may perform op. Unknown roles and operations are denied.
func IsAllowed(role model.Role, op Operation) bool {
	for _, r := range capabilities[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns errs.ErrUnauthenticated for an anonymous viewer and
// errs.ErrForbidden when the viewer's role lacks op.
func Require(v *model.Viewer, op Operation) error {
	if v == nil {
		return errs.ErrUnauthenticated
	}
	if !IsAllowed(v.Role, op) {
		return errs.ErrForbidden
	}
	return nil
}

// IsCommand reports whether role belongs to the moderation chain.
func IsCommand(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleModerator
}

// CanRevealProtectedField reports whether v may see a protected field of a record owned by ownerID.
func CanRevealProtectedField(v *model.Viewer, ownerID uuid.UUID) bool {
	if v == nil {
		return false
	}
	return IsCommand(v.Role) || v.ID == ownerID
}

// OwnsOrOversees reports whether v owns the record or may oversee it.
func OwnsOrOversees(v *model.Viewer, ownerID uuid.UUID) bool {
	return v != nil && (v.ID == ownerID || IsAllowed(v.Role, OpOverseeListing))
}
