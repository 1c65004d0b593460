package access

import (
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
)

func TestIsAllowed(t *testing.T) {
	cases := []struct {
		role model.Role
		op   Operation
		want bool
	}{
		{model.RoleOfficer, OpCreateListing, true},
		{model.RoleOfficer, OpUpdateTransferStatus, true},
		{model.RoleOfficer, OpListOfficers, false},
		{model.RoleOfficer, OpOverseeListing, false},
		{model.RoleModerator, OpListOfficers, true},
		{model.RoleModerator, OpOverseeListing, true},
		{model.RoleAdmin, OpListOfficers, true},
		{model.RoleAdmin, OpCreateInterest, true},
		{model.Role("CAPTAIN"), OpCreateListing, false},
		{model.RoleAdmin, Operation("unknown"), false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, IsAllowed(c.role, c.op), "%s %s", c.role, c.op)
	}
}

func TestRequire(t *testing.T) {
	require.ErrorIs(t, Require(nil, OpCreateListing), errs.ErrUnauthenticated)

	off := &model.Viewer{ID: uuid.Must(uuid.NewV4()), Role: model.RoleOfficer}
	require.NoError(t, Require(off, OpCreateListing))

	err := Require(off, OpListOfficers)
	require.ErrorIs(t, err, errs.ErrForbidden)
	require.EqualError(t, err, "clearance denied")
}

func TestCanRevealProtectedField(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	other := uuid.Must(uuid.NewV4())

	require.False(t, CanRevealProtectedField(nil, owner))
	require.True(t, CanRevealProtectedField(&model.Viewer{ID: owner, Role: model.RoleOfficer}, owner))
	require.False(t, CanRevealProtectedField(&model.Viewer{ID: other, Role: model.RoleOfficer}, owner))
	require.True(t, CanRevealProtectedField(&model.Viewer{ID: other, Role: model.RoleModerator}, owner))
	require.True(t, CanRevealProtectedField(&model.Viewer{ID: other, Role: model.RoleAdmin}, owner))
}

func TestOwnsOrOversees(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	require.False(t, OwnsOrOversees(nil, owner))
	require.True(t, OwnsOrOversees(&model.Viewer{ID: owner, Role: model.RoleOfficer}, owner))
	require.False(t, OwnsOrOversees(&model.Viewer{ID: uuid.Must(uuid.NewV4()), Role: model.RoleOfficer}, owner))
	require.True(t, OwnsOrOversees(&model.Viewer{ID: uuid.Must(uuid.NewV4()), Role: model.RoleAdmin}, owner))
}
