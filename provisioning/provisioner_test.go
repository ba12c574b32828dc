package provisioning_test

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/internal/utils"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/jrsteele09/portal-group-access/portal/portalfake"
	"github.com/jrsteele09/portal-group-access/provisioning"
	"github.com/stretchr/testify/require"
)

var (
	testUser = provisioning.NewUser{
		Username:   "newbie",
		Password:   "S3cret!pw",
		GivenName:  "New",
		FamilyName: "Bie",
		Email:      "newbie@example.com",
	}
	testEntitlements = provisioning.Entitlements{
		RoleID:    "iAAAAAAAAA",
		LicenseID: "creatorUT",
		GroupID:   "grp1",
	}
)

func setup(t *testing.T) (*portalfake.FakePortal, *portal.Client) {
	t.Helper()
	fake := portalfake.New()
	t.Cleanup(fake.Close)
	return fake, portal.New(fake.URL(), "https://app.example.com/callback", 5*time.Second)
}

func TestNewSelectsStrategyFromPortalURL(t *testing.T) {
	cloud := portal.New("https://myorg.maps.arcgis.com", "", time.Second)
	require.Equal(t, "multi_tenant", provisioning.New(cloud).Strategy().Name())

	enterprise := portal.New("https://gis.example.com/portal", "", time.Second)
	require.Equal(t, "single_tenant", provisioning.New(enterprise).Strategy().Name())
}

func TestMultiTenantProvision(t *testing.T) {
	fake, client := setup(t)
	p := provisioning.NewWithStrategy(client, provisioning.NewMultiTenantStrategy(client))

	user, err := p.Provision(context.Background(), fake.ManagerToken, testUser, testEntitlements)
	require.NoError(t, err)
	require.True(t, user.OK)
	require.Equal(t, "newbie", user.Username)

	require.Len(t, fake.InvitedUsers, 1)
	inv := fake.InvitedUsers[0]
	require.Equal(t, "New Bie", inv.Fullname)
	require.Equal(t, "creatorUT", inv.UserLicenseType)
	require.Equal(t, "grp1", inv.Groups)
	require.Equal(t, "arcgisonly", inv.UserType)
	require.Equal(t, float64(provisioning.UnassignedCredits), inv.UserCreditAssignment)
}

func TestMultiTenantUsesDefaultCredits(t *testing.T) {
	fake, client := setup(t)
	fake.DefaultCredits = utils.Ptr(250.0)
	p := provisioning.NewWithStrategy(client, provisioning.NewMultiTenantStrategy(client))

	_, err := p.Provision(context.Background(), fake.ManagerToken, testUser, testEntitlements)
	require.NoError(t, err)
	require.Equal(t, 250.0, fake.InvitedUsers[0].UserCreditAssignment)
}

func TestMultiTenantUsernameTaken(t *testing.T) {
	fake, client := setup(t)
	fake.ExistingUsers["newbie"] = true
	p := provisioning.NewWithStrategy(client, provisioning.NewMultiTenantStrategy(client))

	user, err := p.Provision(context.Background(), fake.ManagerToken, testUser, testEntitlements)
	require.Error(t, err)
	require.False(t, user.OK)
	require.Equal(t, "Username may already exist.", user.Message)
	require.Equal(t, apperrors.KindProvisioning, apperrors.KindOf(err))
}

func TestMultiTenantErrorObject(t *testing.T) {
	fake, client := setup(t)
	fake.ProvisionError = "Password must contain at least one number."
	p := provisioning.NewWithStrategy(client, provisioning.NewMultiTenantStrategy(client))

	user, err := p.Provision(context.Background(), fake.ManagerToken, testUser, testEntitlements)
	require.Error(t, err)
	require.Equal(t, "Password must contain at least one number.", user.Message)
}

func TestSingleTenantProvision(t *testing.T) {
	fake, client := setup(t)
	p := provisioning.New(client)
	require.Equal(t, "single_tenant", p.Strategy().Name())

	user, err := p.Provision(context.Background(), fake.ManagerToken, testUser, testEntitlements)
	require.NoError(t, err)
	require.True(t, user.OK)
	require.Equal(t, []string{"newbie"}, fake.CreatedUsers)
	require.True(t, fake.Called("createUser"))
	require.False(t, fake.Called("portalInvite"))
}

func TestSingleTenantErrorObject(t *testing.T) {
	fake, client := setup(t)
	fake.ExistingUsers["newbie"] = true

	user, err := provisioning.New(client).Provision(context.Background(), fake.ManagerToken, testUser, testEntitlements)
	require.Error(t, err)
	require.False(t, user.OK)
	require.Equal(t, "A user with the username 'newbie' already exists.", user.Message)
}

func TestProvisionBadManagerToken(t *testing.T) {
	fake, client := setup(t)

	_, err := provisioning.New(client).Provision(context.Background(), "bogus", testUser, testEntitlements)
	require.Error(t, err)
	require.Empty(t, fake.CreatedUsers)
	require.False(t, fake.Called("createUser"))
}
