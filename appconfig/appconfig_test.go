package appconfig_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/portal-group-access/appconfig"
	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/jrsteele09/portal-group-access/portal/portalfake"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*portalfake.FakePortal, *appconfig.Resolver) {
	t.Helper()
	fake := portalfake.New()
	t.Cleanup(fake.Close)
	client := portal.New(fake.URL(), "https://app.example.com/callback", 5*time.Second)
	return fake, appconfig.NewResolver(client, fake.ConfigItemID)
}

func TestResolve(t *testing.T) {
	fake, r := setup(t)
	fake.SetConfigRecord("g1", map[string]any{
		"OBJECTID":        1,
		"group_id":        "grp1",
		"user_license_id": "creatorUT",
		"user_role_id":    "iAAAAAAAAA",
		"redirect_uri":    "https://app",
	})

	cfg, err := r.Resolve(context.Background(), "g1", fake.ManagerToken)
	require.NoError(t, err)
	require.Equal(t, "grp1", cfg.GroupID)
	require.Equal(t, "creatorUT", cfg.UserLicenseID)
	require.Equal(t, "iAAAAAAAAA", cfg.UserRoleID)
	require.Equal(t, "https://app", cfg.RedirectURI)
	require.True(t, cfg.SignupEnabled())
	require.NoError(t, cfg.Require(appconfig.FieldGroupID, appconfig.FieldUserLicenseID, appconfig.FieldUserRoleID, appconfig.FieldRedirectURI))
}

func TestResolveNoMatchingRecord(t *testing.T) {
	fake, r := setup(t)

	_, err := r.Resolve(context.Background(), "missing", fake.ManagerToken)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrNoMatchingRecord))
	require.Equal(t, apperrors.KindConfig, apperrors.KindOf(err))
	require.Equal(t, 500, apperrors.StatusCode(err))
	require.Contains(t, apperrors.UserMessage(err), "Couldn't get")
}

func TestResolveEmptyGlobalIDSkipsQuery(t *testing.T) {
	fake, r := setup(t)

	_, err := r.Resolve(context.Background(), "", fake.ManagerToken)
	require.True(t, apperrors.Is(err, apperrors.ErrNoMatchingRecord))
	require.False(t, fake.Called("query"))
}

func TestResolveQuotesGlobalID(t *testing.T) {
	fake, r := setup(t)
	fake.SetConfigRecord("a'b", map[string]any{"group_id": "grp-quoted", "redirect_uri": "https://app"})

	cfg, err := r.Resolve(context.Background(), "a'b", fake.ManagerToken)
	require.NoError(t, err)
	require.Equal(t, "grp-quoted", cfg.GroupID)
	require.Equal(t, "GlobalID = 'x'' OR ''1''=''1'", appconfig.GlobalIDWhere("x' OR '1'='1"))
}

func TestResolveBadToken(t *testing.T) {
	_, r := setup(t)

	_, err := r.Resolve(context.Background(), "g1", "bogus")
	require.Equal(t, apperrors.KindConfig, apperrors.KindOf(err))
}

func TestRequire(t *testing.T) {
	fake, r := setup(t)
	fake.SetConfigRecord("g1", map[string]any{
		"group_id":        "grp1",
		"redirect_uri":    "",
		"user_license_id": nil,
	})

	cfg, err := r.Resolve(context.Background(), "g1", fake.ManagerToken)
	require.NoError(t, err)

	err = cfg.Require(appconfig.FieldGroupID, appconfig.FieldRedirectURI)
	require.Error(t, err)
	require.Equal(t, "Couldn't get redirect_uri. Field is missing from config table.", apperrors.UserMessage(err))
	require.True(t, apperrors.Is(err, apperrors.ErrMissingField))

	require.NoError(t, cfg.RequirePresent(appconfig.FieldUserLicenseID))
	err = cfg.RequirePresent(appconfig.FieldUserRoleID)
	require.Equal(t, "Couldn't get user_role_id. Field is missing from config table.", apperrors.UserMessage(err))
	require.False(t, cfg.SignupEnabled())
}
