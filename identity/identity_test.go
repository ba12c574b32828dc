package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/portal-group-access/identity"
	"github.com/jrsteele09/portal-group-access/internal/config"
	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/jrsteele09/portal-group-access/portal/portalfake"
	"github.com/stretchr/testify/require"
)

const testCallbackURL = "https://app.example.com/callback"

func setup(t *testing.T) (*portalfake.FakePortal, *portal.Client, config.Portal) {
	t.Helper()
	fake := portalfake.New()
	t.Cleanup(fake.Close)

	cfg := config.Portal{
		URL:                    fake.URL(),
		ManagerUsername:        fake.ManagerUsername,
		ManagerPassword:        fake.ManagerPassword,
		ClientID:               fake.ClientID,
		CallbackURL:            testCallbackURL,
		ManagerTokenExpiration: 60,
	}
	return fake, portal.New(cfg.URL, cfg.CallbackURL, 5*time.Second), cfg
}

func TestAcquireUserToken(t *testing.T) {
	fake, client, cfg := setup(t)
	want := fake.AddUser("jdoe", "org-main", "abc", "v")

	token, err := identity.NewAcquirer(client, cfg).AcquireUserToken(context.Background(), "abc", "v")
	require.NoError(t, err)
	require.Equal(t, want, token)
}

func TestAcquireUserTokenWrongVerifier(t *testing.T) {
	fake, client, cfg := setup(t)
	fake.AddUser("jdoe", "org-main", "abc", "v")

	_, err := identity.NewAcquirer(client, cfg).AcquireUserToken(context.Background(), "abc", "other")
	require.Error(t, err)
	require.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
	require.Equal(t, "Could not obtain user token", apperrors.UserMessage(err))
}

func TestAcquireManagerToken(t *testing.T) {
	fake, client, cfg := setup(t)

	token, err := identity.NewAcquirer(client, cfg).AcquireManagerToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, fake.ManagerToken, token)
}

func TestAcquireManagerTokenBadCredentials(t *testing.T) {
	_, client, cfg := setup(t)
	cfg.ManagerPassword = "wrong"

	_, err := identity.NewAcquirer(client, cfg).AcquireManagerToken(context.Background())
	require.Error(t, err)
	require.Equal(t, "Could not obtain admin token", apperrors.UserMessage(err))
}

func TestAcquireBoth(t *testing.T) {
	fake, client, cfg := setup(t)
	userWant := fake.AddUser("jdoe", "org-main", "abc", "v")

	userToken, mgrToken, err := identity.NewAcquirer(client, cfg).AcquireBoth(context.Background(), "abc", "v")
	require.NoError(t, err)
	require.Equal(t, userWant, userToken)
	require.Equal(t, fake.ManagerToken, mgrToken)
}

func TestAcquireBothReportsManagerFailure(t *testing.T) {
	fake, client, cfg := setup(t)
	fake.AddUser("jdoe", "org-main", "abc", "v")
	cfg.ManagerPassword = "wrong"

	_, _, err := identity.NewAcquirer(client, cfg).AcquireBoth(context.Background(), "abc", "v")
	require.Equal(t, "Could not obtain admin token", apperrors.UserMessage(err))
}

func TestClassifier(t *testing.T) {
	fake, client, _ := setup(t)
	userToken := fake.AddUser("jdoe", "org-other", "abc", "v")
	c := identity.NewClassifier(client)
	ctx := context.Background()

	require.Equal(t, "org-main", c.OrgID(ctx, fake.ManagerToken))
	require.Equal(t, "org-other", c.OrgID(ctx, userToken))
	require.Equal(t, "", c.OrgID(ctx, "bogus"))

	username, err := c.Username(ctx, userToken)
	require.NoError(t, err)
	require.Equal(t, "jdoe", username)

	_, err = c.Username(ctx, "bogus")
	require.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestCrossOrg(t *testing.T) {
	tests := []struct {
		groupOrg, userOrg string
		want              bool
	}{
		{"org-1", "org-1", false},
		{"org-1", "org-2", true},
		{"org-1", "", true},
		{"", "org-1", true},
		{"", "", true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, identity.CrossOrg(tt.groupOrg, tt.userOrg), "%q vs %q", tt.groupOrg, tt.userOrg)
	}
}
