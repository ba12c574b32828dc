package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/portal-group-access/internal/config"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORTAL_URL", "https://example.maps.arcgis.com/")
	t.Setenv("MGR_USER", "manager")
	t.Setenv("MGR_PWORD", "secret")
	t.Setenv("CONFIG_LAYER_ID", "layer-1")
	t.Setenv("CLIENT_ID", "client-1")
	t.Setenv("CALLBACK_URL", "https://app.example.com/callback")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	c, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://example.maps.arcgis.com", c.Portal.URL)
	require.Equal(t, ":8080", c.Addr())
	require.True(t, c.IsDev())
	require.Equal(t, 10*time.Second, c.UpstreamTimeout)
	require.Equal(t, 60, c.ManagerTokenExpiration)
	require.True(t, c.IsAllowedOrigin("https://b.example.com"))
	require.False(t, c.IsAllowedOrigin("https://c.example.com"))
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLIENT_ID", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestAddrKeepsColonPrefix(t *testing.T) {
	e := config.EnvVars{Port: ":9000"}
	require.Equal(t, ":9000", e.Addr())
}

func TestLoadRejectsBadURLs(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"portal without scheme", "PORTAL_URL", "example.maps.arcgis.com"},
		{"callback with fragment", "CALLBACK_URL", "https://app.example.com/callback#done"},
		{"callback ftp", "CALLBACK_URL", "ftp://app.example.com/callback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			require.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidateURL(t *testing.T) {
	require.NoError(t, config.ValidateURL("X", "http://localhost:8080"))
	require.ErrorContains(t, config.ValidateURL("X", " "), "X is required")
}
