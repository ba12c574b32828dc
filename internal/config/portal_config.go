package config

import "time"

// Portal describes the portal being administered and the credentials used against it.
type Portal struct {
	URL             string `env:"PORTAL_URL,required,notEmpty"`
	ManagerUsername string `env:"MGR_USER,required,notEmpty"`
	ManagerPassword string `env:"MGR_PWORD,required,notEmpty"`
	ConfigLayerID   string `env:"CONFIG_LAYER_ID,required,notEmpty"`
	ClientID        string `env:"CLIENT_ID,required,notEmpty"`

	// CallbackURL is the OAuth redirect URI. It doubles as the referer for manager requests.
	CallbackURL string `env:"CALLBACK_URL,required,notEmpty"`

	UpstreamTimeout        time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	ManagerTokenExpiration int           `env:"MANAGER_TOKEN_EXPIRATION" envDefault:"60"` // minutes
}
