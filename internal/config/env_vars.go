package config

import "fmt"

const devEnv = "DEV"

// EnvVars holds the settings that describe the running process rather than the portal.
type EnvVars struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"Group Access"`
	Env     string `env:"ENV" envDefault:"DEV"`
}

// Addr returns the listen address for the HTTP server.
func (e EnvVars) Addr() string {
	if e.Port != "" && e.Port[0] == ':' {
		return e.Port
	}
	return fmt.Sprintf(":%s", e.Port)
}

func (e EnvVars) IsDev() bool {
	return e.Env == devEnv
}
