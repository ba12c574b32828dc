package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the process-wide configuration. It is read once at start up and
// passed by value into every component that needs it.
type Config struct {
	EnvVars
	Portal
	Cors
}

// Load parses the configuration from the process environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("[config Load] parse env: %w", err)
	}
	c.Portal.URL = strings.TrimRight(c.Portal.URL, "/")
	if err := c.Portal.validate(); err != nil {
		return Config{}, fmt.Errorf("[config Load] %w", err)
	}
	return c, nil
}
