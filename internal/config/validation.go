package config

import (
	"fmt"
	"strings"
)

// ValidateURL checks that a configured URL is absolute http(s) without a fragment.
func ValidateURL(name, uri string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return fmt.Errorf("%s is required", name)
	}

	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		return fmt.Errorf("%s must use http or https scheme", name)
	}

	if strings.Contains(uri, "#") {
		return fmt.Errorf("%s must not contain fragments", name)
	}

	return nil
}

func (p Portal) validate() error {
	if err := ValidateURL("PORTAL_URL", p.URL); err != nil {
		return err
	}
	if err := ValidateURL("CALLBACK_URL", p.CallbackURL); err != nil {
		return err
	}
	if p.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}
