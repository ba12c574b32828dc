package config

type Cors struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

func (c Cors) IsAllowedOrigin(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (c Cors) AllowedMethods() string {
	return "POST, OPTIONS"
}

func (c Cors) AllowedHeaders() string {
	return "Content-Type, X-Request-ID"
}
