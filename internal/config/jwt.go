package config

import (
	"cmp"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envJWTSecret     = "JWT_SECRET"
	envJWTIssuer     = "JWT_ISSUER"
	envJWTExpiration = "JWT_EXPIRATION_HOURS"
)

// DefaultJWTIssuer is the issuer stamped on and required of bearer tokens when JWT_ISSUER is unset.
const DefaultJWTIssuer = "form-autofill"

// DefaultTokenHours is how long an issued bearer token stays valid.
const DefaultTokenHours = 24

// JWTConfig signs and checks the HS256 bearer tokens issued by `autofill token`
// and accepted by the HTTP API. Tokens are not refreshed; a new one is issued instead.
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET (required), JWT_ISSUER and JWT_EXPIRATION_HOURS.
func NewJWTConfig() (*JWTConfig, error) {
	c := &JWTConfig{
		Secret:          os.Getenv(envJWTSecret),
		Issuer:          cmp.Or(os.Getenv(envJWTIssuer), DefaultJWTIssuer),
		ExpirationHours: DefaultTokenHours,
	}
	if v := os.Getenv(envJWTExpiration); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", envJWTExpiration, v, err)
		}
		c.ExpirationHours = hours
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that tokens can be signed and expire.
func (c *JWTConfig) Validate() error {
	switch {
	case c.Secret == "":
		return fmt.Errorf("%s is required but not set", envJWTSecret)
	case c.Issuer == "":
		return fmt.Errorf("token issuer cannot be empty")
	case c.ExpirationHours < 1:
		return fmt.Errorf("%s must be at least 1 hour, got: %d", envJWTExpiration, c.ExpirationHours)
	}
	return nil
}

// TokenTTL is the lifetime of an issued token.
func (c *JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
