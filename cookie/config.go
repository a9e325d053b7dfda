package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultName is the cookie name used when none is configured.
	DefaultName = "goguard_session"
	// DefaultMaxAge is the cookie lifetime used when MaxAge is zero.
	DefaultMaxAge = 24 * time.Hour
	// MaxHeaderSize is the largest Set-Cookie value browsers reliably accept.
	MaxHeaderSize = 4096
)

// Config controls how the session cookie is signed and emitted.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	// Name of the cookie. Required.
	Name string
	// Secrets sign and verify the cookie. Secrets[0] signs new cookies;
	// every entry is tried on verification so secrets can be rotated by
	// prepending a new one.
	Secrets []string
	Path    string
	Domain  string
	// MaxAge bounds the cookie lifetime. Zero uses DefaultMaxAge.
	MaxAge   time.Duration
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
	// Issuer, when set, is written to and required in the iss claim.
	Issuer string
}

// DefaultConfig returns hardened cookie defaults. Secrets must still be set.
func DefaultConfig() Config {
	return Config{
		Name:     DefaultName,
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		Secure:   true,
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("cookie name is required")
	}
	if err := (&http.Cookie{Name: c.Name, Value: "x"}).Valid(); err != nil {
		return fmt.Errorf("invalid cookie name: %w", err)
	}
	if len(c.Secrets) == 0 {
		return errors.New("at least one cookie secret is required")
	}
	for _, s := range c.Secrets {
		if s == "" {
			return errors.New("cookie secrets must be non-empty")
		}
	}
	if c.MaxAge < 0 {
		return errors.New("cookie MaxAge must be >= 0")
	}
	if c.SameSite == http.SameSiteNoneMode && !c.Secure {
		return errors.New("SameSite=None requires Secure")
	}
	return nil
}
