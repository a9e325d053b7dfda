package goGuard

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/goGuard/session"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every variable read by LoadOptionsFromEnv.
const EnvPrefix = "GOGUARD_"

// SameSite is an http.SameSite that parses lax, strict, none and default.
type SameSite http.SameSite

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SameSite) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "default":
		*s = SameSite(http.SameSiteDefaultMode)
	case "lax":
		*s = SameSite(http.SameSiteLaxMode)
	case "strict":
		*s = SameSite(http.SameSiteStrictMode)
	case "none":
		*s = SameSite(http.SameSiteNoneMode)
	default:
		return fmt.Errorf("unknown same-site mode %q", text)
	}
	return nil
}

// EnvOptions is the environment form of [Options]. Adapters and catalogs are
// not expressible as variables and must be supplied programmatically.
type EnvOptions struct {
	Strategy session.Strategy `env:"STRATEGY"`

	CookieName     string        `env:"COOKIE_NAME" envDefault:"goguard_session"`
	CookieSecrets  []string      `env:"COOKIE_SECRETS,required,notEmpty" envSeparator:","`
	CookiePath     string        `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string        `env:"COOKIE_DOMAIN"`
	CookieMaxAge   time.Duration `env:"COOKIE_MAX_AGE" envDefault:"24h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CookieSameSite SameSite      `env:"COOKIE_SAME_SITE" envDefault:"lax"`
	CookieIssuer   string        `env:"COOKIE_ISSUER"`

	SessionTTL          time.Duration `env:"SESSION_TTL"`
	SlidingExpiration   bool          `env:"SLIDING_EXPIRATION"`
	EnableSingleSession bool          `env:"SINGLE_SESSION"`

	LoginPath       string `env:"LOGIN_PATH" envDefault:"/login"`
	ReturnToParam   string `env:"RETURN_TO_PARAM" envDefault:"redirectTo"`
	DefaultRedirect string `env:"DEFAULT_REDIRECT" envDefault:"/"`

	MetricsEnabled    bool `env:"METRICS_ENABLED"`
	LatencyHistograms bool `env:"METRICS_LATENCY_HISTOGRAMS"`
	AuditEnabled      bool `env:"AUDIT_ENABLED"`
	AuditBufferSize   int  `env:"AUDIT_BUFFER_SIZE" envDefault:"1024"`
	AuditDropIfFull   bool `env:"AUDIT_DROP_IF_FULL" envDefault:"true"`
}

// Options converts the environment form into Options. The result is not
// validated.
func (e EnvOptions) Options() Options {
	opts := DefaultOptions()
	opts.Strategy = e.Strategy

	opts.Cookie.Name = e.CookieName
	opts.Cookie.Secrets = e.CookieSecrets
	opts.Cookie.Path = e.CookiePath
	opts.Cookie.Domain = e.CookieDomain
	opts.Cookie.MaxAge = e.CookieMaxAge
	opts.Cookie.Secure = e.CookieSecure
	opts.Cookie.SameSite = http.SameSite(e.CookieSameSite)
	opts.Cookie.Issuer = e.CookieIssuer

	opts.SessionTTL = e.SessionTTL
	opts.SlidingExpiration = e.SlidingExpiration
	opts.EnableSingleSession = e.EnableSingleSession

	opts.LoginPath = e.LoginPath
	opts.ReturnToParam = e.ReturnToParam
	opts.DefaultRedirect = e.DefaultRedirect

	opts.Metrics = MetricsConfig{Enabled: e.MetricsEnabled, EnableLatencyHistograms: e.LatencyHistograms}
	opts.Audit = AuditConfig{Enabled: e.AuditEnabled, BufferSize: e.AuditBufferSize, DropIfFull: e.AuditDropIfFull}
	return opts
}

// LoadOptionsFromEnv reads GOGUARD_* variables, for example
// GOGUARD_STRATEGY=in-memory and GOGUARD_COOKIE_SECRETS=new,old. Loading a
// .env file first is left to the host.
func LoadOptionsFromEnv() (Options, error) {
	var e EnvOptions
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix}); err != nil {
		return Options{}, fmt.Errorf("%w: parse environment: %v", ErrInvalidConfig, err)
	}
	return e.Options(), nil
}
