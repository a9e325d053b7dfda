package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrEthical07/goGuard/identity"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCookie is returned for cookies that are malformed, tampered
	// with, or signed by an unknown secret.
	ErrInvalidCookie = errors.New("invalid session cookie")
	// ErrExpiredCookie is returned for correctly signed cookies past their exp.
	ErrExpiredCookie = errors.New("session cookie expired")
	// ErrCookieTooLarge is returned when the rendered Set-Cookie header exceeds
	// MaxHeaderSize, typically because a large user is embedded.
	ErrCookieTooLarge = errors.New("session cookie too large")
)

// Payload is the data carried inside the signed cookie value.
type Payload struct {
	SessionID string
	UserID    identity.UserID
	// User is only populated for cookie-only sessions.
	User      *identity.User
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	SID  string          `json:"sid"`
	UID  identity.UserID `json:"uid"`
	User *identity.User  `json:"usr,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs, verifies, and renders session cookies. It is safe for
// concurrent use.
type Codec struct {
	config Config
	now    func() time.Time
}

// Option configures a [Codec].
type Option func(*Codec)

// WithClock overrides the time source; intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec validates cfg and returns a codec.
func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	cfg.Secrets = append([]string(nil), cfg.Secrets...)

	c := &Codec{config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the configured cookie name.
func (c *Codec) Name() string {
	return c.config.Name
}

// MaxAge returns the effective cookie lifetime.
func (c *Codec) MaxAge() time.Duration {
	return c.config.MaxAge
}

// Encode signs p into a cookie value. Missing timestamps default to now and
// now+MaxAge.
func (c *Codec) Encode(p Payload) (string, error) {
	if p.SessionID == "" || p.UserID == "" {
		return "", errors.New("cookie payload requires session id and user id")
	}

	now := c.now()
	if p.IssuedAt.IsZero() {
		p.IssuedAt = now
	}
	if p.ExpiresAt.IsZero() {
		p.ExpiresAt = now.Add(c.config.MaxAge)
	}

	cl := claims{
		SID:  p.SessionID,
		UID:  p.UserID,
		User: p.User,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(p.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
			Issuer:    c.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	value, err := token.SignedString([]byte(c.config.Secrets[0]))
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return value, nil
}

// Decode verifies value against every configured secret in order.
func (c *Codec) Decode(value string) (*Payload, error) {
	if value == "" {
		return nil, ErrInvalidCookie
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}
	parser := jwt.NewParser(options...)

	for _, secret := range c.config.Secrets {
		key := []byte(secret)
		var cl claims
		_, err := parser.ParseWithClaims(value, &cl, func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
			}
			return key, nil
		})
		switch {
		case err == nil:
			return cl.payload()
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			continue
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredCookie
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidCookie, err)
		}
	}

	return nil, fmt.Errorf("%w: signature mismatch", ErrInvalidCookie)
}

func (cl *claims) payload() (*Payload, error) {
	if cl.SID == "" || cl.UID == "" {
		return nil, fmt.Errorf("%w: missing sid or uid", ErrInvalidCookie)
	}
	if cl.User != nil && cl.User.ID != cl.UID {
		return nil, fmt.Errorf("%w: embedded user does not match uid", ErrInvalidCookie)
	}

	p := &Payload{
		SessionID: cl.SID,
		UserID:    cl.UID,
		User:      cl.User,
	}
	if cl.IssuedAt != nil {
		p.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		p.ExpiresAt = cl.ExpiresAt.Time
	}
	return p, nil
}

// Serialize encodes p and renders it as a Set-Cookie header value.
func (c *Codec) Serialize(p Payload) (string, error) {
	now := c.now()
	if p.ExpiresAt.IsZero() {
		p.ExpiresAt = now.Add(c.config.MaxAge)
	}

	value, err := c.Encode(p)
	if err != nil {
		return "", err
	}

	maxAge := int(p.ExpiresAt.Sub(now) / time.Second)
	if maxAge <= 0 {
		maxAge = 1
	}

	header := c.cookie(value, maxAge, p.ExpiresAt).String()
	if len(header) > MaxHeaderSize {
		return "", fmt.Errorf("%w: %d bytes", ErrCookieTooLarge, len(header))
	}
	return header, nil
}

// Clear renders a Set-Cookie header value that deletes the cookie.
func (c *Codec) Clear() string {
	return c.cookie("", -1, time.Unix(0, 0)).String()
}

func (c *Codec) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     c.config.Name,
		Value:    value,
		Path:     c.config.Path,
		Domain:   c.config.Domain,
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		Secure:   c.config.Secure,
		HttpOnly: c.config.HTTPOnly,
		SameSite: c.config.SameSite,
	}
}

// Parse finds the session cookie in a raw Cookie request header and decodes
// it. It returns (nil, nil) when the cookie is absent.
func (c *Codec) Parse(cookieHeader string) (*Payload, error) {
	if cookieHeader == "" {
		return nil, nil
	}
	r := &http.Request{Header: http.Header{"Cookie": {cookieHeader}}}
	return c.ParseRequest(r)
}

// ParseRequest is Parse for an incoming request.
func (c *Codec) ParseRequest(r *http.Request) (*Payload, error) {
	if r == nil {
		return nil, nil
	}
	ck, err := r.Cookie(c.config.Name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}
	if ck.Value == "" {
		return nil, nil
	}
	return c.Decode(ck.Value)
}
