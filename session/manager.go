package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/MrEthical07/goGuard/adapter"
	"github.com/MrEthical07/goGuard/cookie"
	"github.com/MrEthical07/goGuard/identity"
	"github.com/google/uuid"
)

// Config configures a [Manager].
type Config struct {
	Strategy Strategy
	// Adapter is required for StrategyCustomAdapter and ignored by the
	// cookie strategies. StrategyInMemory builds its own when nil.
	Adapter adapter.Adapter
	// EnableSingleSession invalidates older sessions of a user on each new
	// login. Requires StrategyCustomAdapter and an adapter implementing
	// adapter.SessionBinder.
	EnableSingleSession bool
	Codec               *cookie.Codec
	// TTL is the session lifetime. Zero uses the codec's MaxAge.
	TTL time.Duration
	// Sliding re-issues the cookie and resets adapter expiration on every
	// successful resolve.
	Sliding bool
	Logger  *slog.Logger
	Now     func() time.Time
	NewID   func() string
}

// Manager creates, resolves, and destroys sessions under one strategy. The
// strategy is dispatched once at construction. A Manager is safe for
// concurrent use when its adapter is.
type Manager struct {
	strategy Strategy
	adapter  adapter.Adapter
	binder   adapter.SessionBinder
	codec    *cookie.Codec
	ttl      time.Duration
	sliding  bool
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewManager validates cfg and resolves the storage backend.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Codec == nil {
		return nil, ErrNilCodec
	}

	m := &Manager{
		strategy: cfg.Strategy,
		codec:    cfg.Codec,
		ttl:      cfg.TTL,
		sliding:  cfg.Sliding,
		logger:   cfg.Logger,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}
	if m.ttl <= 0 {
		m.ttl = cfg.Codec.MaxAge()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}

	switch cfg.Strategy {
	case StrategyDefault, StrategyCookieOnly:
		if cfg.Adapter != nil {
			m.logger.Warn("session: adapter ignored for cookie strategy",
				slog.String("strategy", cfg.Strategy.String()),
			)
		}
	case StrategyInMemory:
		if cfg.Adapter != nil {
			m.adapter = adapter.Guard(cfg.Adapter)
		} else {
			m.adapter = adapter.NewMemory(adapter.WithTTL(m.ttl), adapter.WithClock(m.now))
		}
	case StrategyCustomAdapter:
		if cfg.Adapter == nil {
			return nil, ErrAdapterRequired
		}
		m.adapter = adapter.Guard(cfg.Adapter)
	default:
		return nil, ErrUnknownStrategy
	}

	if cfg.EnableSingleSession {
		if cfg.Strategy != StrategyCustomAdapter || !adapter.SupportsBinding(m.adapter) {
			return nil, ErrSingleSessionUnsupported
		}
		m.binder = m.adapter.(adapter.SessionBinder)
	}

	return m, nil
}

// Strategy returns the configured strategy.
func (m *Manager) Strategy() Strategy {
	return m.strategy
}

// UsesAdapter reports whether resolving a session touches the adapter.
func (m *Manager) UsesAdapter() bool {
	return m.adapter != nil
}

// Adapter returns the guarded adapter, or nil for cookie strategies.
func (m *Manager) Adapter() adapter.Adapter {
	return m.adapter
}

// Create starts a session for user and returns the Set-Cookie header that
// carries it. For adapter strategies the user is persisted first; any adapter
// failure aborts the login with an *AdapterError.
func (m *Manager) Create(ctx context.Context, user *identity.User) (string, *Session, error) {
	if err := user.Validate(); err != nil {
		return "", nil, ErrInvalidUser
	}

	now := m.now()
	sess := &Session{
		ID:        m.newID(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if m.adapter == nil {
		normalized, err := user.Normalize()
		if err != nil {
			return "", nil, err
		}
		sess.User = normalized
	} else {
		if _, err := m.adapter.Set(ctx, user.ID, user); err != nil {
			return "", nil, adapterError("set", user.ID, err)
		}
		if m.binder != nil {
			if err := m.binder.BindSession(ctx, user.ID, sess.ID); err != nil {
				return "", nil, adapterError("bind session", user.ID, err)
			}
		}
	}

	header, err := m.codec.Serialize(payloadOf(sess))
	if err != nil {
		return "", nil, err
	}
	return header, sess, nil
}

// Read returns the user for the session in cookieHeader, or nil when there is
// no usable session. Only adapter failures are errors.
func (m *Manager) Read(ctx context.Context, cookieHeader string) (*identity.User, error) {
	res, err := m.Resolve(ctx, cookieHeader)
	if err != nil {
		return nil, err
	}
	return res.User, nil
}

// Resolve is Read with the full lifecycle state.
func (m *Manager) Resolve(ctx context.Context, cookieHeader string) (Resolution, error) {
	p, err := m.codec.Parse(cookieHeader)
	if err != nil {
		state := StateNone
		if errors.Is(err, cookie.ErrExpiredCookie) {
			state = StateExpired
		}
		return Resolution{State: state, SetCookie: m.codec.Clear()}, nil
	}
	if p == nil {
		return Resolution{State: StateNone}, nil
	}

	sess := sessionOf(p)

	if m.adapter == nil {
		if p.User == nil {
			return Resolution{State: StateNone, SetCookie: m.codec.Clear()}, nil
		}
		res := Resolution{State: StateActive, Session: sess, User: p.User}
		if m.sliding {
			res.SetCookie = m.reissue(sess)
		}
		return res, nil
	}

	if m.binder != nil {
		current, ok, err := m.binder.SessionBinding(ctx, p.UserID)
		if err != nil {
			return Resolution{}, adapterError("session binding", p.UserID, err)
		}
		if !ok || current != p.SessionID {
			return Resolution{State: StateExpired, SetCookie: m.codec.Clear()}, nil
		}
	}

	user, err := m.adapter.Get(ctx, p.UserID)
	if err != nil {
		return Resolution{}, adapterError("get", p.UserID, err)
	}
	if user == nil {
		return Resolution{State: StateExpired, SetCookie: m.codec.Clear()}, nil
	}

	res := Resolution{State: StateActive, Session: sess, User: user}
	if m.sliding {
		m.resetExpiration(ctx, p.UserID)
		res.SetCookie = m.reissue(sess)
	}
	return res, nil
}

// Touch extends an active session: the adapter expiration is reset and a
// fresh cookie is returned. Without an active session it returns
// ErrNoSession together with a clearing header when one is warranted.
func (m *Manager) Touch(ctx context.Context, cookieHeader string) (string, error) {
	res, err := m.Resolve(ctx, cookieHeader)
	if err != nil {
		return "", err
	}
	if !res.Active() {
		return res.SetCookie, ErrNoSession
	}

	if m.adapter != nil && !m.sliding {
		m.resetExpiration(ctx, res.Session.UserID)
	}

	sess := *res.Session
	now := m.now()
	sess.ExpiresAt = now.Add(m.ttl)
	return m.codec.Serialize(payloadOf(&sess))
}

// Destroy ends the session in cookieHeader and returns a clearing Set-Cookie
// header. For adapter strategies the user record is removed; a removal failure
// is returned as an *AdapterError. A cookie superseded by a newer
// single-session login is only cleared, leaving the newer session intact.
func (m *Manager) Destroy(ctx context.Context, cookieHeader string) (string, error) {
	cleared := m.codec.Clear()

	p, err := m.codec.Parse(cookieHeader)
	if err != nil || p == nil || m.adapter == nil {
		return cleared, nil
	}

	if m.binder != nil {
		current, ok, err := m.binder.SessionBinding(ctx, p.UserID)
		if err != nil {
			return "", adapterError("session binding", p.UserID, err)
		}
		if ok && current != p.SessionID {
			return cleared, nil
		}
	}

	if err := m.adapter.Remove(ctx, p.UserID); err != nil {
		return "", adapterError("remove", p.UserID, err)
	}
	return cleared, nil
}

func (m *Manager) resetExpiration(ctx context.Context, id identity.UserID) {
	ok, err := m.adapter.ResetExpiration(ctx, id)
	if err != nil {
		m.logger.WarnContext(ctx, "session: reset expiration failed",
			slog.String("user_id", id.String()),
			slog.Any("error", err),
		)
		return
	}
	if !ok {
		m.logger.DebugContext(ctx, "session: reset expiration reported no record",
			slog.String("user_id", id.String()),
		)
	}
}

func (m *Manager) reissue(sess *Session) string {
	next := *sess
	next.ExpiresAt = m.now().Add(m.ttl)
	header, err := m.codec.Serialize(payloadOf(&next))
	if err != nil {
		m.logger.Warn("session: cookie refresh failed",
			slog.String("user_id", sess.UserID.String()),
			slog.Any("error", err),
		)
		return ""
	}
	return header
}

func payloadOf(s *Session) cookie.Payload {
	return cookie.Payload{
		SessionID: s.ID,
		UserID:    s.UserID,
		User:      s.User,
		IssuedAt:  s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func sessionOf(p *cookie.Payload) *Session {
	return &Session{
		ID:        p.SessionID,
		UserID:    p.UserID,
		User:      p.User,
		CreatedAt: p.IssuedAt,
		ExpiresAt: p.ExpiresAt,
	}
}
