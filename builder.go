package goGuard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/goGuard/access"
	"github.com/MrEthical07/goGuard/adapter"
	"github.com/MrEthical07/goGuard/cookie"
	"github.com/MrEthical07/goGuard/session"
)

// Builder assembles an [Authenticator]. A Builder can be built once.
type Builder struct {
	options   Options
	logger    *slog.Logger
	auditSink AuditSink
	now       func() time.Time

	built bool
}

// New returns a builder seeded with [DefaultOptions].
func New() *Builder {
	return &Builder{options: DefaultOptions()}
}

// WithOptions replaces every option. Call it before the other With methods.
func (b *Builder) WithOptions(opts Options) *Builder {
	b.options = opts
	return b
}

// WithAdapter sets Options.Adapter.
func (b *Builder) WithAdapter(a adapter.Adapter) *Builder {
	b.options.Adapter = a
	return b
}

// WithLogger sets the structured logger. The default is slog.Default().
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink enables audit dispatch into sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.options.Audit.Enabled = true
	}
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.options.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the resolve latency histogram. It has no
// effect unless metrics are enabled.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.options.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithCatalog sets Options.Catalog.
func (b *Builder) WithCatalog(c *access.Catalog) *Builder {
	b.options.Catalog = c
	return b
}

// WithClock overrides the time source used for cookies and sessions.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the options and wires the session manager, metrics, and
// audit dispatcher. Errors wrap [ErrInvalidConfig].
func (b *Builder) Build() (*Authenticator, error) {
	if b.built {
		return nil, fmt.Errorf("%w: builder already used", ErrInvalidConfig)
	}

	opts := b.options
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	codec, err := cookie.NewCodec(opts.Cookie, cookie.WithClock(now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	sessions, err := session.NewManager(session.Config{
		Strategy:            opts.Strategy,
		Adapter:             opts.Adapter,
		EnableSingleSession: opts.EnableSingleSession,
		Codec:               codec,
		TTL:                 opts.SessionTTL,
		Sliding:             opts.SlidingExpiration,
		Logger:              logger,
		Now:                 now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	b.built = true

	return &Authenticator{
		options:  opts,
		sessions: sessions,
		catalog:  opts.Catalog,
		logger:   logger,
		metrics:  NewMetrics(opts.Metrics),
		audit:    newAuditDispatcher(opts.Audit, b.auditSink, logger),
		now:      now,
	}, nil
}
