package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/adapter"
	"github.com/MrEthical07/goGuard/adapter/redisstore"
	"github.com/MrEthical07/goGuard/adapter/sqlitestore"
	"github.com/MrEthical07/goGuard/identity"
	"github.com/MrEthical07/goGuard/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type options struct {
	users       int
	concurrency int
	ops         int
	backend     string
	redisAddr   string
	sqlitePath  string
	prefix      string
	sliding     bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "goguard-loadtest",
		Short:        "Load test goGuard session resolution against a storage backend",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.users, "users", 10000, "number of users to log in")
	f.IntVar(&opts.concurrency, "concurrency", 64, "number of concurrent workers")
	f.IntVar(&opts.ops, "ops", 100000, "require operations to run")
	f.StringVar(&opts.backend, "backend", "memory", "storage backend: cookie | memory | redis | sqlite")
	f.StringVar(&opts.redisAddr, "redis-addr", "", "redis address; if empty, REDIS_ADDR or an embedded miniredis is used")
	f.StringVar(&opts.sqlitePath, "sqlite-path", "", "sqlite database file; if empty a temporary file is used")
	f.StringVar(&opts.prefix, "prefix", "gglt", "redis key prefix")
	f.BoolVar(&opts.sliding, "sliding", false, "enable sliding expiration")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts options) error {
	if opts.users <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
		return errors.New("users, concurrency, and ops must be > 0")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store, cleanup, err := openBackend(out, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	authOpts := goGuard.DefaultOptions()
	authOpts.Cookie.Secrets = []string{"goguard-loadtest-secret"}
	authOpts.SlidingExpiration = opts.sliding
	authOpts.Metrics = goGuard.MetricsConfig{Enabled: true, EnableLatencyHistograms: true}
	if store == nil {
		authOpts.Strategy = session.StrategyCookieOnly
	} else {
		authOpts.Strategy = session.StrategyCustomAdapter
		authOpts.Adapter = store
	}

	auth, err := goGuard.New().
		WithOptions(authOpts).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Build()
	if err != nil {
		return err
	}
	defer auth.Close()

	cookies := make([]string, opts.users)
	var mu sync.Mutex

	loginStats := runPhase(opts.users, opts.concurrency, func(i int, _ *rand.Rand) error {
		redirect, err := auth.LoginAndRedirect(ctx, loadUser(i), "/")
		if err != nil {
			return err
		}
		header, err := requestCookie(redirect)
		if err != nil {
			return err
		}
		mu.Lock()
		cookies[i] = header
		mu.Unlock()
		return nil
	})

	requireStats := runPhase(opts.ops, opts.concurrency, func(_ int, r *rand.Rand) error {
		idx := r.Intn(len(cookies))
		req, err := newRequest(ctx, "/app", cookies[idx])
		if err != nil {
			return err
		}
		_, err = auth.RequireUserOrRedirect(req)
		return err
	})

	logoutStats := runPhase(opts.users, opts.concurrency, func(i int, _ *rand.Rand) error {
		req, err := newRequest(ctx, "/logout", cookies[i])
		if err != nil {
			return err
		}
		_, err = auth.LogoutAndRedirect(req, "/")
		return err
	})

	fmt.Fprintln(out, "---- results ----")
	printStats(out, "login", loginStats)
	printStats(out, "require", requireStats)
	printStats(out, "logout", logoutStats)

	snap := auth.MetricsSnapshot()
	fmt.Fprintf(out, "resolve latency buckets (ms <=5,10,25,50,100,250,500,inf): %v\n",
		snap.Histograms[goGuard.MetricResolveLatency])
	return nil
}

func openBackend(out io.Writer, opts options) (adapter.Adapter, func(), error) {
	switch opts.backend {
	case "cookie":
		fmt.Fprintln(out, "using cookie-only sessions")
		return nil, func() {}, nil

	case "memory":
		fmt.Fprintln(out, "using in-process memory adapter")
		return adapter.NewMemory(), func() {}, nil

	case "redis":
		addr := opts.redisAddr
		if addr == "" {
			addr = os.Getenv("REDIS_ADDR")
		}
		var mr *miniredis.Miniredis
		if addr == "" {
			var err error
			mr, err = miniredis.Run()
			if err != nil {
				return nil, nil, fmt.Errorf("start miniredis: %w", err)
			}
			addr = mr.Addr()
			fmt.Fprintf(out, "using miniredis at %s\n", addr)
		} else {
			fmt.Fprintf(out, "using redis at %s\n", addr)
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup := func() {
			_ = client.Close()
			if mr != nil {
				mr.Close()
			}
		}
		return redisstore.NewStore(client, opts.prefix, 24*time.Hour, false, 0), cleanup, nil

	case "sqlite":
		path := opts.sqlitePath
		var tmpDir string
		if path == "" {
			dir, err := os.MkdirTemp("", "goguard-loadtest-*")
			if err != nil {
				return nil, nil, fmt.Errorf("create temp dir: %w", err)
			}
			tmpDir = dir
			path = filepath.Join(dir, "sessions.db")
		}
		store, err := sqlitestore.Open(sqlitestore.Config{DSN: path, TTL: 24 * time.Hour})
		if err != nil {
			return nil, nil, err
		}
		fmt.Fprintf(out, "using sqlite at %s\n", path)
		cleanup := func() {
			_ = store.Close()
			if tmpDir != "" {
				_ = os.RemoveAll(tmpDir)
			}
		}
		return store, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", opts.backend)
	}
}

func loadUser(i int) *identity.User {
	return &identity.User{
		ID: identity.IntUserID(int64(i)),
		Roles: []identity.Role{
			{Name: "member", Permissions: []string{"app.read"}},
		},
		Attributes: map[string]any{"shard": i % 16},
	}
}

func requestCookie(redirect *goGuard.Redirect) (string, error) {
	lines := redirect.SetCookies()
	if len(lines) == 0 {
		return "", errors.New("login returned no cookie")
	}
	c, err := http.ParseSetCookie(lines[0])
	if err != nil {
		return "", err
	}
	return c.Name + "=" + c.Value, nil
}

func newRequest(ctx context.Context, target, cookieHeader string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", cookieHeader)
	return req, nil
}
