package sqlitestore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goGuard/adapter"
	"github.com/MrEthical07/goGuard/adapter/adaptertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newSQLiteStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	cfg.DSN = filepath.Join(t.TempDir(), "sessions.db")
	store, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStoreConformance(t *testing.T) {
	adaptertest.Run(t, func(t *testing.T) adapter.Adapter {
		return newSQLiteStore(t, Config{})
	})
}

func TestStoreConformanceWithTTL(t *testing.T) {
	adaptertest.Run(t, func(t *testing.T) adapter.Adapter {
		return newSQLiteStore(t, Config{TTL: time.Hour})
	})
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(Config{DSN: "  "})
	assert.Error(t, err)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	first, err := Open(Config{DSN: path})
	require.NoError(t, err)
	_, err = first.Set(ctx, "u-1", adaptertest.SampleUser("u-1"))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(Config{DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, adaptertest.SampleUser("u-1"), got)
}

func TestStoreExpiry(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := newSQLiteStore(t, Config{TTL: time.Minute, Now: clock.Now})
	ctx := context.Background()

	_, err := store.Set(ctx, "u-1", adaptertest.SampleUser("u-1"))
	require.NoError(t, err)
	_, err = store.Set(ctx, "u-2", adaptertest.SampleUser("u-2"))
	require.NoError(t, err)
	require.NoError(t, store.BindSession(ctx, "u-1", "sid-1"))

	clock.Advance(50 * time.Second)
	ok, err := store.ResetExpiration(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(20 * time.Second)

	has, err := store.Has(ctx, "u-2")
	require.NoError(t, err)
	assert.False(t, has)

	ok, err = store.ResetExpiration(ctx, "u-2")
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.EqualValues(t, "u-1", all[0].ID)

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	clock.Advance(time.Minute)
	got, err := store.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, found, err := store.SessionBinding(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, found, "expired read removes the binding")
}

func TestStoreCorruptRecord(t *testing.T) {
	store := newSQLiteStore(t, Config{})
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
INSERT INTO goguard_users (id, data, expires_at, updated_at)
VALUES ('u-1', '{broken', 0, '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = store.Get(ctx, "u-1")
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestStoreClosedDatabaseReturnsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := Open(Config{DSN: path})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Get(context.Background(), "u-1")
	assert.Error(t, err)
	_, err = store.Set(context.Background(), "u-1", adaptertest.SampleUser("u-1"))
	assert.Error(t, err)
}
