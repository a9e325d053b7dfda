// Package adaptertest provides a conformance suite that every adapter.Adapter
// implementation is expected to pass.
package adaptertest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/MrEthical07/goGuard/adapter"
	"github.com/MrEthical07/goGuard/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty adapter. It is called once per subtest.
type Factory func(t *testing.T) adapter.Adapter

// SampleUser returns a user whose attribute values survive a JSON round trip
// unchanged, so the same fixture works for map-backed and serialized stores.
func SampleUser(id identity.UserID) *identity.User {
	return &identity.User{
		ID: id,
		Roles: []identity.Role{
			{Name: "admin", Permissions: []string{"p1", "p2"}},
			{Name: "editor", Permissions: []string{"p2", "p3"}},
		},
		Attributes: map[string]any{
			"team":   "alpha",
			"level":  float64(3),
			"active": true,
		},
	}
}

// Run executes the conformance suite against adapters built by newAdapter.
func Run(t *testing.T, newAdapter Factory) {
	t.Helper()

	t.Run("RoundTrip", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		in := SampleUser("other-id")
		stored, err := a.Set(ctx, "u-1", in)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, identity.UserID("u-1"), stored.ID)

		got, err := a.Get(ctx, "u-1")
		require.NoError(t, err)
		want := SampleUser("u-1")
		assert.Equal(t, want, got)

		// The caller's value must not have been mutated by Set.
		assert.Equal(t, identity.UserID("other-id"), in.ID)
	})

	t.Run("NormalizesAttributes", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		in := &identity.User{
			ID: "u-1",
			Attributes: map[string]any{
				"level": 3,
				"tags":  []string{"a", "b"},
			},
		}
		want := map[string]any{
			"level": float64(3),
			"tags":  []any{"a", "b"},
		}

		stored, err := a.Set(ctx, "u-1", in)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Attributes)

		got, err := a.Get(ctx, "u-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, got.Attributes)
		assert.Equal(t, 3, in.Attributes["level"])
	})

	t.Run("GetMissing", func(t *testing.T) {
		a := newAdapter(t)
		got, err := a.Get(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("SetReplacesNotMerges", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		_, err := a.Set(ctx, "u-1", SampleUser("u-1"))
		require.NoError(t, err)

		replacement := &identity.User{ID: "u-1", Attributes: map[string]any{"team": "beta"}}
		_, err = a.Set(ctx, "u-1", replacement)
		require.NoError(t, err)

		got, err := a.Get(ctx, "u-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.Roles)
		assert.Equal(t, map[string]any{"team": "beta"}, got.Attributes)
	})

	t.Run("RemoveIdempotent", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		_, err := a.Set(ctx, "u-1", SampleUser("u-1"))
		require.NoError(t, err)

		require.NoError(t, a.Remove(ctx, "u-1"))
		require.NoError(t, a.Remove(ctx, "u-1"))

		got, err := a.Get(ctx, "u-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Has", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		ok, err := a.Has(ctx, "u-1")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = a.Set(ctx, "u-1", SampleUser("u-1"))
		require.NoError(t, err)

		ok, err = a.Has(ctx, "u-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("GetAll", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		for _, id := range []identity.UserID{"u-2", "u-1", "u-3"} {
			_, err := a.Set(ctx, id, SampleUser(id))
			require.NoError(t, err)
		}
		require.NoError(t, a.Remove(ctx, "u-3"))

		all, err := a.GetAll(ctx)
		require.NoError(t, err)

		ids := make([]identity.UserID, 0, len(all))
		for _, u := range all {
			ids = append(ids, u.ID)
		}
		assert.ElementsMatch(t, []identity.UserID{"u-1", "u-2"}, ids)
	})

	t.Run("SetRejectsNilUser", func(t *testing.T) {
		a := newAdapter(t)
		_, err := a.Set(context.Background(), "u-1", nil)
		assert.Error(t, err)
	})

	t.Run("ResetExpirationOnLiveRecord", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		_, err := a.Set(ctx, "u-1", SampleUser("u-1"))
		require.NoError(t, err)

		ok, err := a.ResetExpiration(ctx, "u-1")
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := a.Get(ctx, "u-1")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("ConcurrentDistinctIDs", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		const workers = 16
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := identity.UserID(fmt.Sprintf("u-%d", i))
				if _, err := a.Set(ctx, id, SampleUser(id)); err != nil {
					errs <- err
					return
				}
				got, err := a.Get(ctx, id)
				if err != nil {
					errs <- err
					return
				}
				if got == nil || got.ID != id {
					errs <- fmt.Errorf("read-your-write violated for %s", id)
				}
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}

		all, err := a.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, workers)
	})

	t.Run("SessionBinding", func(t *testing.T) {
		a := newAdapter(t)
		binder, ok := a.(adapter.SessionBinder)
		if !ok {
			t.Skip("adapter does not implement SessionBinder")
		}
		ctx := context.Background()

		_, found, err := binder.SessionBinding(ctx, "u-1")
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, binder.BindSession(ctx, "u-1", "sid-1"))
		require.NoError(t, binder.BindSession(ctx, "u-1", "sid-2"))

		sid, found, err := binder.SessionBinding(ctx, "u-1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "sid-2", sid)
	})
}
