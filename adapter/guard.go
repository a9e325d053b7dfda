package adapter

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goGuard/identity"
)

type guarded struct {
	inner Adapter
}

// Guard wraps a host-supplied adapter so that a panic inside any operation is
// returned as an error wrapping [ErrAdapterPanic] instead of unwinding into the
// caller. The wrapper also exposes [SessionBinder]; when the inner adapter
// lacks that capability the binder methods return [ErrBindingUnsupported].
func Guard(a Adapter) Adapter {
	if a == nil {
		return nil
	}
	if g, ok := a.(*guarded); ok {
		return g
	}
	return &guarded{inner: a}
}

// Unwrap returns the adapter passed to Guard.
func Unwrap(a Adapter) Adapter {
	if g, ok := a.(*guarded); ok {
		return g.inner
	}
	return a
}

func recoverInto(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %s: %v", ErrAdapterPanic, op, r)
	}
}

func (g *guarded) Get(ctx context.Context, id identity.UserID) (u *identity.User, err error) {
	defer recoverInto("get", &err)
	return g.inner.Get(ctx, id)
}

func (g *guarded) GetAll(ctx context.Context) (users []*identity.User, err error) {
	defer recoverInto("get all", &err)
	return g.inner.GetAll(ctx)
}

func (g *guarded) Has(ctx context.Context, id identity.UserID) (ok bool, err error) {
	defer recoverInto("has", &err)
	return g.inner.Has(ctx, id)
}

func (g *guarded) Set(ctx context.Context, id identity.UserID, user *identity.User) (u *identity.User, err error) {
	defer recoverInto("set", &err)
	return g.inner.Set(ctx, id, user)
}

func (g *guarded) Remove(ctx context.Context, id identity.UserID) (err error) {
	defer recoverInto("remove", &err)
	return g.inner.Remove(ctx, id)
}

func (g *guarded) ResetExpiration(ctx context.Context, id identity.UserID) (ok bool, err error) {
	defer recoverInto("reset expiration", &err)
	return g.inner.ResetExpiration(ctx, id)
}

func (g *guarded) BindSession(ctx context.Context, id identity.UserID, sessionID string) (err error) {
	binder, ok := g.inner.(SessionBinder)
	if !ok {
		return ErrBindingUnsupported
	}
	defer recoverInto("bind session", &err)
	return binder.BindSession(ctx, id, sessionID)
}

func (g *guarded) SessionBinding(ctx context.Context, id identity.UserID) (sid string, ok bool, err error) {
	binder, supported := g.inner.(SessionBinder)
	if !supported {
		return "", false, ErrBindingUnsupported
	}
	defer recoverInto("session binding", &err)
	return binder.SessionBinding(ctx, id)
}
