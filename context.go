package goGuard

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type clientIPContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. Audit events emitted
// by LoginAndRedirect read it from there since login receives no request.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

// requestIP prefers an IP attached with WithClientIP and falls back to the
// host part of RemoteAddr.
func requestIP(r *http.Request) string {
	if ip := clientIPFromContext(r.Context()); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// cookieHeader joins every Cookie header of r the way browsers send them.
func cookieHeader(r *http.Request) string {
	return strings.Join(r.Header.Values("Cookie"), "; ")
}
