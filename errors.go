package goGuard

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidConfig wraps every configuration error reported by
	// [Options.Validate] and [Builder.Build].
	ErrInvalidConfig = errors.New("goguard: invalid configuration")
	// ErrAdapterFailure is wrapped by the 500 [StatusError] produced when the
	// storage adapter fails.
	ErrAdapterFailure = errors.New("goguard: session adapter failure")
	// ErrUnauthenticated is wrapped by redirects issued for requests without
	// an active session.
	ErrUnauthenticated = errors.New("goguard: authentication required")
)

// ResponseInit carries the HTTP response parameters of a [StatusError].
type ResponseInit struct {
	Status int
}

// StatusError is the structured error handed to hosts: Data is the message to
// render and Init.Status the HTTP status to respond with.
type StatusError struct {
	Data string
	Init ResponseInit
	Err  error
}

func (e *StatusError) Error() string {
	if e.Data != "" {
		return e.Data
	}
	return http.StatusText(e.Init.Status)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns Init.Status, defaulting to 500.
func (e *StatusError) StatusCode() int {
	if e.Init.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Init.Status
}

// ServeHTTP writes the error as a plain text response.
func (e *StatusError) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, e.Error(), e.StatusCode())
}

func newStatusError(status int, data string, cause error) *StatusError {
	return &StatusError{Data: data, Init: ResponseInit{Status: status}, Err: cause}
}

// Redirect is both the value returned by login and logout and the error
// returned when a request must be sent to the login page. Header carries the
// Set-Cookie lines that must accompany the redirect.
type Redirect struct {
	Location string
	Status   int
	Header   http.Header

	reason error
}

func newRedirect(location string, status int, setCookie string) *Redirect {
	r := &Redirect{Location: location, Status: status, Header: make(http.Header)}
	if setCookie != "" {
		r.Header.Add("Set-Cookie", setCookie)
	}
	return r
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("redirect %d to %s", r.Status, r.Location)
}

// Unwrap lets errors.Is(err, ErrUnauthenticated) identify login redirects.
func (r *Redirect) Unwrap() error {
	return r.reason
}

// SetCookies returns the Set-Cookie lines carried by the redirect.
func (r *Redirect) SetCookies() []string {
	if r == nil || r.Header == nil {
		return nil
	}
	return r.Header.Values("Set-Cookie")
}

// ServeHTTP copies Header onto the response and redirects.
func (r *Redirect) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	status := r.Status
	if status == 0 {
		status = http.StatusSeeOther
	}
	http.Redirect(w, req, r.Location, status)
}
