package auth

import (
	"context"
	"net/http"

	"github.com/samber/mo"
)

// HeaderAuthorization is the request header carrying credentials.
const HeaderAuthorization = "Authorization"

// Session is the client handle passed to Initialize and Logout.
// Strategies that need a server-side handshake use it to reach the endpoint.
type Session interface {
	// HTTPClient returns the client that owns the connection.
	HTTPClient() *http.Client

	// BaseURL returns the root URL of the remote endpoint.
	BaseURL() string
}

// Credentials defines the interface for authentication strategies.
type Credentials interface {
	// Initialize prepares the session before the first request.
	// It returns a *Failure when the endpoint rejects the session.
	Initialize(ctx context.Context, s Session) error

	// Authenticate appends exactly one Authorization header to req.
	Authenticate(req *http.Request)

	// LogonName returns the user name these credentials represent.
	LogonName() string

	// Logout tears the session down after the last request.
	// It returns a *Failure when the endpoint rejects the teardown.
	Logout(ctx context.Context, s Session) error
}

// Negotiator is implemented by credentials that answer server challenges
// at the transport level instead of sending a fixed header.
type Negotiator interface {
	// Negotiate wraps base with challenge/response handling.
	Negotiate(base http.RoundTripper) http.RoundTripper
}

// Password returns a present password, which may be empty.
func Password(p string) mo.Option[string] {
	return mo.Some(p)
}

// NoPassword returns an absent password.
func NoPassword() mo.Option[string] {
	return mo.None[string]()
}

// PasswordFromPointer maps nil to an absent password.
func PasswordFromPointer(p *string) mo.Option[string] {
	if p == nil {
		return NoPassword()
	}
	return Password(*p)
}

// Identity holds the user name and password shared by the basic strategies.
// The fields are fixed at construction.
type Identity struct {
	username string
	password mo.Option[string]
}

// NewIdentity creates an Identity.
func NewIdentity(username string, password mo.Option[string]) Identity {
	return Identity{username: username, password: password}
}

// Username returns the user name.
func (i Identity) Username() string {
	return i.username
}

// Password returns the password, absent if none was supplied.
func (i Identity) Password() mo.Option[string] {
	return i.password
}
