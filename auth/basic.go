package auth

import (
	"context"
	"net/http"

	"github.com/Azure/go-ntlmssp"
	"github.com/samber/mo"
)

// BasicCredentials implements HTTP Basic authentication using the
// standard library's header builder.
type BasicCredentials struct {
	Identity
}

// NewBasicCredentials creates a new Basic credentials strategy.
func NewBasicCredentials(username string, password mo.Option[string]) *BasicCredentials {
	return &BasicCredentials{Identity: NewIdentity(username, password)}
}

// Initialize is a no-op for Basic authentication.
func (c *BasicCredentials) Initialize(_ context.Context, _ Session) error {
	return nil
}

// Authenticate appends a Basic Authorization header built by net/http.
// An absent password encodes as "null", matching HeaderCredentials.
func (c *BasicCredentials) Authenticate(req *http.Request) {
	scratch := &http.Request{Header: make(http.Header, 1)}
	scratch.SetBasicAuth(c.username, c.password.OrElse(absentPassword))
	req.Header.Add(HeaderAuthorization, scratch.Header.Get(HeaderAuthorization))
}

// LogonName returns the user name.
func (c *BasicCredentials) LogonName() string {
	return c.username
}

// Logout is a no-op for Basic authentication.
func (c *BasicCredentials) Logout(_ context.Context, _ Session) error {
	return nil
}

// Negotiate wraps base with github.com/Azure/go-ntlmssp. The negotiator
// first tries the request anonymously and replays the Basic credentials
// only when the server challenges, upgrading to NTLM if the server asks.
func (c *BasicCredentials) Negotiate(base http.RoundTripper) http.RoundTripper {
	return ntlmssp.Negotiator{
		RoundTripper:   base,
		AllowBasicAuth: true,
	}
}
