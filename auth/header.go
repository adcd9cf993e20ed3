package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/samber/mo"
)

// absentPassword is written in place of a missing password. Existing
// fixtures compare against these exact bytes.
const absentPassword = "null"

// HeaderCredentials implements HTTP Basic authentication by encoding the
// header value directly, without going through a negotiator.
type HeaderCredentials struct {
	Identity
}

// NewHeaderCredentials creates a new header-encoded Basic credentials strategy.
func NewHeaderCredentials(username string, password mo.Option[string]) *HeaderCredentials {
	return &HeaderCredentials{Identity: NewIdentity(username, password)}
}

// Initialize is a no-op for header-encoded authentication.
func (c *HeaderCredentials) Initialize(_ context.Context, _ Session) error {
	return nil
}

// Authenticate appends "Authorization: Basic base64(username:password)".
func (c *HeaderCredentials) Authenticate(req *http.Request) {
	req.Header.Add(HeaderAuthorization, c.HeaderValue())
}

// HeaderValue returns the Authorization header value Authenticate appends.
func (c *HeaderCredentials) HeaderValue() string {
	var sb strings.Builder
	sb.WriteString(c.username)
	sb.WriteByte(':')
	sb.WriteString(c.password.OrElse(absentPassword))

	return "Basic " + base64.StdEncoding.EncodeToString([]byte(sb.String()))
}

// LogonName returns the user name.
func (c *HeaderCredentials) LogonName() string {
	return c.username
}

// Logout is a no-op for header-encoded authentication.
func (c *HeaderCredentials) Logout(_ context.Context, _ Session) error {
	return nil
}
