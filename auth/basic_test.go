package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicCredentials_Authenticate(t *testing.T) {
	creds := NewBasicCredentials("alice", Password("secret"))
	req := newRequest(t)

	creds.Authenticate(req)

	values := req.Header.Values(HeaderAuthorization)
	require.Len(t, values, 1)
	assert.Equal(t, "Basic YWxpY2U6c2VjcmV0", values[0])

	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "secret", pass)
}

// TestBasicCredentials_AbsentPassword verifies an absent password encodes
// as "null", byte-identical to HeaderCredentials.
func TestBasicCredentials_AbsentPassword(t *testing.T) {
	req := newRequest(t)
	NewBasicCredentials("bob", NoPassword()).Authenticate(req)

	value := req.Header.Get(HeaderAuthorization)
	assert.Equal(t, "Basic Ym9iOm51bGw=", value)
	assert.Equal(t, NewHeaderCredentials("bob", NoPassword()).HeaderValue(), value)

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, "Basic "))
	require.NoError(t, err)
	assert.Equal(t, "bob:null", string(decoded))
}

func TestBasicCredentials_EmptyPassword(t *testing.T) {
	req := newRequest(t)
	NewBasicCredentials("bob", Password("")).Authenticate(req)

	assert.Equal(t, "Basic Ym9iOg==", req.Header.Get(HeaderAuthorization))
}

func TestBasicCredentials_EmptyUsername(t *testing.T) {
	req := newRequest(t)
	NewBasicCredentials("", Password("")).Authenticate(req)

	assert.Equal(t, "Basic Og==", req.Header.Get(HeaderAuthorization))
}

func TestBasicCredentials_KeepsExistingHeaders(t *testing.T) {
	req := newRequest(t)
	req.Header.Add(HeaderAuthorization, "Bearer other")

	NewBasicCredentials("alice", Password("secret")).Authenticate(req)

	assert.Equal(t, []string{"Bearer other", "Basic YWxpY2U6c2VjcmV0"}, req.Header.Values(HeaderAuthorization))
}

func TestBasicCredentials_Lifecycle(t *testing.T) {
	creds := NewBasicCredentials("alice", Password("secret"))
	ctx := context.Background()

	require.NoError(t, creds.Initialize(ctx, nil))
	assert.Equal(t, "alice", creds.LogonName())
	require.NoError(t, creds.Logout(ctx, nil))
}

// TestBasicCredentials_Negotiate verifies a Basic challenge is answered
// through the negotiator.
func TestBasicCredentials_Negotiate(t *testing.T) {
	var authorized, challenged atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			challenged.Add(1)
			w.Header().Set("WWW-Authenticate", `Basic realm="test"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		authorized.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	creds := NewBasicCredentials("alice", Password("secret"))
	client := &http.Client{
		Transport: Transport(creds, creds.Negotiate(http.DefaultTransport)),
	}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), authorized.Load())
	assert.Equal(t, int32(1), challenged.Load())
}
