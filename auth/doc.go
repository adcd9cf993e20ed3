// Package auth provides the credential strategies a REST client uses to
// authenticate outgoing HTTP requests.
//
// # Supported Strategies
//
//   - Basic: HTTP Basic authentication built by net/http, optionally answered
//     through a challenge/response negotiator (github.com/Azure/go-ntlmssp)
//   - Header: HTTP Basic authentication encoded by hand, byte-for-byte
//     compatible with older test tooling (an absent password encodes as "null")
//
// # Session Lifecycle
//
// A client holds one Credentials value for its whole session:
//
//  1. Initialize once before the first request
//  2. Authenticate before every outgoing request
//  3. Logout once after the last request
//
// # Usage
//
//	creds := auth.NewHeaderCredentials("alice", auth.Password("secret"))
//	req, _ := http.NewRequest(http.MethodGet, "https://server/api/v1/jobs", nil)
//	creds.Authenticate(req)
//	// Authorization: Basic YWxpY2U6c2VjcmV0
//
// Wrapping a plain http.Client:
//
//	client := &http.Client{
//	    Transport: auth.Transport(creds, http.DefaultTransport),
//	}
package auth
