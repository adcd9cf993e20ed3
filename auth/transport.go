package auth

import (
	"log/slog"
	"net/http"
	"sync"
)

// Transport wraps base so that creds authenticate every outgoing request.
// A nil base uses http.DefaultTransport.
func Transport(creds Credentials, base http.RoundTripper) http.RoundTripper {
	return TransportWithLogger(creds, base, nil)
}

// TransportWithLogger is like Transport but reports plaintext credential
// use to logger. A nil logger uses slog.Default.
func TransportWithLogger(creds Credentials, base http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &credentialsTransport{
		base:   base,
		creds:  creds,
		logger: logger,
	}
}

// credentialsTransport adds the credentials header to requests.
type credentialsTransport struct {
	base     http.RoundTripper
	creds    Credentials
	logger   *slog.Logger
	warnOnce sync.Once
}

// RoundTrip implements http.RoundTripper.
func (t *credentialsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Warn if credentials go out over non-HTTPS (Basic is easily readable)
	if req.URL.Scheme != "https" {
		t.warnOnce.Do(func() {
			t.logger.Warn("basic credentials sent over non-HTTPS connection",
				"host", req.URL.Host,
				"user", t.creds.LogonName())
		})
	}

	// Clone the request to avoid mutating the original
	reqCopy := req.Clone(req.Context())
	t.creds.Authenticate(reqCopy)

	return t.base.RoundTrip(reqCopy)
}
