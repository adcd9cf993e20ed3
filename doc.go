// Package restauth provides pluggable credential strategies for REST
// clients used by test tooling, with a small client that drives them.
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  cmd/restauth   One-shot CLI                            │
//	├─────────────────────────────────────────────────────────┤
//	│  rest/          Client, session lifecycle, transport    │
//	├─────────────────────────────────────────────────────────┤
//	│  auth/          Credentials strategies                  │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick Start
//
//	pass := "secret"
//	cfg := rest.DefaultConfig()
//	cfg.BaseURL = "https://server:8443/rest/v1.0"
//	cfg.Username = "admin"
//	cfg.Password = &pass
//	cfg.Auth = auth.KindHeader
//
//	c, err := rest.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.Open(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close(ctx)
//
//	resp, err := c.Get(ctx, "/jobs")
package restauth
