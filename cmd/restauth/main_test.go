package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHeaderFlags_Set(t *testing.T) {
	h := headerFlags{}
	if err := h.Set("X-Suite=smoke"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.Set("X-Empty="); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if h["X-Suite"] != "smoke" || h["X-Empty"] != "" {
		t.Errorf("headers = %v", h)
	}
	if err := h.Set("novalue"); err == nil {
		t.Error("Set without '=' should fail")
	}
}

func TestReadBody(t *testing.T) {
	body, err := readBody("")
	if err != nil || body != nil {
		t.Errorf("readBody(\"\") = %q, %v; want nil, nil", body, err)
	}

	body, err = readBody(`{"a":1}`)
	if err != nil || string(body) != `{"a":1}` {
		t.Errorf("readBody(inline) = %q, %v", body, err)
	}

	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(`{"b":2}`), 0o600); err != nil {
		t.Fatal(err)
	}
	body, err = readBody("@" + path)
	if err != nil || string(body) != `{"b":2}` {
		t.Errorf("readBody(@file) = %q, %v", body, err)
	}
}

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	logger, closeFn, err := newLogger("", "")
	if err != nil || logger != nil {
		t.Errorf("newLogger(\"\") = %v, %v; want nil logger", logger, err)
	}
	closeFn()

	if _, _, err := newLogger("verbose", ""); err == nil {
		t.Error("invalid level should fail")
	}

	path := filepath.Join(t.TempDir(), "restauth.log")
	logger, closeFn, err = newLogger("info", path)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("session opened", "password", "hunter2")
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
	if strings.Contains(string(data), "hunter2") {
		t.Errorf("password leaked into log: %s", data)
	}
}

func TestGetPassword_FlagAndEnv(t *testing.T) {
	if got := getPassword("from-flag"); got != "from-flag" {
		t.Errorf("getPassword(flag) = %q", got)
	}

	t.Setenv("RESTAUTH_PASSWORD", "from-env")
	if got := getPassword(""); got != "from-env" {
		t.Errorf("getPassword(env) = %q", got)
	}
}
