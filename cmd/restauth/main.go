// Command restauth sends one authenticated request to a REST endpoint.
//
// Usage:
//
//	restauth -url https://server:8443/rest/v1.0 -user admin -path /jobs
//	restauth -config smoke.yaml -method POST -path /jobs -data '{"name":"x"}'
//
// The password is read from -pass, then RESTAUTH_PASSWORD, then a prompt.
// Use -no-password to send credentials without one.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/smnsjas/go-restauth/auth"
	restlog "github.com/smnsjas/go-restauth/internal/log"
	"github.com/smnsjas/go-restauth/rest"
)

// headerFlags collects repeatable -header key=value flags.
type headerFlags map[string]string

func (h headerFlags) String() string {
	parts := make([]string, 0, len(h))
	for k, v := range h {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (h headerFlags) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("header must be key=value, got %q", s)
	}
	h[strings.TrimSpace(k)] = v
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "YAML config file (flags override it)")
	baseURL := flag.String("url", "", "Base URL of the REST API")
	path := flag.String("path", "/", "Request path relative to -url")
	method := flag.String("method", "GET", "HTTP method")
	data := flag.String("data", "", "Request body (use @file to read from a file)")
	username := flag.String("user", "", "Username for authentication")
	password := flag.String("pass", "", "Password (use RESTAUTH_PASSWORD env var instead)")
	noPassword := flag.Bool("no-password", false, "Send credentials without a password")
	authKind := flag.String("auth", "", "Credentials strategy: basic or header (default basic)")
	negotiate := flag.Bool("negotiate", false, "Answer server challenges instead of sending credentials up front")
	insecure := flag.Bool("insecure", false, "Skip TLS certificate verification")
	timeout := flag.Duration("timeout", 0, "Request timeout (default 60s)")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (empty = no logging)")
	logFile := flag.String("logfile", "", "Write logs to this file (rotated at 10MB)")
	headers := headerFlags{}
	flag.Var(headers, "header", "Extra request header key=value (repeatable)")

	flag.Parse()

	cfg := rest.DefaultConfig()
	if *configPath != "" {
		loaded, err := rest.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
		cfg = *loaded
	}

	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *username != "" {
		cfg.Username = *username
	}
	if *authKind != "" {
		kind, err := auth.ParseKind(*authKind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cfg.Auth = kind
	}
	if *negotiate {
		cfg.Negotiate = true
	}
	if *insecure {
		cfg.InsecureSkipVerify = true
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if len(headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			cfg.Headers[k] = v
		}
	}

	if cfg.BaseURL == "" || cfg.Username == "" {
		fmt.Fprintln(os.Stderr, "Error: -url and -user are required (or set base_url and username in -config)")
		flag.Usage()
		return 2
	}

	switch {
	case *noPassword:
		cfg.Password = nil
	case *password != "" || cfg.Password == nil:
		p := getPassword(*password)
		cfg.Password = &p
	}

	logger, closeLog, err := newLogger(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	client, err := rest.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating client: %v\n", err)
		return 1
	}
	if logger != nil {
		client.SetSlogLogger(logger)
	}

	body, err := readBody(*data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading -data: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := client.Open(ctx); err != nil {
		return report("open session", err)
	}

	resp, reqErr := client.Do(ctx, strings.ToUpper(*method), *path, body)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Close(closeCtx); err != nil && reqErr == nil {
		return report("close session", err)
	}

	if reqErr != nil {
		return report(*method+" "+*path, reqErr)
	}

	_, _ = os.Stdout.Write(resp.Body)
	if len(resp.Body) > 0 && resp.Body[len(resp.Body)-1] != '\n' {
		fmt.Println()
	}
	return 0
}

// report prints err and returns the exit code.
func report(op string, err error) int {
	if f, ok := auth.AsFailure(err); ok {
		fmt.Fprintf(os.Stderr, "Error: %s: %s\n", op, f.Error())
		if errors.Is(err, auth.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Hint: check -user/-pass and -auth; some servers require -negotiate")
		}
		return 1
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", op, err)
	return 1
}

// newLogger builds a logger for level, writing to path if set.
// An empty level disables logging.
func newLogger(level, path string) (*slog.Logger, func(), error) {
	noop := func() {}
	if level == "" {
		return nil, noop, nil
	}

	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, noop, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", level)
	}

	var w io.Writer = os.Stderr
	closeFn := noop
	if path != "" {
		rf, err := restlog.NewRotatingFile(path, restlog.RotationOptions{})
		if err != nil {
			return nil, noop, err
		}
		w = rf
		closeFn = func() { _ = rf.Close() }
	}

	h := restlog.NewRedactingHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// readBody returns the request body for -data. "@file" reads the file.
func readBody(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	if strings.HasPrefix(data, "@") {
		return os.ReadFile(strings.TrimPrefix(data, "@"))
	}
	return []byte(data), nil
}

// getPassword returns the password from the flag, the environment, or a prompt.
func getPassword(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPass := os.Getenv("RESTAUTH_PASSWORD"); envPass != "" {
		return envPass
	}

	fmt.Fprint(os.Stderr, "Password: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		passBytes, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return ""
		}
		return string(passBytes)
	}

	// Not a terminal (piped input): read line
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
