package auth

import (
	"fmt"
	"strings"

	"github.com/samber/mo"
)

// Kind selects a credentials strategy.
type Kind string

const (
	// KindBasic uses BasicCredentials.
	KindBasic Kind = "basic"
	// KindHeader uses HeaderCredentials.
	KindHeader Kind = "header"
)

// ParseKind parses a strategy name. The empty string selects KindBasic.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindBasic:
		return KindBasic, nil
	case KindHeader:
		return KindHeader, nil
	default:
		return "", fmt.Errorf("auth: unknown credentials kind %q (want %q or %q)", s, KindBasic, KindHeader)
	}
}

// New creates the credentials strategy for kind.
func New(kind Kind, username string, password mo.Option[string]) (Credentials, error) {
	switch kind {
	case KindBasic:
		return NewBasicCredentials(username, password), nil
	case KindHeader:
		return NewHeaderCredentials(username, password), nil
	default:
		return nil, fmt.Errorf("auth: unknown credentials kind %q", kind)
	}
}
