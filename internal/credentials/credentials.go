// Package credentials supplies the bearer token to the request client.
//
// The request path only reads tokens through Provider. Login and logout flows
// write through Store.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrReadOnly is returned when writing to a provider that cannot persist tokens.
var ErrReadOnly = errors.New("token store is read-only")

// Provider yields the current bearer token; an empty string means none.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Store is a Provider that login and logout can write to.
type Store interface {
	Provider
	Set(token string) error
	Clear() error
	Close() error
}

// Options controls token retention for concrete stores.
type Options struct {
	// TTL applies when the token carries no readable expiry claim.
	TTL time.Duration
	Now func() time.Time
}

const defaultTokenTTL = 24 * time.Hour

// NewStore creates the configured token store.
func NewStore(typ, path, key string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "memory":
		return NewMemoryStore(opts), nil
	case "env":
		return envStore{name: key}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt token store requires a path")
		}
		return openBolt(path, key, opts)
	default:
		return nil, fmt.Errorf("unsupported token store type %q", typ)
	}
}

// NewMemoryStore returns a Store that keeps the token in process memory.
func NewMemoryStore(opts Options) Store {
	return &memoryStore{opts: normalizeOptions(opts)}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTokenTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

// Static is a fixed token.
type Static string

func (s Static) Token(context.Context) (string, error) { return strings.TrimSpace(string(s)), nil }

// expiryFor returns the JWT exp claim when present, else now+ttl. The token is
// not verified; the API remains the authority on validity.
func expiryFor(token string, now time.Time, ttl time.Duration) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return now.Add(ttl)
}

type noopStore struct{}

func (noopStore) Token(context.Context) (string, error) { return "", nil }
func (noopStore) Set(string) error                      { return nil }
func (noopStore) Clear() error                          { return nil }
func (noopStore) Close() error                          { return nil }

// envStore reads the token from an environment variable.
type envStore struct {
	name string
}

func (e envStore) Token(context.Context) (string, error) {
	return strings.TrimSpace(os.Getenv(e.name)), nil
}
func (envStore) Set(string) error { return ErrReadOnly }
func (envStore) Clear() error     { return ErrReadOnly }
func (envStore) Close() error     { return nil }
