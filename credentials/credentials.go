// Package credentials supplies the executor with (access key, secret
// key, optional session token) pairs: either a fixed static pair, or one
// refreshed on demand from an STS AssumeRoleWithWebIdentity endpoint,
// cached behind a read/write lock with a double-checked refresh.
package credentials

import (
	"context"
	"time"
)

// Credentials is an immutable (access_key, secret_key) pair, optionally
// carrying a session token and expiration when sourced from STS. A
// refresh produces a new Credentials value rather than mutating one.
type Credentials struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Expiration   time.Time
}

// HasSessionToken reports whether this record carries a temporary STS
// session token that must be sent as x-amz-security-token.
func (c Credentials) HasSessionToken() bool {
	return c.SessionToken != ""
}

// Expired reports whether the record is stale as of now. A record with a
// zero Expiration (static credentials) never expires.
func (c Credentials) Expired(now time.Time) bool {
	return !c.Expiration.IsZero() && !c.Expiration.After(now)
}

// Provider resolves credentials, safely for concurrent callers.
type Provider interface {
	Name() string
	Provide(ctx context.Context) (Credentials, error)
}
