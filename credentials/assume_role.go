package credentials

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethanadams/s3gate/s3xml"
	"github.com/ethanadams/s3gate/transport"
)

// AssumeRoleWithWebIdentity resolves credentials by exchanging an
// OIDC web-identity token (read from a file, typically projected by a
// Kubernetes service account) for temporary STS credentials, caching
// the result until it is within its expiration.
type AssumeRoleWithWebIdentity struct {
	RoleARN             string
	WebIdentityTokenFile string
	STSEndpoint         *url.URL
	SessionName         string
	Timeout             time.Duration // 0 = no per-refresh timeout
	TokenDuration       time.Duration // 0 = omit DurationSeconds
	Doer                transport.HTTPDoer

	mu     sync.RWMutex
	cached *Credentials
}

// NewAssumeRoleWithWebIdentity constructs a provider. sessionName
// defaults to "aws-creds" and stsEndpoint defaults to
// https://sts.amazonaws.com when empty, matching the AWS CLI's own
// defaults for this credential source.
func NewAssumeRoleWithWebIdentity(roleARN, tokenFile, stsEndpoint, sessionName string, doer transport.HTTPDoer) (*AssumeRoleWithWebIdentity, error) {
	if sessionName == "" {
		sessionName = "aws-creds"
	}
	if stsEndpoint == "" {
		stsEndpoint = "https://sts.amazonaws.com"
	}
	u, err := url.Parse(stsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("credentials: parsing sts endpoint: %w", err)
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	return &AssumeRoleWithWebIdentity{
		RoleARN:              roleARN,
		WebIdentityTokenFile: tokenFile,
		STSEndpoint:          u,
		SessionName:          sessionName,
		Doer:                 doer,
	}, nil
}

func (a *AssumeRoleWithWebIdentity) Name() string { return "AssumeRoleWithWebIdentityProvider" }

// IsValid reports whether a non-expired cached record exists right now.
func (a *AssumeRoleWithWebIdentity) IsValid() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cached != nil && !a.cached.Expired(time.Now())
}

// Provide implements the double-checked-refresh cache described in §4.8:
// a read-lock fast path for the common case, a write-lock slow path that
// clears the cache before attempting a refresh so concurrent readers see
// absence rather than stale data, and a re-check inside the write lock so
// only one goroutine actually calls STS per expiry.
func (a *AssumeRoleWithWebIdentity) Provide(ctx context.Context) (Credentials, error) {
	now := time.Now()

	a.mu.RLock()
	if a.cached != nil && !a.cached.Expired(now) {
		c := *a.cached
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Re-check under the write lock: another goroutine may have already
	// refreshed while we waited for it.
	if a.cached != nil && !a.cached.Expired(time.Now()) {
		return *a.cached, nil
	}

	a.cached = nil
	fresh, err := a.refresh(ctx)
	if err != nil {
		return Credentials{}, err
	}
	a.cached = &fresh
	return fresh, nil
}

// ForceRefresh unconditionally calls STS and replaces the cache,
// regardless of whether the current cached record is still valid.
func (a *AssumeRoleWithWebIdentity) ForceRefresh(ctx context.Context) (Credentials, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cached = nil
	fresh, err := a.refresh(ctx)
	if err != nil {
		return Credentials{}, err
	}
	a.cached = &fresh
	return fresh, nil
}

// refresh performs the actual token-read + STS call. Caller must hold a.mu.
func (a *AssumeRoleWithWebIdentity) refresh(ctx context.Context) (Credentials, error) {
	token, err := a.readToken()
	if err != nil {
		return Credentials{}, &ProviderError{Op: "read web identity token", Err: err}
	}

	reqURL := a.buildRequestURL(token)

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return Credentials{}, &ProviderError{Op: "build sts request", Err: err}
	}

	resp, err := a.Doer.Do(req)
	if err != nil {
		return Credentials{}, &ProviderError{Op: "sts request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Credentials{}, &ProviderError{Op: "read sts response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Credentials{}, &ProviderError{Op: "sts request", StatusCode: resp.StatusCode}
	}

	var parsed s3xml.AssumeRoleWithWebIdentityResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return Credentials{}, &ProviderError{Op: "parse sts response", Err: err}
	}

	expiration, err := time.Parse(time.RFC3339, parsed.Result.Credentials.Expiration)
	if err != nil {
		return Credentials{}, &ProviderError{Op: "parse sts expiration", Err: err}
	}

	return Credentials{
		AccessKey:    parsed.Result.Credentials.AccessKeyID,
		SecretKey:    parsed.Result.Credentials.SecretAccessKey,
		SessionToken: parsed.Result.Credentials.SessionToken,
		Expiration:   expiration,
	}, nil
}

func (a *AssumeRoleWithWebIdentity) readToken() (string, error) {
	data, err := os.ReadFile(a.WebIdentityTokenFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (a *AssumeRoleWithWebIdentity) buildRequestURL(token string) *url.URL {
	q := url.Values{}
	q.Set("Action", "AssumeRoleWithWebIdentity")
	q.Set("Version", "2011-06-15")
	q.Set("RoleArn", a.RoleARN)
	q.Set("RoleSessionName", a.SessionName)
	q.Set("WebIdentityToken", token)
	if a.TokenDuration > 0 {
		q.Set("DurationSeconds", strconv.Itoa(int(a.TokenDuration.Seconds())))
	}
	u := *a.STSEndpoint
	u.RawQuery = q.Encode()
	return &u
}

// Equal reports whether a and other share the same configuration and
// currently-cached credentials. Each side's cache is read under its own
// read lock, so comparing two live providers never risks a deadlock or
// stalling either provider's request path.
func (a *AssumeRoleWithWebIdentity) Equal(other *AssumeRoleWithWebIdentity) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.RoleARN != other.RoleARN || a.WebIdentityTokenFile != other.WebIdentityTokenFile ||
		a.SessionName != other.SessionName || a.STSEndpoint.String() != other.STSEndpoint.String() ||
		a.Timeout != other.Timeout || a.TokenDuration != other.TokenDuration {
		return false
	}
	a.mu.RLock()
	ac := a.cached
	a.mu.RUnlock()
	other.mu.RLock()
	oc := other.cached
	other.mu.RUnlock()
	if (ac == nil) != (oc == nil) {
		return false
	}
	if ac == nil {
		return true
	}
	return *ac == *oc
}
