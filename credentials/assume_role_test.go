package credentials

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func writeTokenFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("web-identity-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func stsResponseXML(accessKey, secretKey, sessionToken string, expiration time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<AssumeRoleWithWebIdentityResponse xmlns="https://sts.amazonaws.com/doc/2011-06-15/">
  <AssumeRoleWithWebIdentityResult>
    <Credentials>
      <AccessKeyId>%s</AccessKeyId>
      <SecretAccessKey>%s</SecretAccessKey>
      <SessionToken>%s</SessionToken>
      <Expiration>%s</Expiration>
    </Credentials>
    <AssumedRoleUser>
      <Arn>arn:aws:sts::123456789012:assumed-role/test/session</Arn>
      <AssumedRoleId>AROAEXAMPLE:session</AssumedRoleId>
    </AssumedRoleUser>
  </AssumeRoleWithWebIdentityResult>
  <ResponseMetadata>
    <RequestId>request-id</RequestId>
  </ResponseMetadata>
</AssumeRoleWithWebIdentityResponse>`, accessKey, secretKey, sessionToken, expiration.UTC().Format(time.RFC3339))
}

// TestProvideCachesAcrossCalls reproduces spec scenario 5: two
// sequential Provide calls against a not-yet-expired cache must result
// in exactly one mock STS request.
func TestProvideCachesAcrossCalls(t *testing.T) {
	var requests int32
	expiration := time.Now().Add(time.Hour)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		fmt.Fprint(w, stsResponseXML("AKIAFRESH", "secretFresh", "tokenFresh", expiration))
	}))
	defer server.Close()

	p, err := NewAssumeRoleWithWebIdentity("arn:aws:iam::123456789012:role/test", writeTokenFile(t), server.URL, "session", server.Client())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	c1, err := p.Provide(ctx)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := p.Provide(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c1 != c2 {
		t.Fatalf("expected identical cached record, got %+v and %+v", c1, c2)
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Fatalf("expected exactly 1 STS request, got %d", got)
	}
}

// TestProvideRefreshesAfterExpiration advances past the cached
// expiration and checks a second STS call is made.
func TestProvideRefreshesAfterExpiration(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		exp := time.Now().Add(-time.Minute) // already expired, forces a refresh on next call
		if n > 1 {
			exp = time.Now().Add(time.Hour)
		}
		fmt.Fprint(w, stsResponseXML("AK", "SK", "TOKEN", exp))
	}))
	defer server.Close()

	p, err := NewAssumeRoleWithWebIdentity("arn:role", writeTokenFile(t), server.URL, "session", server.Client())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := p.Provide(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Provide(ctx); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Fatalf("expected 2 STS requests across the expiry boundary, got %d", got)
	}
}

// TestProvideConcurrentMissesTriggerOneRefresh checks property 6: many
// concurrent callers racing a cold cache must trigger at most one STS
// call, with the rest observing the refreshed record once it lands.
func TestProvideConcurrentMissesTriggerOneRefresh(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, stsResponseXML("AK", "SK", "TOKEN", time.Now().Add(time.Hour)))
	}))
	defer server.Close()

	p, err := NewAssumeRoleWithWebIdentity("arn:role", writeTokenFile(t), server.URL, "session", server.Client())
	if err != nil {
		t.Fatal(err)
	}

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.Provide(context.Background())
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Fatalf("expected exactly 1 STS request for %d concurrent misses, got %d", n, got)
	}
	if !p.IsValid() {
		t.Fatal("expected a valid cached record after concurrent refresh")
	}
}

func TestForceRefreshIgnoresValidCache(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		fmt.Fprint(w, stsResponseXML("AK", "SK", "TOKEN", time.Now().Add(time.Hour)))
	}))
	defer server.Close()

	p, err := NewAssumeRoleWithWebIdentity("arn:role", writeTokenFile(t), server.URL, "session", server.Client())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := p.Provide(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ForceRefresh(ctx); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Fatalf("ForceRefresh should always call STS even with a valid cache, got %d requests", got)
	}
}

func TestProvideSurfacesNon2xxAsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	p, err := NewAssumeRoleWithWebIdentity("arn:role", writeTokenFile(t), server.URL, "session", server.Client())
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Provide(context.Background())
	var perr *ProviderError
	if err == nil {
		t.Fatal("expected an error for a 403 STS response")
	}
	if pe, ok := err.(*ProviderError); ok {
		perr = pe
	} else {
		t.Fatalf("got %T, want *ProviderError", err)
	}
	if perr.StatusCode != http.StatusForbidden {
		t.Fatalf("StatusCode = %d, want 403", perr.StatusCode)
	}
	if p.IsValid() {
		t.Fatal("a failed refresh must leave the cache empty")
	}
}

func TestProvideMissingTokenFileIsProviderError(t *testing.T) {
	p, err := NewAssumeRoleWithWebIdentity("arn:role", "/nonexistent/token/path", "https://sts.amazonaws.com", "session", http.DefaultClient)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Provide(context.Background())
	if _, ok := err.(*ProviderError); !ok {
		t.Fatalf("got %T (%v), want *ProviderError", err, err)
	}
}

func TestStaticProviderAlwaysReturnsSameRecord(t *testing.T) {
	p := NewStatic("AK", "SK")
	c1, err := p.Provide(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	c2, _ := p.Provide(context.Background())
	if c1 != c2 {
		t.Fatalf("static provider returned different records: %+v vs %+v", c1, c2)
	}
	if c1.Expired(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Fatal("static credentials must never expire")
	}
}

func TestEqualComparesConfigAndCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, stsResponseXML("AK", "SK", "TOKEN", time.Now().Add(time.Hour)))
	}))
	defer server.Close()

	tokenFile := writeTokenFile(t)
	a, err := NewAssumeRoleWithWebIdentity("arn:role", tokenFile, server.URL, "session", server.Client())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewAssumeRoleWithWebIdentity("arn:role", tokenFile, server.URL, "session", server.Client())
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("freshly constructed providers with identical config should be equal")
	}
	if _, err := a.Provide(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.Equal(b) {
		t.Fatal("providers with differing cache state should not be equal")
	}
}
