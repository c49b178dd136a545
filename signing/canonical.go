package signing

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// CanonicalRequest is the deterministic input to a SigV4 signature: a
// method, URL, content hash, and the header set that will actually be
// sent, bound to a point in time, region, and service.
type CanonicalRequest struct {
	Method    string
	URL       *url.URL
	SHA256    string
	Headers   http.Header
	Timestamp time.Time
	Region    string
}

// CanonicalURI percent-decodes the URL path and re-encodes it using the
// RFC-3986 unreserved set, keeping "/" literal. An empty path becomes "/".
func CanonicalURI(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		return "/"
	}
	decoded, err := url.PathUnescape(path)
	if err != nil {
		decoded = path
	}
	segments := strings.Split(decoded, "/")
	for i, seg := range segments {
		segments[i] = encodeRFC3986(seg)
	}
	encoded := strings.Join(segments, "/")
	if encoded == "" {
		return "/"
	}
	return encoded
}

// CanonicalQueryString sorts query pairs by (encoded key, encoded value)
// and percent-encodes both with "/" treated as reserved.
func CanonicalQueryString(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	values := u.Query()
	type pair struct{ k, v string }
	var pairs []pair
	for k, vs := range values {
		ek := encodeRFC3986(k)
		for _, v := range vs {
			pairs = append(pairs, pair{ek, encodeRFC3986(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].k != pairs[j].k {
			return pairs[i].k < pairs[j].k
		}
		return pairs[i].v < pairs[j].v
	})
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.k + "=" + p.v
	}
	return strings.Join(parts, "&")
}

// CanonicalHeaders lowercases header names, collapses internal whitespace
// in values, and emits "name:value\n" lines sorted by name. SignedHeaders
// is the matching ";"-joined sorted lowercase name list. The two are
// always built from the same header set so they necessarily agree.
func CanonicalHeaders(h http.Header) (canonical string, signedHeaders string) {
	names := make([]string, 0, len(h))
	lower := make(map[string]string, len(h))
	for name := range h {
		ln := strings.ToLower(name)
		names = append(names, ln)
		lower[ln] = name
	}
	sort.Strings(names)

	var b strings.Builder
	signed := make([]string, len(names))
	for i, ln := range names {
		orig := lower[ln]
		values := h.Values(orig)
		trimmed := make([]string, len(values))
		for j, v := range values {
			trimmed[j] = collapseWhitespace(v)
		}
		b.WriteString(ln)
		b.WriteByte(':')
		b.WriteString(strings.Join(trimmed, ","))
		b.WriteByte('\n')
		signed[i] = ln
	}
	return b.String(), strings.Join(signed, ";")
}

func collapseWhitespace(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// isUnreserved reports whether c is in the RFC-3986 unreserved set, the
// bytes that must never be percent-encoded.
func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

func encodeRFC3986(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
		}
	}
	return b.String()
}

// Content builds the canonical request string (§4.1). The canonical
// headers already end in "\n", so joining them to SignedHeaders with one
// more "\n" yields the single blank line the layout calls for.
func (c CanonicalRequest) Content() string {
	canonicalHeaders, signedHeaders := CanonicalHeaders(c.Headers)
	return strings.Join([]string{
		c.Method,
		CanonicalURI(c.URL),
		CanonicalQueryString(c.URL),
		canonicalHeaders,
		signedHeaders,
		c.SHA256,
	}, "\n")
}

// SignedHeaders returns just the ";"-joined sorted lowercase header names,
// without materializing the full canonical request.
func (c CanonicalRequest) SignedHeaders() string {
	_, signed := CanonicalHeaders(c.Headers)
	return signed
}

// Scope is the credential scope string tying a signature to a calendar
// day, region, and service: YYYYMMDD/<region>/s3/aws4_request.
func (c CanonicalRequest) Scope() string {
	return c.Timestamp.UTC().Format(ShortDateFormat) + "/" + c.Region + "/" + Service + "/aws4_request"
}

// StringToSign wraps the hashed canonical request per §4.1.
func (c CanonicalRequest) StringToSign() string {
	content := c.Content()
	sum := sha256.Sum256([]byte(content))
	return strings.Join([]string{
		Algorithm,
		c.Timestamp.UTC().Format(LongDateFormat),
		c.Scope(),
		hex.EncodeToString(sum[:]),
	}, "\n")
}

// Sign computes hex(HMAC-SHA256(signingKey, StringToSign())), the final
// request signature.
func (c CanonicalRequest) Sign(signingKey []byte) string {
	return hmacHex(signingKey, c.StringToSign())
}

// HashPayload returns the hex SHA-256 of b, used for Fixed/None bodies.
func HashPayload(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
