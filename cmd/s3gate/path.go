package main

import (
	"errors"
	"strings"
)

// ErrInvalidPath is returned by ParsePath when path is empty or too
// short to supply whatever service/bucket the caller didn't give
// explicitly.
var ErrInvalidPath = errors.New("s3gate: invalid path")

// ParsePath resolves a CLI path argument into (service, bucket, key)
// given whatever the caller already supplied via --service/--bucket
// flags:
//
//   - neither given: the first two path segments supply service and
//     bucket, the rest is the key.
//   - exactly one given: the first path segment supplies the other, the
//     rest is the key.
//   - both given: the entire path is the key.
func ParsePath(path, explicitService, explicitBucket string) (service, bucket, key string, err error) {
	trimmed := strings.Trim(path, "/")

	switch {
	case explicitService != "" && explicitBucket != "":
		if trimmed == "" {
			return "", "", "", ErrInvalidPath
		}
		return explicitService, explicitBucket, trimmed, nil

	case explicitService != "" && explicitBucket == "":
		b, rest, ok := splitFirst(trimmed)
		if !ok {
			return "", "", "", ErrInvalidPath
		}
		return explicitService, b, rest, nil

	case explicitService == "" && explicitBucket != "":
		s, rest, ok := splitFirst(trimmed)
		if !ok {
			return "", "", "", ErrInvalidPath
		}
		return s, explicitBucket, rest, nil

	default:
		s, afterService, ok := splitFirst(trimmed)
		if !ok {
			return "", "", "", ErrInvalidPath
		}
		b, rest, ok := splitFirst(afterService)
		if !ok {
			return "", "", "", ErrInvalidPath
		}
		return s, b, rest, nil
	}
}

// splitFirst returns the first "/"-delimited segment of s and the
// remainder, or ok=false if s has no non-empty first segment.
func splitFirst(s string) (first, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	idx := strings.IndexByte(s, '/')
	if idx < 0 {
		return s, "", true
	}
	return s[:idx], s[idx+1:], true
}

// FormatPath is the inverse of ParsePath when neither service nor
// bucket was supplied explicitly: it joins service, bucket and key with
// delimiter, leaving the key out when it is empty.
func FormatPath(service, bucket, key, delimiter string) string {
	parts := []string{service, bucket}
	if key != "" {
		parts = append(parts, key)
	}
	return strings.Join(parts, delimiter)
}
