// Package command models each S3 REST operation as a short-lived struct
// consumed once by the request executor: it contributes an HTTP method,
// mutates the request URL (typically to append an object key or query
// parameters), contributes headers, and produces a body.
package command

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/ethanadams/s3gate/body"
)

// Command is the polymorphic unit the executor consumes. A command is
// constructed fresh per call and is not reused.
type Command interface {
	HTTPMethod() string
	UpdateURL(u *url.URL) *url.URL
	Headers(h http.Header)
	IntoBody() (body.Body, error)
}

// BucketCommand marks a Command that addresses an object within a
// particular bucket (as opposed to an account-level operation).
type BucketCommand interface {
	Command
	bucketCommand()
}

// AccountCommand marks a Command that addresses the account/endpoint
// itself rather than a specific bucket, e.g. ListBuckets.
type AccountCommand interface {
	Command
	accountCommand()
}

// ByteRange is an inclusive byte range for a GetObject Range header.
type ByteRange struct {
	Start, End int64 // End of -1 means "to the end of the object"
}

func (r ByteRange) header() string {
	if r.End < 0 {
		return fmt.Sprintf("bytes=%d-", r.Start)
	}
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}
