package command

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/ethanadams/s3gate/body"
)

// ListObjectsV2 lists a page of objects under Prefix.
type ListObjectsV2 struct {
	Prefix            string
	Delimiter         string
	ContinuationToken string
	MaxKeys           int
}

func (ListObjectsV2) bucketCommand() {}

func (c ListObjectsV2) HTTPMethod() string { return http.MethodGet }

func (c ListObjectsV2) UpdateURL(u *url.URL) *url.URL {
	q := u.Query()
	q.Set("list-type", "2")
	if c.Prefix != "" {
		q.Set("prefix", c.Prefix)
	}
	if c.Delimiter != "" {
		q.Set("delimiter", c.Delimiter)
	}
	if c.ContinuationToken != "" {
		q.Set("continuation-token", c.ContinuationToken)
	}
	if c.MaxKeys > 0 {
		q.Set("max-keys", strconv.Itoa(c.MaxKeys))
	}
	out := *u
	out.RawQuery = q.Encode()
	return &out
}

func (c ListObjectsV2) Headers(h http.Header) {}

func (c ListObjectsV2) IntoBody() (body.Body, error) { return body.None(), nil }

// ListBuckets lists every bucket visible to the caller's credentials.
type ListBuckets struct{}

func (ListBuckets) accountCommand() {}

func (c ListBuckets) HTTPMethod() string { return http.MethodGet }

func (c ListBuckets) UpdateURL(u *url.URL) *url.URL { return u }

func (c ListBuckets) Headers(h http.Header) {}

func (c ListBuckets) IntoBody() (body.Body, error) { return body.None(), nil }
