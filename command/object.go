package command

import (
	"net/http"
	"net/url"

	"github.com/ethanadams/s3gate/body"
	"github.com/ethanadams/s3gate/region"
)

// PutObject uploads Body under Key, optionally tagged and with
// user metadata surfaced as x-amz-meta-* headers.
type PutObject struct {
	Key         string
	Body        body.Body
	ContentType string
	Tags        string // URL-encoded key=value&... form, per x-amz-tagging
	Metadata    map[string]string
}

func (PutObject) bucketCommand() {}

func (c PutObject) HTTPMethod() string { return http.MethodPut }

func (c PutObject) UpdateURL(u *url.URL) *url.URL { return region.AppendPath(u, c.Key) }

func (c PutObject) Headers(h http.Header) {
	if c.ContentType != "" {
		h.Set("Content-Type", c.ContentType)
	}
	if c.Tags != "" {
		h.Set("x-amz-tagging", c.Tags)
	}
	for k, v := range c.Metadata {
		h.Set("x-amz-meta-"+k, v)
	}
}

func (c PutObject) IntoBody() (body.Body, error) { return c.Body, nil }

// GetObject retrieves Key, optionally restricted to Range.
type GetObject struct {
	Key   string
	Range *ByteRange
}

func (GetObject) bucketCommand() {}

func (c GetObject) HTTPMethod() string { return http.MethodGet }

func (c GetObject) UpdateURL(u *url.URL) *url.URL { return region.AppendPath(u, c.Key) }

func (c GetObject) Headers(h http.Header) {
	if c.Range != nil {
		h.Set("Range", c.Range.header())
	}
}

func (c GetObject) IntoBody() (body.Body, error) { return body.None(), nil }

// HeadObject fetches only the metadata headers for Key.
type HeadObject struct {
	Key string
}

func (HeadObject) bucketCommand() {}

func (c HeadObject) HTTPMethod() string { return http.MethodHead }

func (c HeadObject) UpdateURL(u *url.URL) *url.URL { return region.AppendPath(u, c.Key) }

func (c HeadObject) Headers(h http.Header) {}

func (c HeadObject) IntoBody() (body.Body, error) { return body.None(), nil }

// DeleteObject removes Key.
type DeleteObject struct {
	Key string
}

func (DeleteObject) bucketCommand() {}

func (c DeleteObject) HTTPMethod() string { return http.MethodDelete }

func (c DeleteObject) UpdateURL(u *url.URL) *url.URL { return region.AppendPath(u, c.Key) }

func (c DeleteObject) Headers(h http.Header) {}

func (c DeleteObject) IntoBody() (body.Body, error) { return body.None(), nil }
