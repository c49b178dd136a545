package command

import (
	"net/http"
	"net/url"

	"github.com/ethanadams/s3gate/body"
	"github.com/ethanadams/s3gate/region"
	"github.com/ethanadams/s3gate/s3xml"
)

func withTaggingQuery(u *url.URL) *url.URL {
	out := *u
	q := out.Query()
	q.Set("tagging", "")
	out.RawQuery = q.Encode()
	return &out
}

// PutObjectTagging replaces the tag set on Key.
type PutObjectTagging struct {
	Key  string
	Tags s3xml.Tagging
}

func (PutObjectTagging) bucketCommand() {}

func (c PutObjectTagging) HTTPMethod() string { return http.MethodPut }

func (c PutObjectTagging) UpdateURL(u *url.URL) *url.URL {
	return withTaggingQuery(region.AppendPath(u, c.Key))
}

func (c PutObjectTagging) Headers(h http.Header) {}

func (c PutObjectTagging) IntoBody() (body.Body, error) { return body.FromXML(c.Tags) }

// GetObjectTagging fetches the tag set on Key.
type GetObjectTagging struct {
	Key string
}

func (GetObjectTagging) bucketCommand() {}

func (c GetObjectTagging) HTTPMethod() string { return http.MethodGet }

func (c GetObjectTagging) UpdateURL(u *url.URL) *url.URL {
	return withTaggingQuery(region.AppendPath(u, c.Key))
}

func (c GetObjectTagging) Headers(h http.Header) {}

func (c GetObjectTagging) IntoBody() (body.Body, error) { return body.None(), nil }

// DeleteObjectTagging clears the tag set on Key.
type DeleteObjectTagging struct {
	Key string
}

func (DeleteObjectTagging) bucketCommand() {}

func (c DeleteObjectTagging) HTTPMethod() string { return http.MethodDelete }

func (c DeleteObjectTagging) UpdateURL(u *url.URL) *url.URL {
	return withTaggingQuery(region.AppendPath(u, c.Key))
}

func (c DeleteObjectTagging) Headers(h http.Header) {}

func (c DeleteObjectTagging) IntoBody() (body.Body, error) { return body.None(), nil }
