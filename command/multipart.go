package command

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/ethanadams/s3gate/body"
	"github.com/ethanadams/s3gate/region"
	"github.com/ethanadams/s3gate/s3xml"
)

// CreateMultipartUpload starts a multipart upload for Key and returns an
// UploadID the caller threads through subsequent parts.
type CreateMultipartUpload struct {
	Key         string
	ContentType string
}

func (CreateMultipartUpload) bucketCommand() {}

func (c CreateMultipartUpload) HTTPMethod() string { return http.MethodPost }

func (c CreateMultipartUpload) UpdateURL(u *url.URL) *url.URL {
	out := *region.AppendPath(u, c.Key)
	q := out.Query()
	q.Set("uploads", "")
	out.RawQuery = q.Encode()
	return &out
}

func (c CreateMultipartUpload) Headers(h http.Header) {
	if c.ContentType != "" {
		h.Set("Content-Type", c.ContentType)
	}
}

func (c CreateMultipartUpload) IntoBody() (body.Body, error) { return body.None(), nil }

// UploadPart uploads one part of an in-progress multipart upload.
type UploadPart struct {
	Key        string
	UploadID   string
	PartNumber int
	Body       body.Body
}

func (UploadPart) bucketCommand() {}

func (c UploadPart) HTTPMethod() string { return http.MethodPut }

func (c UploadPart) UpdateURL(u *url.URL) *url.URL {
	out := *region.AppendPath(u, c.Key)
	q := out.Query()
	q.Set("partNumber", strconv.Itoa(c.PartNumber))
	q.Set("uploadId", c.UploadID)
	out.RawQuery = q.Encode()
	return &out
}

func (c UploadPart) Headers(h http.Header) {}

func (c UploadPart) IntoBody() (body.Body, error) { return c.Body, nil }

// CompleteMultipartUpload finalizes an upload by submitting the ordered
// part ETags.
type CompleteMultipartUpload struct {
	Key      string
	UploadID string
	Parts    []s3xml.CompletedPart
}

func (CompleteMultipartUpload) bucketCommand() {}

func (c CompleteMultipartUpload) HTTPMethod() string { return http.MethodPost }

func (c CompleteMultipartUpload) UpdateURL(u *url.URL) *url.URL {
	out := *region.AppendPath(u, c.Key)
	q := out.Query()
	q.Set("uploadId", c.UploadID)
	out.RawQuery = q.Encode()
	return &out
}

func (c CompleteMultipartUpload) Headers(h http.Header) {}

func (c CompleteMultipartUpload) IntoBody() (body.Body, error) {
	return body.FromXML(s3xml.CompleteMultipartUpload{Parts: c.Parts})
}

// AbortMultipartUpload cancels an in-progress multipart upload, releasing
// any parts already stored for it.
type AbortMultipartUpload struct {
	Key      string
	UploadID string
}

func (AbortMultipartUpload) bucketCommand() {}

func (c AbortMultipartUpload) HTTPMethod() string { return http.MethodDelete }

func (c AbortMultipartUpload) UpdateURL(u *url.URL) *url.URL {
	out := *region.AppendPath(u, c.Key)
	q := out.Query()
	q.Set("uploadId", c.UploadID)
	out.RawQuery = q.Encode()
	return &out
}

func (c AbortMultipartUpload) Headers(h http.Header) {}

func (c AbortMultipartUpload) IntoBody() (body.Body, error) { return body.None(), nil }
