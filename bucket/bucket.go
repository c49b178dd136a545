// Package bucket provides a per-bucket convenience facade over client.Client,
// translating the S3 REST quirk of "404 means absent" into idiomatic Go
// (value, false, nil) results for the handful of operations where that
// distinction matters to callers.
package bucket

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ethanadams/s3gate/body"
	"github.com/ethanadams/s3gate/client"
	"github.com/ethanadams/s3gate/command"
	"github.com/ethanadams/s3gate/s3xml"
)

// Client binds a client.Client to one bucket name.
type Client struct {
	client *client.Client
	bucket string
}

// New returns a facade for bucket over c.
func New(c *client.Client, bucket string) *Client {
	return &Client{client: c, bucket: bucket}
}

// ObjectInfo is the metadata HeadObject reports for a present object.
type ObjectInfo struct {
	ContentLength int64
	ContentType   string
	ETag          string
	LastModified  string
}

// HeadObject reports whether key exists and, if so, its metadata. A 404
// response is translated to (nil, false, nil) rather than an error.
func (b *Client) HeadObject(ctx context.Context, key string) (*ObjectInfo, bool, error) {
	resp, err := b.client.Execute(ctx, b.bucket, command.HeadObject{Key: key})
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	defer io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode >= 300 {
		return nil, false, statusError(resp)
	}

	length, _ := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	return &ObjectInfo{
		ContentLength: length,
		ContentType:   resp.Header.Get("Content-Type"),
		ETag:          resp.Header.Get("ETag"),
		LastModified:  resp.Header.Get("Last-Modified"),
	}, true, nil
}

// GetObjectTagging fetches key's tag set. A 404 is translated to
// (nil, false, nil).
func (b *Client) GetObjectTagging(ctx context.Context, key string) (*s3xml.Tagging, bool, error) {
	resp, err := b.client.Execute(ctx, b.bucket, command.GetObjectTagging{Key: key})
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, false, nil
	}
	if resp.StatusCode >= 300 {
		return nil, false, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("bucket: reading tagging response: %w", err)
	}
	var tagging s3xml.Tagging
	if err := xml.Unmarshal(data, &tagging); err != nil {
		return nil, false, fmt.Errorf("bucket: parsing tagging response: %w", err)
	}
	return &tagging, true, nil
}

// ListObjectsV2 returns one page of a bucket listing.
func (b *Client) ListObjectsV2(ctx context.Context, prefix, delimiter, continuationToken string, maxKeys int) (*s3xml.ListBucketResult, error) {
	resp, err := b.client.Execute(ctx, b.bucket, command.ListObjectsV2{
		Prefix:            prefix,
		Delimiter:         delimiter,
		ContinuationToken: continuationToken,
		MaxKeys:           maxKeys,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bucket: reading list response: %w", err)
	}
	var result s3xml.ListBucketResult
	if err := xml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("bucket: parsing list response: %w", err)
	}
	return &result, nil
}

// ListAllObjects pages through every object under prefix, invoking visit
// once per page. Pagination stops as soon as visit returns an error or
// the server reports no further pages.
func (b *Client) ListAllObjects(ctx context.Context, prefix, delimiter string, pageSize int, visit func(*s3xml.ListBucketResult) error) error {
	token := ""
	for {
		page, err := b.ListObjectsV2(ctx, prefix, delimiter, token, pageSize)
		if err != nil {
			return err
		}
		if err := visit(page); err != nil {
			return err
		}
		if !page.IsTruncated || page.NextContinuationToken == "" {
			return nil
		}
		token = page.NextContinuationToken
	}
}

// GetObject fetches key. The caller owns and must close resp.Body.
func (b *Client) GetObject(ctx context.Context, key string, rng *command.ByteRange) (*http.Response, error) {
	resp, err := b.client.Execute(ctx, b.bucket, command.GetObject{Key: key, Range: rng})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

// PutObject uploads body under key.
func (b *Client) PutObject(ctx context.Context, key string, content body.Body, contentType string) error {
	resp, err := b.client.Execute(ctx, b.bucket, command.PutObject{Key: key, Body: content, ContentType: contentType})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	defer io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	return nil
}

// DeleteObject removes key.
func (b *Client) DeleteObject(ctx context.Context, key string) error {
	resp, err := b.client.Execute(ctx, b.bucket, command.DeleteObject{Key: key})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	defer io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	return nil
}

// CreateMultipartUpload starts a multipart upload for key and returns
// the UploadID to pass to subsequent parts.
func (b *Client) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	resp, err := b.client.Execute(ctx, b.bucket, command.CreateMultipartUpload{Key: key, ContentType: contentType})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", statusError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("bucket: reading create-multipart response: %w", err)
	}
	var result s3xml.InitiateMultipartUploadResult
	if err := xml.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("bucket: parsing create-multipart response: %w", err)
	}
	return result.UploadID, nil
}

// UploadPart uploads one part of uploadID and returns its ETag.
func (b *Client) UploadPart(ctx context.Context, key, uploadID string, partNumber int, content body.Body) (string, error) {
	resp, err := b.client.Execute(ctx, b.bucket, command.UploadPart{
		Key: key, UploadID: uploadID, PartNumber: partNumber, Body: content,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	defer io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return "", statusError(resp)
	}
	return resp.Header.Get("ETag"), nil
}

// CompleteMultipartUpload finalizes uploadID from its ordered parts.
func (b *Client) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []s3xml.CompletedPart) (*s3xml.CompleteMultipartUploadResult, error) {
	resp, err := b.client.Execute(ctx, b.bucket, command.CompleteMultipartUpload{Key: key, UploadID: uploadID, Parts: parts})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bucket: reading complete-multipart response: %w", err)
	}
	var result s3xml.CompleteMultipartUploadResult
	if err := xml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("bucket: parsing complete-multipart response: %w", err)
	}
	return &result, nil
}

// AbortMultipartUpload cancels uploadID.
func (b *Client) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	resp, err := b.client.Execute(ctx, b.bucket, command.AbortMultipartUpload{Key: key, UploadID: uploadID})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	defer io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	return nil
}

// StatusError reports a non-2xx S3 response, parsed as the standard S3
// error XML body where possible.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("bucket: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("bucket: unexpected status %d", e.StatusCode)
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	var xerr s3xml.Error
	_ = xml.Unmarshal(data, &xerr)
	return &StatusError{StatusCode: resp.StatusCode, Code: xerr.Code, Message: xerr.Message}
}
