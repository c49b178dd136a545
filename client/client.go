// Package client implements the request executor (§4.7): given a
// Command, it resolves credentials, builds the canonical request,
// derives the signing key, attaches the Authorization header, and
// dispatches the request over an HTTPDoer. This is the one place in the
// module where all the other packages (region, signing, stream, body,
// credentials) meet.
package client

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ethanadams/s3gate/body"
	"github.com/ethanadams/s3gate/command"
	"github.com/ethanadams/s3gate/credentials"
	"github.com/ethanadams/s3gate/internal/metrics"
	"github.com/ethanadams/s3gate/region"
	"github.com/ethanadams/s3gate/signing"
	"github.com/ethanadams/s3gate/stream"
	"github.com/ethanadams/s3gate/transport"
	"github.com/oklog/ulid/v2"
)

// Client is a configured signer/executor bound to one endpoint, region
// and credentials provider. A Client is safe for concurrent use: all of
// its fields are either immutable after construction or internally
// synchronized (credentials.Provider).
type Client struct {
	Doer        transport.HTTPDoer
	Credentials credentials.Provider
	Region      region.Region
	AccessType  region.AccessType
	UserAgent   string
	Metrics     *metrics.Collector // optional; nil is a valid no-op
}

// New builds a Client. doer defaults to http.DefaultClient when nil.
// UserAgent defaults to the S3GATE_USER_AGENT environment variable, if
// set, and can be overridden afterward via the UserAgent field.
func New(doer transport.HTTPDoer, provider credentials.Provider, reg region.Region, accessType region.AccessType) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{Doer: doer, Credentials: provider, Region: reg, AccessType: accessType, UserAgent: os.Getenv("S3GATE_USER_AGENT")}
}

// requestID generates a ULID for request tracing, following the
// reference implementation's use of a monotonically-sortable id to
// correlate a signed request with its response in logs.
func requestID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ExecuteAccount signs and dispatches an AccountCommand, which addresses
// the endpoint itself rather than any one bucket.
func (c *Client) ExecuteAccount(ctx context.Context, cmd command.AccountCommand) (*http.Response, error) {
	return c.Execute(ctx, "", cmd)
}

// Execute signs and dispatches cmd against the given bucket ("" for
// account-level commands such as ListBuckets) and returns the raw HTTP
// response. The caller owns the response body.
func (c *Client) Execute(ctx context.Context, bucket string, cmd command.Command) (*http.Response, error) {
	label := commandLabel(cmd)
	start := time.Now()
	reqID := requestID()

	resp, err := c.execute(ctx, bucket, cmd, reqID)

	if c.Metrics != nil {
		c.Metrics.RecordRequest(label, time.Since(start), err == nil && resp != nil && resp.StatusCode < 400)
	}
	return resp, err
}

func (c *Client) execute(ctx context.Context, bucket string, cmd command.Command, reqID string) (*http.Response, error) {
	creds, err := c.Credentials.Provide(ctx)
	if err != nil {
		return nil, fmt.Errorf("client: resolving credentials: %w", err)
	}

	baseURL, err := c.Region.BaseURL(c.AccessType, bucket)
	if err != nil {
		return nil, fmt.Errorf("client: building base url: %w", err)
	}
	reqURL := cmd.UpdateURL(baseURL)

	now := time.Now().UTC()
	headers := make(http.Header)
	headers.Set("Host", c.Region.HostHeader(c.AccessType, bucket))
	headers.Set("x-amz-date", now.Format(signing.LongDateFormat))
	headers.Set("X-Amzn-Trace-Id", reqID)
	if c.UserAgent != "" {
		headers.Set("User-Agent", c.UserAgent)
	}
	if creds.HasSessionToken() {
		headers.Set("x-amz-security-token", creds.SessionToken)
	}
	cmd.Headers(headers)

	rawBody, err := cmd.IntoBody()
	if err != nil {
		return nil, fmt.Errorf("client: building body: %w", err)
	}
	rawBody, err = body.Materialize(rawBody)
	if err != nil {
		return nil, fmt.Errorf("client: materializing body: %w", err)
	}

	var reqReader io.Reader
	var chunkCount int

	switch rawBody.Kind {
	case body.KindNone:
		headers.Set("x-amz-content-sha256", signing.EmptyPayloadHash)
		headers.Set("Content-Length", "0")
	case body.KindFixed:
		sum := signing.HashPayload(rawBody.Fixed)
		headers.Set("x-amz-content-sha256", sum)
		headers.Set("Content-Length", fmt.Sprintf("%d", len(rawBody.Fixed)))
		reqReader = bytesReader(rawBody.Fixed)
	case body.KindLargeStream:
		headers.Set("x-amz-content-sha256", signing.StreamingPayloadHash)
		headers.Set("Transfer-Encoding", "chunked")
		headers.Set("Content-Encoding", "aws-chunked")
		headers.Set("x-amz-decoded-content-length", fmt.Sprintf("%d", rawBody.ContentLength))
	default:
		return nil, fmt.Errorf("client: unexpected body kind %d after materialize", rawBody.Kind)
	}

	canon := signing.CanonicalRequest{
		Method:    cmd.HTTPMethod(),
		URL:       reqURL,
		SHA256:    headers.Get("x-amz-content-sha256"),
		Headers:   headers,
		Timestamp: now,
		Region:    c.Region.Name(),
	}

	signingKey := signing.DeriveKey(creds.SecretKey, c.Region.Name(), now)
	seedSignature := canon.Sign(signingKey)

	if rawBody.Kind == body.KindLargeStream {
		minReader := stream.NewMinSizeReader(rawBody.Stream, rawBody.ChunkSize, rawBody.ContentLength)
		chunked := stream.NewChunkedReader(minReader, signingKey, now, c.Region.Name(), seedSignature)
		reqReader = chunked
		chunkCount = estimateChunkCount(rawBody.ContentLength, rawBody.ChunkSize)
	}

	auth := signing.AuthorizationHeader{
		AccessKey:     creds.AccessKey,
		Request:       canon,
		SigningKey:    signingKey,
		SignedHeaders: canon.SignedHeaders(),
	}
	authValue, err := auth.Value()
	if err != nil {
		return nil, fmt.Errorf("client: building authorization header: %w", err)
	}
	headers.Set("Authorization", authValue)
	headers.Set("Date", now.Format(time.RFC1123Z))

	httpReq, err := http.NewRequestWithContext(ctx, cmd.HTTPMethod(), reqURL.String(), reqReader)
	if err != nil {
		return nil, fmt.Errorf("client: building http request: %w", err)
	}
	httpReq.Header = headers
	switch rawBody.Kind {
	case body.KindFixed:
		httpReq.ContentLength = int64(len(rawBody.Fixed))
	case body.KindLargeStream:
		httpReq.ContentLength = -1
	}

	resp, err := c.Doer.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("client: transport: %w", err)
	}

	if c.Metrics != nil {
		label := commandLabel(cmd)
		switch rawBody.Kind {
		case body.KindFixed:
			c.Metrics.RecordBytes(label, "up", int64(len(rawBody.Fixed)))
		case body.KindLargeStream:
			c.Metrics.RecordBytes(label, "up", rawBody.ContentLength)
			c.Metrics.RecordChunks(label, chunkCount)
		}
	}

	return resp, nil
}

func bytesReader(b []byte) io.Reader {
	if len(b) == 0 {
		return nil
	}
	return &byteSliceReader{b: b}
}

// byteSliceReader avoids pulling in bytes.Reader's Seek/ReadAt surface
// the executor never needs.
type byteSliceReader struct {
	b []byte
	i int
}

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}

func estimateChunkCount(contentLength int64, chunkSize int) int {
	if chunkSize <= 0 {
		return 1
	}
	n := int(contentLength / int64(chunkSize))
	if contentLength%int64(chunkSize) != 0 {
		n++
	}
	return n + 1 // plus the terminating zero-length chunk
}

func commandLabel(cmd command.Command) string {
	return fmt.Sprintf("%T", cmd)
}
