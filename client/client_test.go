package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethanadams/s3gate/body"
	"github.com/ethanadams/s3gate/command"
	"github.com/ethanadams/s3gate/credentials"
	"github.com/ethanadams/s3gate/region"
	"github.com/ethanadams/s3gate/stream"
)

type capturedRequest struct {
	method  string
	url     string
	headers http.Header
	body    []byte
}

func newCapturingServer(t *testing.T, status int) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		captured.method = r.Method
		captured.url = r.URL.String()
		captured.headers = r.Header.Clone()
		captured.body = data
		w.WriteHeader(status)
	}))
	return server, captured
}

func testRegion(t *testing.T, serverURL string) region.Region {
	t.Helper()
	r, err := region.FromCustom(serverURL, "test-region")
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestExecuteFixedBodySetsContentHashAndLength(t *testing.T) {
	server, captured := newCapturingServer(t, 200)
	defer server.Close()

	c := New(server.Client(), credentials.NewStatic("AK", "SK"), testRegion(t, server.URL), region.PathStyle)

	resp, err := c.Execute(context.Background(), "my-bucket", command.PutObject{
		Key:  "obj.txt",
		Body: body.FromBytes([]byte("hello")),
	})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if captured.method != http.MethodPut {
		t.Fatalf("method = %s, want PUT", captured.method)
	}
	if !strings.HasSuffix(captured.url, "/my-bucket/obj.txt") {
		t.Fatalf("url = %s", captured.url)
	}
	wantHash := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if captured.headers.Get("x-amz-content-sha256") != wantHash {
		t.Fatalf("x-amz-content-sha256 = %s, want %s", captured.headers.Get("x-amz-content-sha256"), wantHash)
	}
	if captured.headers.Get("Content-Length") != "5" {
		t.Fatalf("Content-Length = %s, want 5", captured.headers.Get("Content-Length"))
	}
	if captured.headers.Get("Authorization") == "" {
		t.Fatal("missing Authorization header")
	}
	if captured.headers.Get("Transfer-Encoding") != "" {
		t.Fatal("a fixed body must not set Transfer-Encoding")
	}
	if string(captured.body) != "hello" {
		t.Fatalf("body = %q, want %q", captured.body, "hello")
	}
}

func TestExecuteNoneBodySetsEmptyHash(t *testing.T) {
	server, captured := newCapturingServer(t, 200)
	defer server.Close()

	c := New(server.Client(), credentials.NewStatic("AK", "SK"), testRegion(t, server.URL), region.PathStyle)
	resp, err := c.Execute(context.Background(), "my-bucket", command.HeadObject{Key: "obj.txt"})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if captured.headers.Get("x-amz-content-sha256") != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("unexpected content hash for empty body: %s", captured.headers.Get("x-amz-content-sha256"))
	}
	if captured.headers.Get("Content-Length") != "0" {
		t.Fatalf("Content-Length = %s, want 0", captured.headers.Get("Content-Length"))
	}
}

// TestExecuteSmallStreamCoercedToFixed reproduces spec scenario 6: a
// stream shorter than the chunk floor is materialized into a fixed
// body rather than chunked, with no Transfer-Encoding header set.
func TestExecuteSmallStreamCoercedToFixed(t *testing.T) {
	server, captured := newCapturingServer(t, 200)
	defer server.Close()

	content := bytes.Repeat([]byte("z"), 1000)
	b, err := body.WrapStream(bytes.NewReader(content), 1000, 0)
	if err != nil {
		t.Fatal(err)
	}

	c := New(server.Client(), credentials.NewStatic("AK", "SK"), testRegion(t, server.URL), region.PathStyle)
	resp, err := c.Execute(context.Background(), "my-bucket", command.PutObject{Key: "small.bin", Body: b})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if captured.headers.Get("Content-Length") != "1000" {
		t.Fatalf("Content-Length = %s, want 1000", captured.headers.Get("Content-Length"))
	}
	if captured.headers.Get("Transfer-Encoding") != "" {
		t.Fatal("small stream must not be sent chunked")
	}
	if len(captured.body) != 1000 {
		t.Fatalf("body length = %d, want 1000", len(captured.body))
	}
}

func TestExecuteLargeStreamUsesChunkedFraming(t *testing.T) {
	server, captured := newCapturingServer(t, 200)
	defer server.Close()

	content := bytes.Repeat([]byte("w"), stream.MinChunkSize*3)
	b, err := body.WrapStream(bytes.NewReader(content), int64(len(content)), stream.MinChunkSize)
	if err != nil {
		t.Fatal(err)
	}

	c := New(server.Client(), credentials.NewStatic("AK", "SK"), testRegion(t, server.URL), region.PathStyle)
	resp, err := c.Execute(context.Background(), "my-bucket", command.PutObject{Key: "big.bin", Body: b})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if captured.headers.Get("x-amz-content-sha256") != "STREAMING-AWS4-HMAC-SHA256-PAYLOAD" {
		t.Fatalf("got %s", captured.headers.Get("x-amz-content-sha256"))
	}
	if captured.headers.Get("Content-Encoding") != "aws-chunked" {
		t.Fatal("missing Content-Encoding: aws-chunked")
	}
	if captured.headers.Get("x-amz-decoded-content-length") != "24000" {
		t.Fatalf("x-amz-decoded-content-length = %s, want 24000", captured.headers.Get("x-amz-decoded-content-length"))
	}
	if !bytes.Contains(captured.body, []byte(";chunk-signature=")) {
		t.Fatal("chunked body missing chunk-signature framing")
	}
	if !bytes.HasSuffix(captured.body, []byte("\r\n\r\n")) {
		t.Fatal("chunked body missing trailing empty-line terminator")
	}
}

func TestExecuteAccountCommandHasNoBucketInURL(t *testing.T) {
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.url = r.URL.String()
		w.Write([]byte(`<ListAllMyBucketsResult></ListAllMyBucketsResult>`))
	}))
	defer server.Close()

	c := New(server.Client(), credentials.NewStatic("AK", "SK"), testRegion(t, server.URL), region.PathStyle)
	buckets, err := c.ListBuckets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 0 {
		t.Fatalf("expected no buckets, got %+v", buckets)
	}
	if strings.Contains(captured.url, "bucket") {
		t.Fatalf("account command url should carry no bucket segment: %s", captured.url)
	}
}
