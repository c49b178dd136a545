// s3curl generates signed curl commands for S3 operations, useful for
// debugging signature mismatches against a real S3-compatible endpoint
// without going through the full client.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethanadams/s3gate/region"
	"github.com/ethanadams/s3gate/signing"
)

func main() {
	endpoint := flag.String("endpoint", os.Getenv("S3_ENDPOINT"), "S3 endpoint host (no scheme)")
	accessKey := flag.String("access-key", os.Getenv("S3_ACCESS_KEY"), "S3 access key")
	secretKey := flag.String("secret-key", os.Getenv("S3_SECRET_KEY"), "S3 secret key")
	regionName := flag.String("region", "us-east-1", "AWS region")
	bucket := flag.String("bucket", "", "Bucket name")
	key := flag.String("key", "test-file.txt", "Object key")
	op := flag.String("op", "upload", "Operation: upload, download, delete")
	data := flag.String("data", "Hello, s3gate!", "Data to upload (for upload op)")
	size := flag.Int("size", 0, "Random data size in bytes (overrides -data)")
	pathStyle := flag.Bool("path-style", true, "Use path-style addressing instead of virtual-hosted")
	flag.Parse()

	if *endpoint == "" || *accessKey == "" || *secretKey == "" || *bucket == "" {
		fmt.Fprintln(os.Stderr, "Usage: s3curl -endpoint HOST -access-key KEY -secret-key SECRET -bucket BUCKET [-op upload|download|delete] [-key filename] [-data content]")
		fmt.Fprintln(os.Stderr, "\nEnvironment variables: S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY")
		fmt.Fprintln(os.Stderr, "\nExamples:")
		fmt.Fprintln(os.Stderr, "  s3curl -bucket mybucket -op upload -key test.txt -data 'Hello World'")
		fmt.Fprintln(os.Stderr, "  s3curl -bucket mybucket -op download -key test.txt")
		fmt.Fprintln(os.Stderr, "  s3curl -bucket mybucket -op delete -key test.txt")
		fmt.Fprintln(os.Stderr, "  s3curl -bucket mybucket -op upload -key test.bin -size 1024")
		os.Exit(1)
	}

	// -endpoint is a bare host, so give it a scheme before parsing; the
	// credential scope is named after -region, not the endpoint's hostname.
	endpointURL := strings.TrimSuffix(*endpoint, "/")
	if !strings.Contains(endpointURL, "://") {
		endpointURL = "https://" + endpointURL
	}
	reg, err := region.FromCustom(endpointURL, *regionName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing endpoint: %v\n", err)
		os.Exit(1)
	}

	accessType := region.PathStyle
	if !*pathStyle {
		accessType = region.VirtualHostedStyle
	}

	var method string
	var payload []byte
	switch *op {
	case "upload":
		method = http.MethodPut
		if *size > 0 {
			payload = make([]byte, *size)
			if _, err := rand.Read(payload); err != nil {
				fmt.Fprintf(os.Stderr, "Error generating random payload: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "# Generated %d bytes of random data\n", *size)
		} else {
			payload = []byte(*data)
		}
	case "download":
		method = http.MethodGet
	case "delete":
		method = http.MethodDelete
	default:
		fmt.Fprintf(os.Stderr, "Unknown operation: %s\n", *op)
		os.Exit(1)
	}

	base, err := reg.BaseURL(accessType, *bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building base url: %v\n", err)
		os.Exit(1)
	}
	reqURL := region.AppendPath(base, *key)

	now := time.Now().UTC()
	headers := make(http.Header)
	headers.Set("Host", reg.HostHeader(accessType, *bucket))
	headers.Set("x-amz-date", now.Format(signing.LongDateFormat))
	contentHash := signing.EmptyPayloadHash
	if payload != nil {
		headers.Set("Content-Type", "application/octet-stream")
		contentHash = signing.HashPayload(payload)
	}
	headers.Set("x-amz-content-sha256", contentHash)

	canon := signing.CanonicalRequest{
		Method:    method,
		URL:       reqURL,
		SHA256:    contentHash,
		Headers:   headers,
		Timestamp: now,
		Region:    reg.Name(),
	}
	signingKey := signing.DeriveKey(*secretKey, reg.Name(), now)
	auth := signing.AuthorizationHeader{
		AccessKey:     *accessKey,
		Request:       canon,
		SigningKey:    signingKey,
		SignedHeaders: canon.SignedHeaders(),
	}
	authValue, err := auth.Value()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing request: %v\n", err)
		os.Exit(1)
	}
	headers.Set("Authorization", authValue)

	fmt.Printf("curl -v -X %s \\\n", method)
	for name, values := range headers {
		for _, value := range values {
			fmt.Printf("  -H '%s: %s' \\\n", name, value)
		}
	}

	if *op == "upload" {
		if *size > 0 {
			fmt.Printf("  --data-binary \"$(dd if=/dev/urandom bs=%d count=1 2>/dev/null)\" \\\n", *size)
		} else {
			fmt.Printf("  --data-binary '%s' \\\n", *data)
		}
	}

	fmt.Printf("  '%s'\n", reqURL.String())
}
