package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ethanadams/s3gate/command"
)

// listAllMyBucketsResult mirrors the ListBuckets response shape; kept
// local to client since no other package needs it.
type listAllMyBucketsResult struct {
	XMLName xml.Name `xml:"ListAllMyBucketsResult"`
	Buckets struct {
		Bucket []struct {
			Name         string `xml:"Name"`
			CreationDate string `xml:"CreationDate"`
		} `xml:"Bucket"`
	} `xml:"Buckets"`
}

// BucketSummary is one entry of a ListBuckets response.
type BucketSummary struct {
	Name         string
	CreationDate string
}

// ListBuckets lists every bucket visible to the client's credentials.
func (c *Client) ListBuckets(ctx context.Context) ([]BucketSummary, error) {
	resp, err := c.ExecuteAccount(ctx, command.ListBuckets{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("client: list buckets: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: reading list-buckets response: %w", err)
	}
	var parsed listAllMyBucketsResult
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("client: parsing list-buckets response: %w", err)
	}

	out := make([]BucketSummary, len(parsed.Buckets.Bucket))
	for i, b := range parsed.Buckets.Bucket {
		out[i] = BucketSummary{Name: b.Name, CreationDate: b.CreationDate}
	}
	return out, nil
}
