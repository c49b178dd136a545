// Package region models S3 regions and the URL/Host conventions used to
// address a bucket: the fixed table of official AWS regions, arbitrary
// custom (S3-compatible) endpoints, and the path-style vs
// virtual-hosted-style addressing split.
package region

import (
	"fmt"
	"net/url"
	"strings"
)

// AccessType decides whether a bucket name appears as the first URI path
// segment (PathStyle) or as a host prefix (VirtualHostedStyle).
type AccessType int

const (
	PathStyle AccessType = iota
	VirtualHostedStyle
)

func (a AccessType) String() string {
	if a == VirtualHostedStyle {
		return "virtual-hosted-style"
	}
	return "path-style"
}

// Official is one of the fixed AWS regions. Name and Endpoint are both
// required; Scheme defaults to https for every official region.
type Official struct {
	Name     string
	Endpoint string
}

// officialRegions mirrors the (name, endpoint) pairs published by AWS.
// us-east-1 is the one region whose endpoint has no region segment.
var officialRegions = []Official{
	{"us-east-1", "s3.amazonaws.com"},
	{"us-east-2", "s3.us-east-2.amazonaws.com"},
	{"us-west-1", "s3.us-west-1.amazonaws.com"},
	{"us-west-2", "s3.us-west-2.amazonaws.com"},
	{"ca-central-1", "s3.ca-central-1.amazonaws.com"},
	{"af-south-1", "s3.af-south-1.amazonaws.com"},
	{"ap-east-1", "s3.ap-east-1.amazonaws.com"},
	{"ap-south-1", "s3.ap-south-1.amazonaws.com"},
	{"ap-northeast-1", "s3.ap-northeast-1.amazonaws.com"},
	{"ap-northeast-2", "s3.ap-northeast-2.amazonaws.com"},
	{"ap-northeast-3", "s3.ap-northeast-3.amazonaws.com"},
	{"ap-southeast-1", "s3.ap-southeast-1.amazonaws.com"},
	{"ap-southeast-2", "s3.ap-southeast-2.amazonaws.com"},
	{"cn-north-1", "s3.cn-north-1.amazonaws.com.cn"},
	{"cn-northwest-1", "s3.cn-northwest-1.amazonaws.com.cn"},
	{"eu-north-1", "s3.eu-north-1.amazonaws.com"},
	{"eu-central-1", "s3.eu-central-1.amazonaws.com"},
	{"eu-central-2", "s3.eu-central-2.amazonaws.com"},
	{"eu-west-1", "s3.eu-west-1.amazonaws.com"},
	{"eu-west-2", "s3.eu-west-2.amazonaws.com"},
	{"eu-west-3", "s3.eu-west-3.amazonaws.com"},
	{"il-central-1", "s3.il-central-1.amazonaws.com"},
	{"me-south-1", "s3.me-south-1.amazonaws.com"},
	{"sa-east-1", "s3.sa-east-1.amazonaws.com"},
}

var officialByName = func() map[string]Official {
	m := make(map[string]Official, len(officialRegions))
	for _, r := range officialRegions {
		m[r.Name] = r
	}
	return m
}()

// LookupOfficial returns the official region table entry for name, if any.
func LookupOfficial(name string) (Official, bool) {
	r, ok := officialByName[name]
	return r, ok
}

// Custom is an arbitrary S3-compatible endpoint: a Storj gateway, MinIO
// instance, or any other non-AWS host. Name is optional and used only for
// display/config purposes.
type Custom struct {
	Endpoint *url.URL
	Name     string
}

// Region is either an Official AWS region or a Custom endpoint.
type Region struct {
	official *Official
	custom   *Custom
}

// FromOfficial wraps a known AWS region name. It returns an error if name
// is not in the official table.
func FromOfficial(name string) (Region, error) {
	o, ok := LookupOfficial(name)
	if !ok {
		return Region{}, fmt.Errorf("region: unknown official region %q", name)
	}
	return Region{official: &o}, nil
}

// FromCustom wraps an arbitrary endpoint URL as a custom region.
func FromCustom(endpoint string, name string) (Region, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return Region{}, fmt.Errorf("region: parsing custom endpoint: %w", err)
	}
	return Region{custom: &Custom{Endpoint: u, Name: name}}, nil
}

// Name is the short identifier used in the SigV4 credential scope.
func (r Region) Name() string {
	if r.official != nil {
		return r.official.Name
	}
	if r.custom != nil {
		if r.custom.Name != "" {
			return r.custom.Name
		}
		return r.custom.Endpoint.Hostname()
	}
	return "us-east-1"
}

// Host returns the bare host (no scheme, no bucket) for this region.
func (r Region) Host() string {
	if r.official != nil {
		return r.official.Endpoint
	}
	if r.custom != nil {
		return r.custom.Endpoint.Host
	}
	return "s3.amazonaws.com"
}

// Scheme returns the URL scheme to use, defaulting to https.
func (r Region) Scheme() string {
	if r.custom != nil && r.custom.Endpoint.Scheme != "" {
		return r.custom.Endpoint.Scheme
	}
	return "https"
}

// IsCustom reports whether this region is a Custom (non-AWS) endpoint.
func (r Region) IsCustom() bool {
	return r.custom != nil
}

// Default returns the default region used when none is configured:
// official us-east-1.
func Default() Region {
	r, _ := FromOfficial("us-east-1")
	return r
}

// BaseURL returns the client's base URL for a given AccessType and
// (optional) bucket. For VirtualHostedStyle, a non-empty bucket is
// prefixed to the host; for PathStyle it is appended as the first path
// segment, with a trailing slash as required by AppendPath semantics.
// An empty bucket yields the bare endpoint URL in both styles.
func (r Region) BaseURL(access AccessType, bucket string) (*url.URL, error) {
	host := r.Host()
	switch access {
	case VirtualHostedStyle:
		if bucket == "" {
			return &url.URL{Scheme: r.Scheme(), Host: host}, nil
		}
		return &url.URL{Scheme: r.Scheme(), Host: bucket + "." + host}, nil
	default:
		u := &url.URL{Scheme: r.Scheme(), Host: host}
		if bucket != "" {
			u.Path = "/" + bucket + "/"
		}
		return u, nil
	}
}

// Host header value for a given AccessType/bucket combination. A
// non-default port, if present on the region's endpoint, is always
// included: SigV4 verification fails if the Host header the client signed
// doesn't match the Host header the transport actually sends.
func (r Region) HostHeader(access AccessType, bucket string) string {
	host := r.Host()
	hostname, port := splitHostPort(host)
	switch access {
	case VirtualHostedStyle:
		if bucket == "" {
			return host
		}
		if port != "" {
			return fmt.Sprintf("%s.%s:%s", bucket, hostname, port)
		}
		return bucket + "." + hostname
	default:
		return host
	}
}

func splitHostPort(host string) (hostname, port string) {
	idx := strings.LastIndex(host, ":")
	if idx < 0 {
		return host, ""
	}
	return host[:idx], host[idx+1:]
}

// AppendPath joins p onto base the way an S3 command must: a leading
// slash in p is treated as absent so that a bucket prefix already present
// in base's path is preserved, matching the S3 object-key semantics where
// "/obj.txt" means "obj.txt within the current bucket", not "obj.txt at
// the root of the host".
func AppendPath(base *url.URL, p string) *url.URL {
	out := *base
	trimmed := strings.TrimPrefix(p, "/")
	if strings.HasSuffix(out.Path, "/") {
		out.Path = out.Path + trimmed
	} else {
		out.Path = out.Path + "/" + trimmed
	}
	out.RawPath = ""
	return &out
}
