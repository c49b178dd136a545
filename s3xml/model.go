// Package s3xml holds the XML request/response bodies exchanged with S3
// and STS. These are plain encoding/xml structs: the retrieved reference
// implementations that talk to S3 all reach for the standard library's
// XML support rather than a third-party decoder, and this repository
// follows that norm (see DESIGN.md).
package s3xml

import "encoding/xml"

// Error is the body of a non-2xx S3 REST response.
type Error struct {
	XMLName   xml.Name `xml:"Error"`
	Code      string   `xml:"Code"`
	Message   string   `xml:"Message"`
	RequestID string   `xml:"RequestId"`
	HostID    string   `xml:"HostId"`
}

func (e *Error) ErrorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Tag is a single key/value object tag.
type Tag struct {
	Key   string `xml:"Key"`
	Value string `xml:"Value"`
}

// Tagging is the GetObjectTagging/PutObjectTagging request+response body.
type Tagging struct {
	XMLName xml.Name `xml:"Tagging"`
	TagSet  []Tag    `xml:"TagSet>Tag"`
}

// Object is one entry of a ListObjectsV2 result.
type Object struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	ETag         string `xml:"ETag"`
	Size         int64  `xml:"Size"`
	StorageClass string `xml:"StorageClass"`
}

// CommonPrefix is a rolled-up delimiter prefix in a ListObjectsV2 result.
type CommonPrefix struct {
	Prefix string `xml:"Prefix"`
}

// ListBucketResult is the ListObjectsV2 response body.
type ListBucketResult struct {
	XMLName               xml.Name       `xml:"ListBucketResult"`
	Name                  string         `xml:"Name"`
	Prefix                string         `xml:"Prefix"`
	Delimiter             string         `xml:"Delimiter,omitempty"`
	MaxKeys               int            `xml:"MaxKeys"`
	IsTruncated           bool           `xml:"IsTruncated"`
	ContinuationToken     string         `xml:"ContinuationToken,omitempty"`
	NextContinuationToken string         `xml:"NextContinuationToken,omitempty"`
	Contents              []Object       `xml:"Contents"`
	CommonPrefixes        []CommonPrefix `xml:"CommonPrefixes,omitempty"`
}

// InitiateMultipartUploadResult is the CreateMultipartUpload response.
type InitiateMultipartUploadResult struct {
	XMLName  xml.Name `xml:"InitiateMultipartUploadResult"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
	UploadID string   `xml:"UploadId"`
}

// CompletedPart is one entry of a CompleteMultipartUpload request.
type CompletedPart struct {
	PartNumber int    `xml:"PartNumber"`
	ETag       string `xml:"ETag"`
}

// CompleteMultipartUpload is the CompleteMultipartUpload request body.
type CompleteMultipartUpload struct {
	XMLName xml.Name        `xml:"CompleteMultipartUpload"`
	Parts   []CompletedPart `xml:"Part"`
}

// CompleteMultipartUploadResult is the CompleteMultipartUpload response.
type CompleteMultipartUploadResult struct {
	XMLName  xml.Name `xml:"CompleteMultipartUploadResult"`
	Location string   `xml:"Location"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
	ETag     string   `xml:"ETag"`
}

// StsCredentials is the <Credentials> element of an
// AssumeRoleWithWebIdentity response.
type StsCredentials struct {
	AccessKeyID     string `xml:"AccessKeyId"`
	SecretAccessKey string `xml:"SecretAccessKey"`
	SessionToken    string `xml:"SessionToken"`
	Expiration      string `xml:"Expiration"`
}

// AssumedRoleUser identifies the role session in the STS response.
type AssumedRoleUser struct {
	ARN          string `xml:"Arn"`
	AssumedRoleID string `xml:"AssumedRoleId"`
}

// ResponseMetadata carries the STS request id.
type ResponseMetadata struct {
	RequestID string `xml:"RequestId"`
}

// AssumeRoleWithWebIdentityResult is the inner result element.
type AssumeRoleWithWebIdentityResult struct {
	Credentials     StsCredentials  `xml:"Credentials"`
	AssumedRoleUser AssumedRoleUser `xml:"AssumedRoleUser"`
	Audience        string          `xml:"Audience"`
	Provider        string          `xml:"Provider"`
}

// AssumeRoleWithWebIdentityResponse is the full STS response body.
type AssumeRoleWithWebIdentityResponse struct {
	XMLName          xml.Name                         `xml:"https://sts.amazonaws.com/doc/2011-06-15/ AssumeRoleWithWebIdentityResponse"`
	Result           AssumeRoleWithWebIdentityResult  `xml:"AssumeRoleWithWebIdentityResult"`
	ResponseMetadata ResponseMetadata                 `xml:"ResponseMetadata"`
}
