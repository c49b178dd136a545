package signing

// EmptyPayloadHash is the SHA-256 hash of a zero-length payload, a
// required constant for unsigned/empty bodies.
const EmptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// StreamingPayloadHash is the literal x-amz-content-sha256 value for a
// chunked, signed streaming upload.
const StreamingPayloadHash = "STREAMING-AWS4-HMAC-SHA256-PAYLOAD"

// LongDateFormat is the ISO-8601 basic UTC format used for x-amz-date
// and the string-to-sign timestamp: %Y%m%dT%H%M%SZ.
const LongDateFormat = "20060102T150405Z"

// ShortDateFormat is the YYYYMMDD form used in the credential scope.
const ShortDateFormat = "20060102"

// Algorithm is the SigV4 algorithm tag for request signing.
const Algorithm = "AWS4-HMAC-SHA256"

// ChunkAlgorithm is the SigV4 algorithm tag for chunk signing.
const ChunkAlgorithm = "AWS4-HMAC-SHA256-PAYLOAD"

// Service is always "s3" for this client.
const Service = "s3"
