package signing

import "time"

// ChunkScope is the credential scope used inside a chunk's signing
// string; identical shape to CanonicalRequest.Scope but free-standing so
// the streaming package doesn't need to carry a full CanonicalRequest.
func ChunkScope(region string, at time.Time) string {
	return at.UTC().Format(ShortDateFormat) + "/" + region + "/" + Service + "/aws4_request"
}

// ChunkSignature computes the signature for one chunk of a
// STREAMING-AWS4-HMAC-SHA256-PAYLOAD body:
//
//	AWS4-HMAC-SHA256-PAYLOAD\n<timestamp>\n<scope>\n<previousSignature>\n<emptyHash>\n<chunkHash>
//
// previousSignature is the seed (request) signature for the first chunk
// and the prior chunk's signature thereafter, chaining the whole stream.
func ChunkSignature(signingKey []byte, at time.Time, region, previousSignature, chunkHash string) string {
	stringToSign := ChunkAlgorithm + "\n" +
		at.UTC().Format(LongDateFormat) + "\n" +
		ChunkScope(region, at) + "\n" +
		previousSignature + "\n" +
		EmptyPayloadHash + "\n" +
		chunkHash
	return hmacHex(signingKey, stringToSign)
}
