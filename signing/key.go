package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func hmacHex(key []byte, data string) string {
	return hex.EncodeToString(hmacSHA256(key, []byte(data)))
}

// DeriveKey runs the four-step SigV4 HMAC chain:
// k_date = HMAC("AWS4"+secret, shortDate)
// k_region = HMAC(k_date, region)
// k_service = HMAC(k_region, "s3")
// k_sign = HMAC(k_service, "aws4_request")
//
// No caching is performed here; callers that want to cache per
// (date, region) may do so, but must invalidate on date rollover since
// the key is only valid for the UTC calendar day it was derived for.
func DeriveKey(secretKey, region string, at time.Time) []byte {
	shortDate := at.UTC().Format(ShortDateFormat)
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(shortDate))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(Service))
	kSign := hmacSHA256(kService, []byte("aws4_request"))
	return kSign
}
