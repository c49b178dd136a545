package signing

import "fmt"

// MissingParameterError indicates the Authorization header builder was
// invoked without a required field.
type MissingParameterError struct {
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("signing: missing builder parameter %q", e.Parameter)
}

// AuthorizationHeader holds the pieces needed to render the
// Authorization header value.
type AuthorizationHeader struct {
	AccessKey     string
	Request       CanonicalRequest
	SigningKey    []byte
	SignedHeaders string
}

// Value renders the literal header value:
//
//	AWS4-HMAC-SHA256 Credential=<ak>/<scope>,SignedHeaders=<h1;h2;...>,Signature=<hex>
//
// No space follows the commas: this exact, space-free layout is required
// to match AWS's own SigV4 test vectors byte-for-byte.
func (a AuthorizationHeader) Value() (string, error) {
	if a.AccessKey == "" {
		return "", &MissingParameterError{"access_key"}
	}
	if a.Request.Region == "" {
		return "", &MissingParameterError{"region"}
	}
	if a.SignedHeaders == "" {
		return "", &MissingParameterError{"signed_headers"}
	}
	credential := a.AccessKey + "/" + a.Request.Scope()
	signature := a.Request.Sign(a.SigningKey)
	return fmt.Sprintf("%s Credential=%s,SignedHeaders=%s,Signature=%s",
		Algorithm, credential, a.SignedHeaders, signature), nil
}
