package credentials

import (
	"fmt"
	"os"

	"github.com/ethanadams/s3gate/transport"
)

// FromEnvironment builds a Provider from the standard AWS environment
// variables: AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY for static
// credentials, or AWS_ROLE_ARN/AWS_WEB_IDENTITY_TOKEN_FILE (with
// optional AWS_STS_ENDPOINT/AWS_SESSION_NAME) for the web-identity
// provider. The role-based source takes precedence if both are present.
func FromEnvironment(doer transport.HTTPDoer) (Provider, error) {
	if roleARN := os.Getenv("AWS_ROLE_ARN"); roleARN != "" {
		tokenFile := os.Getenv("AWS_WEB_IDENTITY_TOKEN_FILE")
		if tokenFile == "" {
			return nil, fmt.Errorf("credentials: AWS_ROLE_ARN set without AWS_WEB_IDENTITY_TOKEN_FILE")
		}
		return NewAssumeRoleWithWebIdentity(
			roleARN,
			tokenFile,
			os.Getenv("AWS_STS_ENDPOINT"),
			os.Getenv("AWS_SESSION_NAME"),
			doer,
		)
	}

	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("credentials: neither AWS_ROLE_ARN nor AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY set in environment")
	}
	return NewStatic(accessKey, secretKey), nil
}
