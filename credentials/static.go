package credentials

import "context"

// StaticProvider always returns the same configured Credentials record.
type StaticProvider struct {
	creds Credentials
}

// NewStatic wraps a fixed access/secret key pair as a Provider.
func NewStatic(accessKey, secretKey string) *StaticProvider {
	return &StaticProvider{creds: Credentials{AccessKey: accessKey, SecretKey: secretKey}}
}

func (s *StaticProvider) Name() string { return "StaticCredentialsProvider" }

func (s *StaticProvider) Provide(ctx context.Context) (Credentials, error) {
	return s.creds, nil
}
