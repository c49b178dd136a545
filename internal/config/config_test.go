package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func decodeByteSize(t *testing.T, doc string) ByteSize {
	t.Helper()
	var holder struct {
		ChunkSize ByteSize `yaml:"chunk_size"`
	}
	if err := yaml.Unmarshal([]byte(doc), &holder); err != nil {
		t.Fatal(err)
	}
	return holder.ChunkSize
}

func TestByteSizeUnmarshalsBareInteger(t *testing.T) {
	if got := decodeByteSize(t, "chunk_size: 8192"); got.Int64() != 8192 {
		t.Fatalf("got %d, want 8192", got.Int64())
	}
}

func TestByteSizeUnmarshalsHumanReadableStrings(t *testing.T) {
	cases := []struct {
		doc  string
		want int64
	}{
		{"chunk_size: \"64KB\"", 64 * 1024},
		{"chunk_size: \"1MB\"", 1024 * 1024},
		{"chunk_size: \"2GB\"", 2 * 1024 * 1024 * 1024},
		{"chunk_size: \"512B\"", 512},
		{"chunk_size: \"500\"", 500},
	}
	for _, tc := range cases {
		if got := decodeByteSize(t, tc.doc); got.Int64() != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.doc, got.Int64(), tc.want)
		}
	}
}

func TestByteSizeStringRendersLargestWholeUnit(t *testing.T) {
	cases := []struct {
		size ByteSize
		want string
	}{
		{512, "512B"},
		{64 * 1024, "64KB"},
		{3 * 1024 * 1024, "3MB"},
		{2 * 1024 * 1024 * 1024, "2GB"},
		{1025, "1025B"},
	}
	for _, tc := range cases {
		if got := tc.size.String(); got != tc.want {
			t.Fatalf("%d: got %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestByteSizeRejectsUnknownUnit(t *testing.T) {
	var holder struct {
		ChunkSize ByteSize `yaml:"chunk_size"`
	}
	err := yaml.Unmarshal([]byte(`chunk_size: "5XB"`), &holder)
	if err == nil {
		t.Fatal("expected an error for an unrecognized size unit")
	}
}

func TestLoadMissingFileAppliesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Metrics.Port != 8080 || cfg.Metrics.Path != "/metrics" || cfg.Logging.Level != "info" || cfg.ChunkSize.Int64() != 64000 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("S3GATE_TEST_SECRET", "shh")
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "services:\n  - name: prod\n    secret_key: ${S3GATE_TEST_SECRET}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	svc, ok := cfg.FindService("prod")
	if !ok || svc.SecretKey != "shh" {
		t.Fatalf("env expansion failed: %+v", svc)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{
		ActiveService: "prod",
		Services:      []Service{{Name: "prod", Region: "us-east-1", AccessKey: "AK", SecretKey: "SK"}},
		ChunkSize:     ByteSize(128 * 1024),
		Metrics:       MetricsConfig{Port: 9100, Path: "/metrics"},
		Logging:       LoggingConfig{Level: "debug"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ActiveService != cfg.ActiveService || loaded.ChunkSize != cfg.ChunkSize || loaded.Metrics.Port != cfg.Metrics.Port {
		t.Fatalf("round trip mismatch: %+v vs %+v", cfg, loaded)
	}
	svc, ok := loaded.FindService("prod")
	if !ok || svc.AccessKey != "AK" {
		t.Fatalf("service round trip mismatch: %+v", svc)
	}
}

func TestAddServiceRejectsDuplicateName(t *testing.T) {
	cfg := &Config{}
	if err := cfg.AddService(Service{Name: "prod"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddService(Service{Name: "prod"}); err == nil {
		t.Fatal("expected an error adding a duplicate service name")
	}
}

func TestUpdateServiceReplacesExisting(t *testing.T) {
	cfg := &Config{Services: []Service{{Name: "prod", Region: "us-east-1"}}}
	if err := cfg.UpdateService(Service{Name: "prod", Region: "eu-west-1"}); err != nil {
		t.Fatal(err)
	}
	svc, _ := cfg.FindService("prod")
	if svc.Region != "eu-west-1" {
		t.Fatalf("got %q, want eu-west-1", svc.Region)
	}
}

func TestUpdateServiceMissingNameIsError(t *testing.T) {
	cfg := &Config{}
	if err := cfg.UpdateService(Service{Name: "nope"}); err == nil {
		t.Fatal("expected an error updating a nonexistent service")
	}
}
