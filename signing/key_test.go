package signing

import (
	"encoding/hex"
	"testing"
	"time"
)

func TestDeriveKeyVariesByRegionAndDate(t *testing.T) {
	t1, _ := time.Parse(ShortDateFormat, "20230101")
	t2, _ := time.Parse(ShortDateFormat, "20230102")
	k1 := DeriveKey("secret", "us-east-1", t1)
	k2 := DeriveKey("secret", "us-east-1", t2)
	k3 := DeriveKey("secret", "eu-west-1", t1)
	if hex.EncodeToString(k1) == hex.EncodeToString(k2) {
		t.Fatal("key should change across a date rollover")
	}
	if hex.EncodeToString(k1) == hex.EncodeToString(k3) {
		t.Fatal("key should change across regions")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	ts, _ := time.Parse(ShortDateFormat, "20230101")
	k1 := DeriveKey("secret", "us-east-1", ts)
	k2 := DeriveKey("secret", "us-east-1", ts.Add(3*time.Hour))
	if hex.EncodeToString(k1) != hex.EncodeToString(k2) {
		t.Fatal("key must be stable across the same UTC calendar day")
	}
}

func TestDeriveKeyLength(t *testing.T) {
	ts, _ := time.Parse(ShortDateFormat, "20230101")
	k := DeriveKey("secret", "us-east-1", ts)
	if len(k) != 32 {
		t.Fatalf("expected a 32-byte HMAC-SHA256 key, got %d bytes", len(k))
	}
}
