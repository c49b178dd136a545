package body

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/ethanadams/s3gate/stream"
)

func TestWrapStreamClassifiesByFloor(t *testing.T) {
	small, err := WrapStream(bytes.NewReader(make([]byte, 1000)), 1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if small.Kind != KindSmallStream {
		t.Fatalf("1000-byte stream classified as %d, want KindSmallStream", small.Kind)
	}

	large, err := WrapStream(bytes.NewReader(make([]byte, stream.MinChunkSize)), stream.MinChunkSize, 0)
	if err != nil {
		t.Fatal(err)
	}
	if large.Kind != KindLargeStream {
		t.Fatalf("%d-byte stream classified as %d, want KindLargeStream", stream.MinChunkSize, large.Kind)
	}
	if large.ChunkSize != stream.RecommendedSize {
		t.Fatalf("default chunk size = %d, want %d", large.ChunkSize, stream.RecommendedSize)
	}
}

func TestWrapStreamRejectsChunkSizeBelowFloor(t *testing.T) {
	_, err := WrapStream(bytes.NewReader(nil), int64(stream.MinChunkSize), 100)
	if err != ErrChunkTooSmall {
		t.Fatalf("got %v, want ErrChunkTooSmall", err)
	}
}

func TestMaterializeSmallStreamComputesExactHash(t *testing.T) {
	content := bytes.Repeat([]byte("y"), 1000)
	b, err := WrapStream(bytes.NewReader(content), 1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	materialized, err := Materialize(b)
	if err != nil {
		t.Fatal(err)
	}
	if materialized.Kind != KindFixed {
		t.Fatalf("materialized kind = %d, want KindFixed", materialized.Kind)
	}
	if materialized.ContentLength != 1000 {
		t.Fatalf("ContentLength = %d, want 1000", materialized.ContentLength)
	}
	if !bytes.Equal(materialized.Fixed, content) {
		t.Fatal("materialized bytes do not match source stream")
	}
}

func TestMaterializePassesThroughNonStreamKinds(t *testing.T) {
	for _, b := range []Body{None(), FromBytes([]byte("x"))} {
		out, err := Materialize(b)
		if err != nil {
			t.Fatal(err)
		}
		if out.Kind != b.Kind {
			t.Fatalf("Materialize changed kind %d to %d", b.Kind, out.Kind)
		}
	}
}

func TestFromXML(t *testing.T) {
	type doc struct {
		XMLName xml.Name `xml:"Doc"`
		Value   string   `xml:"Value"`
	}
	b, err := FromXML(doc{Value: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if b.Kind != KindFixed {
		t.Fatal("FromXML should produce a Fixed body")
	}
	var decoded doc
	if err := xml.Unmarshal(b.Fixed, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Value != "hi" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestWrapReaderIsWrapStreamAlias(t *testing.T) {
	r := bytes.NewReader(make([]byte, 500))
	b, err := WrapReader(r, 500)
	if err != nil {
		t.Fatal(err)
	}
	if b.Kind != KindSmallStream {
		t.Fatalf("got kind %d, want KindSmallStream", b.Kind)
	}
}

func TestNoneBodyHasZeroLength(t *testing.T) {
	b := None()
	if b.Kind != KindNone || b.ContentLength != 0 {
		t.Fatalf("None() = %+v", b)
	}
}
