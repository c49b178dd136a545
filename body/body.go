// Package body classifies request bodies into the four shapes the
// executor needs to sign differently: absent, fixed-size, a small
// stream cheap enough to materialize, or a large stream that must be
// sent with chunked SigV4 framing.
package body

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/ethanadams/s3gate/stream"
)

// Kind tags which of the four Body shapes is populated.
type Kind int

const (
	KindNone Kind = iota
	KindFixed
	KindSmallStream
	KindLargeStream
)

// ErrChunkTooSmall is returned by WrapStream when the requested chunk
// size is below the SigV4 chunk floor.
var ErrChunkTooSmall = errors.New("body: chunk size below minimum of 8000 bytes")

// Body is the tagged union the executor consumes. ContentLength for the
// stream variants is always the decoded byte count, excluding any chunk
// framing overhead.
type Body struct {
	Kind          Kind
	Fixed         []byte
	Stream        io.Reader
	ContentLength int64
	ChunkSize     int
}

// None is the empty body.
func None() Body {
	return Body{Kind: KindNone}
}

// FromBytes wraps b as a Fixed body.
func FromBytes(b []byte) Body {
	return Body{Kind: KindFixed, Fixed: b, ContentLength: int64(len(b))}
}

// FromXML marshals v and wraps the result as a Fixed body.
func FromXML(v any) (Body, error) {
	b, err := xml.Marshal(v)
	if err != nil {
		return Body{}, fmt.Errorf("body: marshaling xml: %w", err)
	}
	return FromBytes(b), nil
}

// WrapStream classifies r as SmallStream (contentLength < MinChunkSize)
// or LargeStream, configuring the latter to reshape into chunkSize
// frames (default stream.RecommendedSize if chunkSize is 0).
func WrapStream(r io.Reader, contentLength int64, chunkSize int) (Body, error) {
	if chunkSize == 0 {
		chunkSize = stream.RecommendedSize
	}
	if chunkSize < stream.MinChunkSize {
		return Body{}, ErrChunkTooSmall
	}
	if contentLength < stream.MinChunkSize {
		return Body{Kind: KindSmallStream, Stream: r, ContentLength: contentLength}, nil
	}
	return Body{Kind: KindLargeStream, Stream: r, ContentLength: contentLength, ChunkSize: chunkSize}, nil
}

// WrapReader is an alias of WrapStream: in Go, io.Reader already is the
// stream abstraction, so there's no separate reader-vs-stream type to
// convert between.
func WrapReader(r io.Reader, contentLength int64) (Body, error) {
	return WrapStream(r, contentLength, 0)
}

// Materialize drains a SmallStream body into a Fixed one, which the
// executor must do before signing so the exact content hash (rather
// than the streaming placeholder) goes into x-amz-content-sha256. Bodies
// that are already None/Fixed/LargeStream pass through unchanged.
func Materialize(b Body) (Body, error) {
	if b.Kind != KindSmallStream {
		return b, nil
	}
	data, err := io.ReadAll(b.Stream)
	if err != nil {
		return Body{}, fmt.Errorf("body: draining small stream: %w", err)
	}
	return FromBytes(data), nil
}
