package stream

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/ethanadams/s3gate/signing"
)

// state of the ChunkedReader's frame lifecycle.
type state int

const (
	stateRunning state = iota
	stateFinalPending
	stateDone
)

// ChunkedReader wraps a source of minimum-sized frames (typically a
// *MinSizeReader) and emits the STREAMING-AWS4-HMAC-SHA256-PAYLOAD wire
// format: each frame prefixed with "<hex-len>;chunk-signature=<sig>\r\n"
// and suffixed with "\r\n", followed by a zero-length terminating chunk.
//
// The signing loop only ever holds (previousSignature, signingKey,
// timestamp, region) — no growable transcript is needed because each
// chunk signature only depends on the one before it.
type ChunkedReader struct {
	frames      FrameSource
	signingKey  []byte
	timestamp   time.Time
	region      string
	prevSig     string
	state       state
	pending     *bytes.Buffer
	err         error
}

// FrameSource yields successive frames of body data. *MinSizeReader
// satisfies this interface via ReadFrame.
type FrameSource interface {
	ReadFrame() ([]byte, error)
}

// NewChunkedReader builds a chunk-framing reader. seedSignature is the
// canonical-request signature computed by the executor before any body
// bytes were written; it becomes previous_signature for the first chunk.
func NewChunkedReader(frames FrameSource, signingKey []byte, timestamp time.Time, region, seedSignature string) *ChunkedReader {
	return &ChunkedReader{
		frames:     frames,
		signingKey: signingKey,
		timestamp:  timestamp,
		region:     region,
		prevSig:    seedSignature,
		pending:    new(bytes.Buffer),
	}
}

// Read implements io.Reader, emitting framed chunk bytes.
func (c *ChunkedReader) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	for c.pending.Len() == 0 && c.state != stateDone {
		if err := c.advance(); err != nil {
			c.err = err
			return 0, err
		}
	}
	if c.pending.Len() == 0 {
		return 0, io.EOF
	}
	return c.pending.Read(p)
}

// advance produces the next framed chunk (or the terminator) into c.pending.
func (c *ChunkedReader) advance() error {
	switch c.state {
	case stateRunning:
		frame, err := c.frames.ReadFrame()
		if err == io.EOF {
			c.state = stateFinalPending
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream: reading source frame: %w", err)
		}
		c.writeFrame(frame)
		return nil
	case stateFinalPending:
		c.writeFrame(nil)
		c.state = stateDone
		return nil
	default:
		return io.EOF
	}
}

func (c *ChunkedReader) writeFrame(data []byte) {
	var chunkHash string
	if len(data) == 0 {
		chunkHash = signing.EmptyPayloadHash
	} else {
		chunkHash = signing.HashPayload(data)
	}
	sig := signing.ChunkSignature(c.signingKey, c.timestamp, c.region, c.prevSig, chunkHash)
	c.prevSig = sig

	fmt.Fprintf(c.pending, "%x;chunk-signature=%s\r\n", len(data), sig)
	c.pending.Write(data)
	c.pending.WriteString("\r\n")
}
