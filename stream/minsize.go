// Package stream reshapes and frames request bodies for the
// STREAMING-AWS4-HMAC-SHA256-PAYLOAD chunked upload mode: first
// repackaging an arbitrary io.Reader into frames no smaller than a floor
// size (MinSizeReader), then wrapping those frames with per-chunk SigV4
// signatures (ChunkedReader).
package stream

import "io"

// SigV4 chunk size constants.
const (
	MinChunkSize       = 8000
	RecommendedSize    = 64000
	MaxBufferCapacity  = 1048576
)

// MinSizeReader buffers reads from an upstream io.Reader so that every
// frame ReadFrame returns (except possibly the very last, at EOF) holds
// at least minimumSize bytes. A frame is the whole accumulated buffer,
// so it may be larger than minimumSize. Draining stops early once the
// buffer passes MaxBufferCapacity bytes. MinSizeReader has no Read
// method; frames are only available through ReadFrame.
type MinSizeReader struct {
	src         io.Reader
	minimumSize int
	buf         []byte
	err         error
	knownSize   int64 // -1 if unknown
	emitted     int64
}

// NewMinSizeReader wraps src so that ReadFrame yields frames of at least
// minimumSize bytes, flushing a smaller residual frame once src is
// exhausted. knownSize may be -1 if the total size of src is unknown.
func NewMinSizeReader(src io.Reader, minimumSize int, knownSize int64) *MinSizeReader {
	if minimumSize <= 0 {
		minimumSize = MinChunkSize
	}
	return &MinSizeReader{src: src, minimumSize: minimumSize, knownSize: knownSize}
}

// Size reports how many bytes of the known total size have not yet been
// emitted, or -1 if the total size is unknown.
func (m *MinSizeReader) Size() int64 {
	if m.knownSize < 0 {
		return -1
	}
	return m.knownSize - m.emitted
}

// wouldStrandShortfall reports whether the buffer has already reached
// the floor but stopping now would leave fewer than minimumSize bytes
// remaining for a subsequent frame. When the total size is known, that
// remainder is folded into the current frame instead of being flushed
// later as an undersized straggler.
func (m *MinSizeReader) wouldStrandShortfall() bool {
	if m.knownSize < 0 || len(m.buf) < m.minimumSize {
		return false
	}
	remaining := m.knownSize - m.emitted - int64(len(m.buf))
	return remaining > 0 && remaining < int64(m.minimumSize)
}

// ReadFrame returns the next frame: a byte slice of at least
// minimumSize bytes, or fewer only when the upstream is exhausted. It
// returns io.EOF once there is no more data to emit (the final,
// possibly-short frame is still returned alongside a nil error; io.EOF
// is only returned once that frame has already been consumed).
func (m *MinSizeReader) ReadFrame() ([]byte, error) {
	if m.err != nil && m.err != io.EOF {
		return nil, m.err
	}
	if m.err == io.EOF && len(m.buf) == 0 {
		return nil, io.EOF
	}

	for m.err == nil && (len(m.buf) < m.minimumSize || m.wouldStrandShortfall()) {
		need := m.minimumSize - len(m.buf)
		if need <= 0 {
			// Past the floor only because stopping here would strand a
			// sub-floor remainder for the next frame; read exactly that
			// remainder so it gets folded into this one instead.
			need = int(m.knownSize - m.emitted - int64(len(m.buf)))
		}
		chunk := make([]byte, need)
		n, err := m.src.Read(chunk)
		if n > 0 {
			m.buf = append(m.buf, chunk[:n]...)
		}
		if err != nil {
			m.err = err
		}
		if len(m.buf) > MaxBufferCapacity {
			break
		}
	}

	if m.err != nil && m.err != io.EOF {
		return nil, m.err
	}

	if len(m.buf) == 0 {
		return nil, io.EOF
	}

	// Whether exhausted or simply past the floor, emit the whole
	// accumulated buffer as one frame: the adapter's contract is a floor
	// on frame size, not a fixed size, so there's no reason to slice it
	// further and reintroduce buffering on the next call.
	out := m.buf
	m.buf = nil
	m.emitted += int64(len(out))
	return out, nil
}
