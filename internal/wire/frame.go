package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"net/http"

	"aquamonitor/internal/models"
)

// maxFramePayload bounds what a reader will allocate for one frame.
// A dashboard message tops out far below this; anything larger is a
// corrupt or hostile stream.
const maxFramePayload = 16 << 20

// A frame is a 4-byte big-endian payload length followed by exactly
// that many payload bytes: one CBOR-encoded StreamMessage, compressed
// as a whole when the connection negotiated compression. There is no
// end-of-stream sentinel; the connection closing ends the stream.

// FrameWriter encodes StreamMessages onto w, one frame per message.
// When w is an http.Flusher each frame is flushed immediately so the
// consumer sees progress without buffering delays.
type FrameWriter struct {
	w        io.Writer
	compress bool
}

// NewFrameWriter creates a writer. compress must reflect what was
// negotiated for the connection and cannot change mid-stream.
func NewFrameWriter(w io.Writer, compress bool) *FrameWriter {
	return &FrameWriter{w: w, compress: compress}
}

// WriteMessage emits one frame. Any error is fatal to the stream.
func (fw *FrameWriter) WriteMessage(msg models.StreamMessage) (int, error) {
	payload, err := Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("encode frame: %w", err)
	}
	if fw.compress {
		payload = Compress(payload)
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := fw.w.Write(prefix[:]); err != nil {
		return 0, fmt.Errorf("write frame length: %w", err)
	}
	if _, err := fw.w.Write(payload); err != nil {
		return 0, fmt.Errorf("write frame payload: %w", err)
	}
	if flusher, ok := fw.w.(http.Flusher); ok {
		flusher.Flush()
	}
	return len(prefix) + len(payload), nil
}

// FrameReader decodes a frame stream produced by FrameWriter. It is
// used by tests and by Go consumers of the service.
type FrameReader struct {
	r        io.Reader
	compress bool
}

// NewFrameReader creates a reader. compress must match the writer.
func NewFrameReader(r io.Reader, compress bool) *FrameReader {
	return &FrameReader{r: r, compress: compress}
}

// ReadMessage reads one frame. io.EOF at a frame boundary means the
// stream ended; io.ErrUnexpectedEOF means it was cut mid-frame.
func (fr *FrameReader) ReadMessage() (models.StreamMessage, error) {
	var msg models.StreamMessage

	var prefix [4]byte
	if _, err := io.ReadFull(fr.r, prefix[:]); err != nil {
		if err == io.EOF {
			return msg, io.EOF
		}
		return msg, fmt.Errorf("read frame length: %w", err)
	}
	length := binary.BigEndian.Uint32(prefix[:])
	if length > maxFramePayload {
		return msg, fmt.Errorf("frame payload of %d bytes exceeds limit", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return msg, fmt.Errorf("read frame payload: %w", err)
	}
	if fr.compress {
		raw, err := Decompress(payload)
		if err != nil {
			return msg, fmt.Errorf("decompress frame: %w", err)
		}
		payload = raw
	}

	if err := Unmarshal(payload, &msg); err != nil {
		return msg, fmt.Errorf("decode frame: %w", err)
	}
	return msg, nil
}
