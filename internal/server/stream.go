package server

import (
	"net/http"

	"aquamonitor/internal/metrics"
	"aquamonitor/internal/wire"
)

const frameContentType = "application/x-aqua-frames"

// handleStream serves the progressive dashboard as a chunked frame
// stream. Compression, when negotiated, is applied per frame payload
// and deliberately NOT declared via Content-Encoding: a generic HTTP
// client would otherwise decompress the body transparently and
// destroy the frame boundaries. The custom header tells our clients
// what was negotiated instead.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	hours := parseHours(r)
	compress := frameCompressionNegotiated(r)

	w.Header().Set("Content-Type", frameContentType)
	if compress {
		w.Header().Set("X-Stream-Compression", wire.Encoding)
	}

	ch := s.orchestrator.Stream(r.Context(), id, hours)
	fw := wire.NewFrameWriter(w, compress)
	for msg := range ch {
		n, err := fw.WriteMessage(msg)
		if err != nil {
			// Fatal to the stream; the consumer sees the connection
			// close without a completion event. Returning cancels the
			// request context, which releases the stream workers.
			s.logger.Printf("stream %s: %v", id, err)
			return
		}
		metrics.FramesWritten.Inc()
		metrics.FrameBytes.Add(float64(n))
	}
}
