package server

import (
	"net/http"
	"strconv"

	"aquamonitor/internal/wire"
)

// writeCBOR sends one complete CBOR document. Unlike the frame
// stream, these responses may use whole-body compression with a
// Content-Encoding header: there are no chunk boundaries for a
// transparently decompressing client to destroy.
func (s *Server) writeCBOR(w http.ResponseWriter, r *http.Request, status int, payload any) {
	data, err := wire.Marshal(payload)
	if err != nil {
		s.logger.Printf("encode response: %v", err)
		http.Error(w, "encode failure", http.StatusInternalServerError)
		return
	}
	if frameCompressionNegotiated(r) {
		data = wire.Compress(data)
		w.Header().Set("Content-Encoding", wire.Encoding)
	}
	w.Header().Set("Content-Type", "application/cbor")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
