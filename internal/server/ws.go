package server

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"aquamonitor/internal/metrics"
	"aquamonitor/internal/wire"
)

const wsWriteTimeout = 5 * time.Second

var streamUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

// handleStreamWS serves the same frame stream over a websocket, one
// frame per binary message. Frames keep their length prefix so both
// transports carry identical bytes.
func (s *Server) handleStreamWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	hours := parseHours(r)
	compress := frameCompressionNegotiated(r)

	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// The request context does not reliably end when a hijacked
	// connection drops, so a reader goroutine watches for the close.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ch := s.orchestrator.Stream(ctx, id, hours)
	var buf bytes.Buffer
	fw := wire.NewFrameWriter(&buf, compress)
	for msg := range ch {
		buf.Reset()
		n, err := fw.WriteMessage(msg)
		if err != nil {
			s.logger.Printf("ws stream %s: %v", id, err)
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			return
		}
		metrics.FramesWritten.Inc()
		metrics.FrameBytes.Add(float64(n))
	}

	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteTimeout),
	)
}
