package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/stride-app/stride/pkg/events"
	"github.com/stride-app/stride/pkg/log"
	"github.com/stride-app/stride/pkg/metrics"
)

// connectedMessage is the first data frame on a new stream. It tells the
// client which id to attach to its mutations so its own changes are not
// echoed back.
type connectedMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}

// streamConn serializes writes to one open event stream. The dispatcher and
// the heartbeat loop write concurrently; the first failed write latches the
// connection as dead so later sends fail fast.
type streamConn struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	dead    bool
}

func (c *streamConn) write(format string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead {
		return fmt.Errorf("stream closed")
	}
	if _, err := fmt.Fprintf(c.w, format, args...); err != nil {
		c.dead = true
		return err
	}
	c.flusher.Flush()
	return nil
}

// sendEvent writes one event as an SSE data frame.
func (c *streamConn) sendEvent(ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.write("data: %s\n\n", data)
}

// sendHeartbeat writes a comment-only frame. Parsers ignore it; its only job
// is to keep intermediaries from timing out the idle connection.
func (c *streamConn) sendHeartbeat() error {
	return c.write(": heartbeat\n\n")
}

// handleEvents upgrades the request into a long-lived SSE stream:
// authenticate, register with the client registry, confirm the effective
// client id, then push broadcasts and heartbeats until the connection dies.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := s.auth.Verify(bearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = ulid.Make().String()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	conn := &streamConn{w: w, flusher: flusher}

	unregister := s.registry.Register(userID, clientID, conn.sendEvent)
	metrics.StreamsConnected.Inc()
	metrics.StreamsOpenedTotal.Inc()
	defer func() {
		// Scoped to this registration: a replacement stream that reused the
		// client id survives this cleanup, and an eviction the dispatcher
		// already performed makes it a no-op.
		unregister()
		metrics.StreamsConnected.Dec()
	}()

	logger := log.WithClientID(log.WithUserID(s.logger, userID), clientID)
	logger.Debug().Msg("stream opened")

	connected, _ := json.Marshal(connectedMessage{Type: "connected", ClientID: clientID})
	if err := conn.write("data: %s\n\n", connected); err != nil {
		logger.Debug().Err(err).Msg("stream closed before handshake")
		return
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Msg("stream aborted by client")
			return
		case <-heartbeat.C:
			if err := conn.sendHeartbeat(); err != nil {
				logger.Debug().Err(err).Msg("heartbeat write failed, closing stream")
				return
			}
		}
	}
}
