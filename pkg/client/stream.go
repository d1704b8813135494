package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stride-app/stride/pkg/events"
)

// maxReconnectDelay caps the backoff between stream reconnect attempts.
const maxReconnectDelay = 30 * time.Second

// streamFrame is the superset of everything the event stream sends: the
// initial connected handshake and entity change events.
type streamFrame struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Action   events.Action   `json:"action,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Run connects to the event stream and keeps it alive until ctx is
// cancelled, reconnecting with backoff on any failure. After each reconnect
// the client refetches so changes missed while disconnected are reconciled;
// there is no event replay.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !c.sync.IsOnline() {
			if err := sleep(ctx, time.Second); err != nil {
				return err
			}
			continue
		}

		c.sync.SetConnectionStatus(StatusConnecting)
		streamCtx, cancel := context.WithCancel(ctx)
		c.setCancelStream(cancel)
		err := c.stream(streamCtx)
		c.setCancelStream(nil)
		cancel()
		c.sync.SetConnectionStatus(StatusDisconnected)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if streamCtx.Err() != nil {
			// Deliberately interrupted by a connectivity change; reconnect
			// right away instead of backing off.
			continue
		}

		attempt := c.sync.NextReconnectAttempt()
		delay := reconnectDelay(attempt)
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("Event stream lost, reconnecting")
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// SetOnline records a browser connectivity change and interrupts any open
// stream. Coming back online, the current connection may be half-dead and
// blocked in a read that would otherwise never return; cancelling it makes
// the Run loop reconnect, and the reconnect refetches. Going offline, the
// stream is useless and the loop parks until connectivity returns.
func (c *Client) SetOnline(online bool) {
	if !c.sync.SetOnline(online) {
		return
	}
	c.logger.Info().Bool("online", online).Msg("Connectivity changed")
	c.interruptStream()
}

func (c *Client) setCancelStream(cancel context.CancelFunc) {
	c.mu.Lock()
	c.cancelStream = cancel
	c.mu.Unlock()
}

func (c *Client) interruptStream() {
	c.mu.Lock()
	cancel := c.cancelStream
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// stream holds one event stream connection open, merging every event into
// the cache. Returns when the connection drops or ctx is cancelled.
func (c *Client) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "text/event-stream")

	// The regular client's timeout would cut a healthy stream short, so
	// streaming uses a client without one. Cancellation comes from ctx.
	streamc := &http.Client{Transport: c.httpc.Transport}
	resp, err := streamc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream: status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	connected := false
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "" || strings.HasPrefix(line, ":"):
			// Frame separators and heartbeat comments carry no data.
			continue
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			if !connected {
				if err := c.handshake(ctx, []byte(data)); err != nil {
					return err
				}
				connected = true
				continue
			}
			c.applyFrame([]byte(data))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("event stream closed")
}

// handshake consumes the connected frame, adopts the assigned client id,
// and refetches to cover anything missed while disconnected.
func (c *Client) handshake(ctx context.Context, data []byte) error {
	var frame streamFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return fmt.Errorf("failed to decode handshake: %w", err)
	}
	if frame.Type != "connected" || frame.ClientID == "" {
		return fmt.Errorf("unexpected handshake frame %q", frame.Type)
	}

	c.setClientID(frame.ClientID)
	c.sync.SetConnectionStatus(StatusConnected)
	c.logger.Info().Str("client_id", frame.ClientID).Msg("Event stream connected")

	if err := c.refetch(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to refetch after connect")
	}
	return nil
}

// applyFrame merges one pushed change into the cache. Malformed frames are
// dropped; the next refetch reconciles whatever they carried.
func (c *Client) applyFrame(data []byte) {
	var frame streamFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to decode stream event")
		return
	}

	entity := events.EntityType(frame.Type)
	if err := c.cache.ApplyEvent(entity, frame.Action, frame.Payload); err != nil {
		c.logger.Warn().
			Err(err).
			Str("entity", frame.Type).
			Str("action", string(frame.Action)).
			Msg("Failed to apply stream event")
		return
	}

	c.sync.RecordSync(SyncRecord{
		Kind:   string(frame.Action),
		Entity: frame.Type,
		At:     time.Now(),
	})
}

func reconnectDelay(attempt int) time.Duration {
	delay := time.Second << uint(attempt-1)
	if delay > maxReconnectDelay || delay <= 0 {
		delay = maxReconnectDelay
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
