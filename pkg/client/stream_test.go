package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stride-app/stride/pkg/events"
	"github.com/stride-app/stride/pkg/types"
)

// fakeSyncServer serves a scripted event stream plus the refetch endpoints
// the client hits after connecting.
type fakeSyncServer struct {
	*httptest.Server
	frames chan any
	conns  atomic.Int32

	mu    sync.Mutex
	tasks []*types.Task
}

func (fs *fakeSyncServer) setTasks(tasks []*types.Task) {
	fs.mu.Lock()
	fs.tasks = tasks
	fs.mu.Unlock()
}

func (fs *fakeSyncServer) taskList() []*types.Task {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.tasks
}

func newFakeSyncServer(t *testing.T) *fakeSyncServer {
	t.Helper()
	fs := &fakeSyncServer{frames: make(chan any, 16)}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/events", func(w http.ResponseWriter, r *http.Request) {
		fs.conns.Add(1)
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		fmt.Fprintf(w, "data: %s\n\n", `{"type":"connected","clientId":"stream-1"}`)
		flusher.Flush()

		for {
			select {
			case frame := <-fs.frames:
				data, err := json.Marshal(frame)
				require.NoError(t, err)
				fmt.Fprintf(w, "data: %s\n\n", data)
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	})
	mux.HandleFunc("/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(fs.taskList())
	})
	mux.HandleFunc("/v1/tags", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]*types.Tag{})
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func TestClientRunHandshakeAndRefetch(t *testing.T) {
	fs := newFakeSyncServer(t)
	fs.setTasks([]*types.Task{{ID: "t1", Title: "From refetch", Order: 1}})

	c := NewClient(fs.URL, "test-token")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return c.ClientID() == "stream-1"
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := c.Cache().Task("t1")
		return ok
	}, 2*time.Second, 10*time.Millisecond, "refetch after connect should fill the cache")

	snap := c.Sync().Snapshot()
	assert.Equal(t, StatusConnected, snap.ConnectionStatus)
}

func TestClientRunAppliesPushedEvents(t *testing.T) {
	fs := newFakeSyncServer(t)

	c := NewClient(fs.URL, "test-token")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return c.ClientID() != ""
	}, 2*time.Second, 10*time.Millisecond)

	fs.frames <- events.Event{
		Type:    events.EntityTask,
		Action:  events.ActionCreate,
		Payload: &types.Task{ID: "pushed", Title: "From another device", Order: 1},
	}

	require.Eventually(t, func() bool {
		task, ok := c.Cache().Task("pushed")
		return ok && task.Title == "From another device"
	}, 2*time.Second, 10*time.Millisecond)

	recent := c.Sync().Snapshot().RecentSyncs
	require.NotEmpty(t, recent)
	last := recent[len(recent)-1]
	assert.Equal(t, "create", last.Kind)
	assert.Equal(t, "task", last.Entity)
}

// TestSetOnlineForcesReconnect tests that an offline to online transition
// interrupts a healthy-looking but idle stream and reconnects with a
// refetch, instead of waiting for the old connection to error out
func TestSetOnlineForcesReconnect(t *testing.T) {
	fs := newFakeSyncServer(t)

	c := NewClient(fs.URL, "test-token")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return c.ClientID() != ""
	}, 2*time.Second, 10*time.Millisecond)
	require.EqualValues(t, 1, fs.conns.Load())

	// State written while the first connection sits idle; only the second
	// connection's refetch can pick it up.
	fs.setTasks([]*types.Task{{ID: "written-while-away", Title: "Missed", Order: 1}})

	c.SetOnline(false)
	c.SetOnline(true)

	require.Eventually(t, func() bool {
		return fs.conns.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond, "online transition must open a new stream")

	require.Eventually(t, func() bool {
		_, ok := c.Cache().Task("written-while-away")
		return ok
	}, 2*time.Second, 10*time.Millisecond, "reconnect must refetch")
}

func TestClientRunStopsOnCancel(t *testing.T) {
	fs := newFakeSyncServer(t)

	c := NewClient(fs.URL, "test-token")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return c.ClientID() != ""
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
