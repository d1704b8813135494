package client

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStateDefaults(t *testing.T) {
	s := NewSyncState()
	snap := s.Snapshot()

	assert.True(t, snap.IsOnline)
	assert.Equal(t, StatusDisconnected, snap.ConnectionStatus)
	assert.False(t, snap.SyncInProgress)
	assert.Zero(t, snap.PendingSyncCount)
	assert.Empty(t, snap.RecentSyncs)
}

func TestSyncStateBeginEnd(t *testing.T) {
	s := NewSyncState()

	s.BeginSync()
	s.BeginSync()
	snap := s.Snapshot()
	assert.True(t, snap.SyncInProgress)
	assert.Equal(t, 2, snap.PendingSyncCount)

	s.EndSync()
	snap = s.Snapshot()
	assert.True(t, snap.SyncInProgress)
	assert.Equal(t, 1, snap.PendingSyncCount)

	s.EndSync()
	snap = s.Snapshot()
	assert.False(t, snap.SyncInProgress)
	assert.Zero(t, snap.PendingSyncCount)
	assert.False(t, snap.LastSyncTime.IsZero())

	// Underflow is clamped, not allowed to go negative.
	s.EndSync()
	assert.Zero(t, s.Snapshot().PendingSyncCount)
}

func TestSyncStateRecentSyncsBounded(t *testing.T) {
	s := NewSyncState()
	for i := 0; i < 8; i++ {
		s.RecordSync(SyncRecord{Kind: fmt.Sprintf("sync-%d", i), At: time.Now()})
	}

	recent := s.Snapshot().RecentSyncs
	require.Len(t, recent, maxRecentSyncs)
	assert.Equal(t, "sync-3", recent[0].Kind)
	assert.Equal(t, "sync-7", recent[len(recent)-1].Kind)
}

func TestSyncStateOnlineTransitions(t *testing.T) {
	s := NewSyncState()

	assert.False(t, s.SetOnline(true), "already online")
	assert.True(t, s.SetOnline(false))
	assert.False(t, s.IsOnline())
	assert.True(t, s.SetOnline(true))
}

func TestSyncStateReconnectCounter(t *testing.T) {
	s := NewSyncState()

	assert.Equal(t, 1, s.NextReconnectAttempt())
	assert.Equal(t, 2, s.NextReconnectAttempt())

	s.SetConnectionStatus(StatusConnected)
	snap := s.Snapshot()
	assert.Equal(t, StatusConnected, snap.ConnectionStatus)
	assert.Zero(t, snap.ReconnectAttempt)
}

func TestReconnectDelayBackoff(t *testing.T) {
	assert.Equal(t, time.Second, reconnectDelay(1))
	assert.Equal(t, 2*time.Second, reconnectDelay(2))
	assert.Equal(t, 16*time.Second, reconnectDelay(5))
	assert.Equal(t, maxReconnectDelay, reconnectDelay(6))
	assert.Equal(t, maxReconnectDelay, reconnectDelay(60))
}
