package client

import (
	"sync"
	"time"
)

// ConnectionStatus describes the event stream's state.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
)

// maxRecentSyncs bounds the recent-sync history; the oldest entry is
// evicted beyond this.
const maxRecentSyncs = 5

// SyncRecord is one completed sync activity shown in the UI history.
type SyncRecord struct {
	Kind   string    `json:"kind"`
	Entity string    `json:"entity,omitempty"`
	At     time.Time `json:"at"`
}

// SyncSnapshot is a point-in-time copy of the sync state for display.
type SyncSnapshot struct {
	IsOnline         bool             `json:"isOnline"`
	PendingSyncCount int              `json:"pendingSyncCount"`
	SyncInProgress   bool             `json:"syncInProgress"`
	LastSyncTime     time.Time        `json:"lastSyncTime"`
	ConnectionStatus ConnectionStatus `json:"connectionStatus"`
	ReconnectAttempt int              `json:"reconnectAttempt"`
	RecentSyncs      []SyncRecord     `json:"recentSyncs"`
}

// SyncState tracks connectivity and pending-work bookkeeping for one client
// session. Its lifecycle is tied to the session; fields change only through
// explicit transitions, except recentSyncs which evicts its oldest entry
// past the bound.
type SyncState struct {
	mu               sync.Mutex
	isOnline         bool
	pendingSyncCount int
	inFlight         int
	lastSyncTime     time.Time
	connectionStatus ConnectionStatus
	reconnectAttempt int
	recentSyncs      []SyncRecord
}

// NewSyncState creates sync state assuming the browser starts online and
// disconnected.
func NewSyncState() *SyncState {
	return &SyncState{
		isOnline:         true,
		connectionStatus: StatusDisconnected,
	}
}

// SetOnline records a connectivity transition and reports whether the state
// changed (an offline→online flip triggers reconnect and refetch in the
// caller).
func (s *SyncState) SetOnline(online bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.isOnline != online
	s.isOnline = online
	return changed
}

// IsOnline reports the last known connectivity.
func (s *SyncState) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOnline
}

// BeginSync marks one request in flight.
func (s *SyncState) BeginSync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	s.pendingSyncCount++
}

// EndSync marks one request finished.
func (s *SyncState) EndSync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight > 0 {
		s.inFlight--
	}
	if s.pendingSyncCount > 0 {
		s.pendingSyncCount--
	}
	s.lastSyncTime = time.Now()
}

// SetConnectionStatus records the stream state. Reaching connected resets
// the reconnect attempt counter.
func (s *SyncState) SetConnectionStatus(status ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connectionStatus = status
	if status == StatusConnected {
		s.reconnectAttempt = 0
	}
}

// NextReconnectAttempt bumps and returns the reconnect attempt counter.
func (s *SyncState) NextReconnectAttempt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnectAttempt++
	return s.reconnectAttempt
}

// RecordSync appends to the bounded recent-sync history.
func (s *SyncState) RecordSync(rec SyncRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recentSyncs = append(s.recentSyncs, rec)
	if len(s.recentSyncs) > maxRecentSyncs {
		s.recentSyncs = s.recentSyncs[len(s.recentSyncs)-maxRecentSyncs:]
	}
}

// Snapshot returns a copy of the current state.
func (s *SyncState) Snapshot() SyncSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := make([]SyncRecord, len(s.recentSyncs))
	copy(recent, s.recentSyncs)

	return SyncSnapshot{
		IsOnline:         s.isOnline,
		PendingSyncCount: s.pendingSyncCount,
		SyncInProgress:   s.inFlight > 0,
		LastSyncTime:     s.lastSyncTime,
		ConnectionStatus: s.connectionStatus,
		ReconnectAttempt: s.reconnectAttempt,
		RecentSyncs:      recent,
	}
}
