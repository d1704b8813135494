// Package client implements the reconciliation side of Stride's live sync.
//
// A Client couples three pieces:
//
//   - a REST client for mutations, tagging every request with the stream's
//     client id so the server suppresses the echo
//   - an event stream subscriber that merges pushed changes from other
//     devices into a local Cache
//   - a SyncState tracking connectivity, in-flight requests, and a bounded
//     history of recent sync activity
//
// The cache holds flat entity tables; derived views (subtask grouping, tag
// resolution, drag projections) are rebuilt from them on demand and never
// written back. Missed events are not replayed: every reconnect triggers a
// full refetch, which makes the cache eventually consistent regardless of
// how long the client was away.
package client
