/*
Package manager coordinates Stride's mutation path: persist to storage, then
fan the change out to the user's other live clients.

Every mutation funnels through the same two steps:

	API handler ──▶ Manager.<Mutate>(entity, originClientID)
	                     │
	                     ├─ 1. storage.Store write (atomic for reorders)
	                     └─ 2. events.Dispatcher broadcast (best-effort)

The broadcast step is deliberately fire-and-forget. The handler's response to
the originating client reflects only the persistence result; a stale peer tab
that misses an event catches up on its next refetch.
*/
package manager
