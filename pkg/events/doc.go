/*
Package events implements Stride's real-time fan-out core: the client
registry and the broadcast dispatcher.

The registry maps each user to their currently connected event-stream
subscribers, keyed by client id. The dispatcher takes a change event produced
by a mutation handler and delivers it to every other subscriber of the same
user, suppressing the echo back to the originating client.

# Delivery contract

	Mutation handler ──▶ Dispatcher.Broadcast(userID, event, originClientID)
	                          │
	                          ▼
	          Registry.Subscribers(userID) snapshot
	                          │
	          ┌───────────────┼────────────────┐
	          ▼               ▼                ▼
	     client a1       client b1        client c1
	     (== origin,     Send(event)      Send(event) fails
	      skipped)                        → c1 evicted

Delivery is best-effort and fire-and-forget. There is no buffering, no retry,
and no ordering guarantee across separate broadcasts; payloads carry enough
state (full entities, complete order lists) that late or out-of-order
application converges to the same result as a refetch. A failed send marks
the subscriber dead and removes it, so the registry self-heals as broken
connections are discovered. Removal is scoped to the exact registration:
when a client reconnects under the same id before its old connection has
finished tearing down, the stale cleanup leaves the new subscriber alone.

Events are never persisted. A client that is disconnected while a change
happens reconciles by refetching after it reconnects.
*/
package events
