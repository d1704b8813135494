/*
Package api implements the Stride HTTP surface: REST mutation endpoints and
the per-user Server-Sent Events stream.

# Endpoints

	GET  /v1/events?token=…&clientId=…   text/event-stream
	CRUD /v1/tasks, /v1/sections, /v1/folders, /v1/smart-folders, /v1/tags
	PUT  /v1/tasks/reorder, /v1/sections/reorder
	GET  /v1/smart-folders/{id}/tasks
	GET  /health, /ready, /metrics

Mutation endpoints authenticate via the bearer token middleware; every
mutation is validated and authorized before the store is touched, and a
successful mutation broadcasts a change event to the user's other connected
clients. The origin stream is named by the X-Client-Id header (clientId
query parameter as fallback) so its own change is not echoed back to it.

# Event stream

A stream connection moves through four states:

	Authenticating ─▶ Open ─▶ Streaming ─▶ Closing
	      │             emits {"type":"connected","clientId":…}
	      └─▶ Rejected (401)

While streaming, the connection carries broadcast events as `data:` frames
and a comment-only `: heartbeat` frame on a fixed interval. Client abort and
write failure both close the connection; unregistration is idempotent so the
two paths may race safely. Reconnection is entirely the client's job: it
opens a fresh stream and refetches.
*/
package api
