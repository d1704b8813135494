// Package auth issues and verifies signed user tokens (HMAC JWT). The same
// verification path backs both the mutation middleware and the event stream
// endpoint, so a token is either good for everything or nothing.
package auth
