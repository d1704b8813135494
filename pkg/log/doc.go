// Package log provides a thin wrapper around zerolog for structured logging.
//
// The package exposes a global Logger configured once at startup via Init,
// plus helpers that derive child loggers carrying common fields (component,
// user_id, client_id). Console output is the default; JSON output is used
// when running under a supervisor or log collector.
package log
