// Package config loads server configuration: built-in defaults, an optional
// YAML file, and environment overrides for secrets.
package config
