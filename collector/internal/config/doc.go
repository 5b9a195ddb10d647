// Package config loads and validates the collector configuration from the
// `collector:` section of a YAML file. The gateway token and ingest API key
// are referenced by environment variable name and resolved at use time.
// Watch provides fsnotify-based hot-reload.
package config
