// Package config loads and validates the server configuration from the
// `server:` section of a YAML file. Secrets (ingest API key, webhook URLs)
// are referenced by environment variable name and resolved at use time, so
// config files stay safe to commit. Watch provides fsnotify-based
// hot-reload.
package config
