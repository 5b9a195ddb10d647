// Package auth implements optional API-key authentication for the ingest
// endpoint. With mode "apikey" and a configured key, requests must carry the
// key in the configured header; any other mode, or an unconfigured key, is a
// pass-through.
package auth
