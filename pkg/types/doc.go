// Package types defines the shared Go types used by both the collector and
// the server: the stored Record, the partial Update applied on ingest, and
// the deduplication key derivation.
package types
