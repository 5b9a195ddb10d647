// Package receiver implements the ingest endpoint — POST /receive — that
// accepts partial records from the collector or any external publisher.
//
// The body is either a single JSON object or an array of objects. Each item
// has its deduplication key derived (jobId first, message id second, random
// token last) and is upserted into the store; one timestamp is captured per
// request so a batch lands as simultaneous observations. The response is
// {"status":"ok","count":N} where N counts all stored keys, stale ones
// included.
//
// Authentication, when enabled, is enforced by middleware before the
// handler runs (see package auth); the receiver itself only performs
// structural decoding.
package receiver
