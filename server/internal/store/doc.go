// Package store holds the in-memory record index: a thread-safe keyed map
// with merge-on-write upserts and time-based eviction. Records stay readable
// for the configured TTL after their last observation; a fixed 30-second
// background sweep physically removes them once stale.
package store
