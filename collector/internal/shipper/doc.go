// Package shipper forwards parsed record updates to the aggregation
// server's ingest endpoint over HTTP.
package shipper
