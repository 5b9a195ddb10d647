// Package api implements the HTTP read endpoints for farmwatch-server.
//
// New(store, engine) returns an http.Handler that serves:
//
//	GET /messages — all fresh records, most recently observed first
//	GET /health   — fresh/total counts and the age of the newest record
//	GET /alerts   — firing and recently resolved alerts
//
// All endpoints respond with Content-Type: application/json and return 405
// for non-GET methods. Stale records are excluded from /messages even
// before the sweep removes them. No external HTTP framework is used.
package api
