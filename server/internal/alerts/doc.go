// Package alerts evaluates threshold rules against every ingested record
// and delivers webhook notifications when rules fire or resolve.
//
// Conditions are simple "field operator value" expressions over a record:
// money_per_sec with numeric comparison, and server_name / players / author
// with equality. Each rule has a per-record cooldown; firing alerts resolve
// when a later observation of the same record no longer matches.
package alerts
