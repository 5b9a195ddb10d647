// Package parse extracts structured game-server facts from one chat message:
// a display name, an earnings rate, a player-count descriptor, and a job
// (session) identifier.
//
// Source messages are human-oriented and inconsistently formatted — bot
// embeds, emoji-decorated field names, bold markers, varied rate units — so
// extraction is heuristic and best-effort. Every branch degrades to an
// empty/zero value; Extract never fails.
//
// Extraction order matters and is part of the contract:
//  1. The raw message body can seed the job ID (long token with "-" or "/").
//  2. Embed fields are classified by name keywords and override step 1.
//  3. Per embed, the title backfills a missing server name, and the
//     description is scanned for a TeleportToPlaceInstance(...) argument and
//     then for a UUID-shaped token; the UUID match wins when both are
//     present.
package parse
