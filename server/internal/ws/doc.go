// Package ws implements the live record stream. The Hub upgrades clients at
// GET /ws/stream, sends them the current fresh record list immediately, and
// rebroadcasts it on a fixed interval. Slow clients whose send buffer fills
// are disconnected rather than allowed to stall the broadcast.
package ws
