// Package gateway maintains a long-lived WebSocket session with the
// real-time message gateway, filters message-create events to the watched
// channel, and hands parsed record updates to a forwarder.
package gateway
