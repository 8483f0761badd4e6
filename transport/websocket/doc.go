// Package websocket pushes live board updates to browser and agent clients.
//
// A central Hub owns every connection. Clients attach to one session via
// the ?session= query parameter and receive a JSON Message whenever that
// session's state changes:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Incoming client messages are ignored; the read loop only keeps the
// ping/pong keepalive running.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	// after a move
//	hub.BroadcastToSession(sessionID, state)
//
// Client bookkeeping happens only on the Run goroutine; the exported methods
// talk to it over channels and are safe for concurrent use. A client whose
// send buffer fills up is dropped.
package websocket
