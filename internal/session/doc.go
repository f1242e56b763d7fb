// Package session owns one game connection: the negotiated multiplier, the
// outbound sequence counter, the inbound queue and the dispatch loop.
//
// A Session is created over an established net.Conn, performs the Init
// handshake, then runs two goroutines under one errgroup: a read pump that
// decodes frames into the queue, and a tick loop that drains the queue
// into registered handlers.
package session
