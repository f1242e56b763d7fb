// Package dispatch owns inbound packet delivery.
//
// Ownership boundary:
// - inbound queue between the transport reader and the tick
// - (family, action) handler table
// - bounded per-tick drain
//
// The transport is the single producer; the tick is the single consumer.
// Handlers run only inside Tick, one at a time, in arrival order.
package dispatch
