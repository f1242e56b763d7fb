// Package packets holds the shared-schema packet types and the tables that
// register them for each direction.
//
// Client packets travel client to server; server packets travel server to
// client. The same (family, action) pair may have a different layout in
// each direction, so each direction has its own table.
package packets
