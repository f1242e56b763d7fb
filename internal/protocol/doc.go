// Package protocol owns the packet contract shared by every codec layer.
//
// Ownership boundary:
// - packet identity (family, action)
// - packet serialization contracts
// - protocol-wide sentinel errors
//
// Layering, leaf to root:
// - eodata: wire numeric unit and field reader/writer
// - transform: reversible byte obfuscation
// - sequence: rolling sequence field
// - schema: (family, action) type registry with custom fallback
// - envelope: header + transform + field serialization
// - frame: length-prefixed stream framing
package protocol
