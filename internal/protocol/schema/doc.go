// Package schema maps (family, action) pairs to constructible packets.
//
// A Registry consults a primary Source first and a custom Fallback second.
// The fallback exists for application packets the shared schema cannot
// express; it must never claim a pair the primary already serves, which
// Validate checks at startup and in tests.
package schema
