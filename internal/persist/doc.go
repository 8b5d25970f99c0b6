// Package persist serializes the timeline for storage across sessions.
//
// Export produces a versioned JSON envelope holding the settings, the
// cursor, and every entry including nested batch children. Import
// validates structure before decoding and never touches the live
// timeline on failure. The transport that carries the bytes is the
// host's concern; FileStore is the default disk-backed implementation.
package persist
