// Package jasondb implements a per-entity document store: every
// logical entity, named by a caller-supplied string key, owns exactly
// one JSON-shaped document persisted as one file and mirrored by an
// in-process cache. Writes are atomic and durable; at most one write
// per key is in flight at any time; keys never block each other.
//
// Components:
//   - Backend: reads and atomically replaces one document's bytes per
//     key (filesystem directory by default; git-versioned and Redis
//     variants under backend/).
//   - Codec: (de)serializes Document <-> []byte (JSON by default;
//     Msgpack, CBOR and protobuf Struct under codec/).
//   - Cache: advisory last-known-good document per key. The file is
//     the source of truth; cache errors degrade to misses.
//
// Per-key protocol:
//
//	Load: lock -> cache hit? -> backend read -> decode -> merge defaults -> cache -> copy out
//	Save: lock -> encode -> atomic write -> cache replace (entry dropped on any failure)
//
// Unseen keys load as a copy of the default template. Stored documents
// are completed against the template on every load: template values
// fill gaps, stored values always win, and the merge recurses into
// nested objects so a template can grow new fields without clobbering
// old data.
//
// Every document crossing the store boundary is a deep copy. Mutating
// a returned document changes nothing until it is saved.
package jasondb
