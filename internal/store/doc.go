// Package store provides the in-memory entity store for the Daftar core.
//
// The store is a dumb container: insert, lookup by id, lookup by unique
// field (customer phone, product code), remove, iterate. It performs no
// validation and enforces no cross-entity invariants; that is the engine's
// job. It also owns the per-year invoice and contract sequence counters,
// which only ever grow (document numbers are never reused after deletion
// or bulk clears).
//
// List methods return entities sorted by id so snapshot encoding and CLI
// output are deterministic.
package store
