package storage

// Package storage provides minikv's persistence layer: a small key-value
// store behind the Store interface.
//
// Backends:
//   - file: in-memory map + append-only jsonl journal, compacted into an
//     atomic snapshot
//   - sqlite: single-file database (build with -tags sqlite)
