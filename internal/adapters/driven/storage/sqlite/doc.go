// Package sqlite provides a SQLite-backed implementation of the
// ArtifactCache driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. The cache holds
// last-known artifact state and listing pages between CLI invocations so
// read commands can answer without a round trip.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.corpora/data/cache.db
//
// # Thread Safety
//
// All operations are thread-safe. The cache uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
