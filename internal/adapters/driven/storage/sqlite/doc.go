// Package sqlite provides the document catalog on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. The catalog records, per partition, each ingested document's title, the
// chunk IDs it produced and its original JSON payload.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files
// and records its own version in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.dailybit/data/catalog.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode.
package sqlite
