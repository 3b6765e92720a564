package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/dailybit/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentCatalog = (*Store)(nil)

// DatabaseFile is the catalog file name inside the data directory.
const DatabaseFile = "catalog.db"

// Store is a SQLite-backed document catalog.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the catalog in dataDir.
// If dataDir is empty, defaults to ~/.dailybit/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".dailybit", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every NNN_*.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var ups []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			ups = append(ups, entry.Name())
		}
	}
	sort.Strings(ups)

	for _, name := range ups {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// Save inserts or replaces a record. The first ingested_at is kept.
func (s *Store) Save(ctx context.Context, record *domain.DocumentRecord) error {
	if record == nil || record.ID == "" || !record.Partition.IsValid() {
		return fmt.Errorf("%w: record needs an id and a valid partition", domain.ErrInvalidInput)
	}

	chunkIDs, err := json.Marshal(nonNilIDs(record.ChunkIDs))
	if err != nil {
		return fmt.Errorf("marshalling chunk ids: %w", err)
	}

	now := time.Now().UTC()
	ingested, updated := record.IngestedAt, record.UpdatedAt
	if ingested.IsZero() {
		ingested = now
	}
	if updated.IsZero() {
		updated = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (partition, id, title, chunk_ids, payload, ingested_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(partition, id) DO UPDATE SET
			title = excluded.title,
			chunk_ids = excluded.chunk_ids,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, record.Partition.String(), record.ID, record.Title, string(chunkIDs), record.Payload,
		ingested.UTC(), updated.UTC())
	if err != nil {
		return fmt.Errorf("saving document record: %w", err)
	}
	return nil
}

const selectRecord = `SELECT partition, id, title, chunk_ids, payload, ingested_at, updated_at FROM documents`

// Get returns a record or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, partition domain.Partition, id string) (*domain.DocumentRecord, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+" WHERE partition = ? AND id = ?", partition.String(), id)
	return scanRecord(row)
}

// List returns the partition's records ordered by title, then id.
func (s *Store) List(ctx context.Context, partition domain.Partition) ([]domain.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectRecord+" WHERE partition = ? ORDER BY title, id", partition.String())
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	out := []domain.DocumentRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return out, nil
}

// Delete removes a record. Returns domain.ErrNotFound if absent.
func (s *Store) Delete(ctx context.Context, partition domain.Partition, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE partition = ? AND id = ?", partition.String(), id)
	if err != nil {
		return fmt.Errorf("deleting document record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document record: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	var partition, chunkIDs string

	if err := row.Scan(&partition, &rec.ID, &rec.Title, &chunkIDs, &rec.Payload,
		&rec.IngestedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document record: %w", err)
	}

	rec.Partition = domain.Partition(partition)
	if err := json.Unmarshal([]byte(chunkIDs), &rec.ChunkIDs); err != nil {
		return nil, fmt.Errorf("unmarshalling chunk ids: %w", err)
	}
	return &rec, nil
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
