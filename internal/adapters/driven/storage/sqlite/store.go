package sqlite

import (
	"context"
	"database/sql"
	"embed"
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

	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed persistence layer.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sellbridge/data/sellbridge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sellbridge", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sellbridge.db")

	// WAL mode for better concurrency between the TUI and CLI processes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// ConnectionStore returns a StoreConnectionStore backed by this store.
func (s *Store) ConnectionStore() driven.StoreConnectionStore {
	return &connectionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Connection Store ====================

// connectionStore implements driven.StoreConnectionStore.
type connectionStore struct {
	store *Store
}

var _ driven.StoreConnectionStore = (*connectionStore)(nil)

// Upsert stores a connection, resolving natural-key conflicts in favour
// of the incoming row. The UNIQUE constraint on {owner_user_id, platform,
// domain} makes the no-duplicates property hold even if two processes
// race on the same store.
func (c *connectionStore) Upsert(ctx context.Context, conn domain.StoreConnection) error {
	if conn.ID == "" {
		return domain.ErrInvalidInput
	}

	credsJSON, err := json.Marshal(conn.Credentials)
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	now := time.Now().UTC()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	if conn.UpdatedAt.IsZero() {
		conn.UpdatedAt = now
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO store_connections (id, owner_user_id, platform, domain, display_name, credentials, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_user_id, platform, domain) DO UPDATE SET
			display_name = excluded.display_name,
			credentials = excluded.credentials,
			updated_at = excluded.updated_at
	`, conn.ID, conn.OwnerUserID, string(conn.Platform), conn.Domain,
		conn.DisplayName, string(credsJSON), conn.CreatedAt, conn.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving connection: %w", err)
	}
	return nil
}

// Get retrieves a connection by ID.
func (c *connectionStore) Get(ctx context.Context, id string) (*domain.StoreConnection, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, platform, domain, display_name, credentials, created_at, updated_at
		FROM store_connections WHERE id = ?
	`, id)
	return scanConnection(row)
}

// GetByNaturalKey retrieves a connection by its natural key.
func (c *connectionStore) GetByNaturalKey(ctx context.Context, ownerUserID string, platform domain.Platform, storeDomain string) (*domain.StoreConnection, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, platform, domain, display_name, credentials, created_at, updated_at
		FROM store_connections WHERE owner_user_id = ? AND platform = ? AND domain = ?
	`, ownerUserID, string(platform), storeDomain)
	return scanConnection(row)
}

// Delete removes a connection.
func (c *connectionStore) Delete(ctx context.Context, id string) error {
	result, err := c.store.db.ExecContext(ctx, "DELETE FROM store_connections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all connections for the owning user, newest first.
func (c *connectionStore) List(ctx context.Context, ownerUserID string) ([]domain.StoreConnection, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, owner_user_id, platform, domain, display_name, credentials, created_at, updated_at
		FROM store_connections WHERE owner_user_id = ?
		ORDER BY updated_at DESC
	`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	defer rows.Close()

	var connections []domain.StoreConnection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		connections = append(connections, *conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connections: %w", err)
	}
	return connections, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*domain.StoreConnection, error) {
	var conn domain.StoreConnection
	var platform, credsJSON string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&conn.ID, &conn.OwnerUserID, &platform, &conn.Domain,
		&conn.DisplayName, &credsJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning connection: %w", err)
	}

	conn.Platform = domain.Platform(platform)
	if err := json.Unmarshal([]byte(credsJSON), &conn.Credentials); err != nil {
		return nil, fmt.Errorf("unmarshalling credentials: %w", err)
	}
	if createdAt.Valid {
		conn.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		conn.UpdatedAt = updatedAt.Time
	}
	return &conn, nil
}
