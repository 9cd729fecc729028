package staging

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"burnish/internal/catalog"
	"burnish/internal/config"
	"burnish/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases must be deleted and re-created.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("staging schema version mismatch")

// Store manages staged-result persistence backed by SQLite, scoped to a
// single tenant.
type Store struct {
	db     *sql.DB
	path   string
	tenant string
}

// Open initializes or connects to the staging database, creates the schema if
// needed, and purges entries past the configured TTL.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.StagingDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, tenant: strings.ToLower(strings.TrimSpace(cfg.Catalog.Tenant))}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := store.PurgeExpired(context.Background(), cfg.StagingTTL()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Put inserts or replaces the staged entry for an item. A re-run of the same
// item replaces the previous proposal wholesale.
func (s *Store) Put(ctx context.Context, itemID string, original, proposed catalog.Snapshot) (*StagedResult, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, services.Wrap(services.ErrValidation, "staging", "put", "item id required", nil)
	}

	originalJSON, err := json.Marshal(original)
	if err != nil {
		return nil, fmt.Errorf("marshal original snapshot: %w", err)
	}
	proposedJSON, err := json.Marshal(proposed)
	if err != nil {
		return nil, fmt.Errorf("marshal proposed snapshot: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO staged_results (tenant, item_id, original_json, proposed_json, created_at, published)
         VALUES (?, ?, ?, ?, ?, 0)
         ON CONFLICT (tenant, item_id) DO UPDATE SET
             original_json = excluded.original_json,
             proposed_json = excluded.proposed_json,
             created_at = excluded.created_at,
             published = 0`,
		s.tenant, itemID, string(originalJSON), string(proposedJSON), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert staged result: %w", err)
	}
	return s.Get(ctx, itemID)
}

// Get fetches the staged entry for an item. Returns services.ErrNotFound when
// no entry exists.
func (s *Store) Get(ctx context.Context, itemID string) (*StagedResult, error) {
	itemID = strings.TrimSpace(itemID)
	row := s.db.QueryRowContext(ctx,
		`SELECT tenant, item_id, original_json, proposed_json, created_at
         FROM staged_results WHERE tenant = ? AND item_id = ?`,
		s.tenant, itemID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "staging", "get", itemID, nil)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns all staged entries for the tenant, oldest first.
func (s *Store) List(ctx context.Context) ([]*StagedResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tenant, item_id, original_json, proposed_json, created_at
         FROM staged_results WHERE tenant = ? ORDER BY created_at ASC, item_id ASC`,
		s.tenant,
	)
	if err != nil {
		return nil, fmt.Errorf("list staged results: %w", err)
	}
	defer rows.Close()

	var entries []*StagedResult
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staged results: %w", err)
	}
	return entries, nil
}

// ItemIDs returns the ids of all staged entries for the tenant.
func (s *Store) ItemIDs(ctx context.Context) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ItemID)
	}
	return ids, nil
}

// Remove deletes the staged entry for an item. Removing an absent entry is a
// no-op: discard is idempotent.
func (s *Store) Remove(ctx context.Context, itemID string) (bool, error) {
	itemID = strings.TrimSpace(itemID)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM staged_results WHERE tenant = ? AND item_id = ?",
		s.tenant, itemID,
	)
	if err != nil {
		return false, fmt.Errorf("delete staged result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// PurgeExpired deletes unpublished entries older than maxAge and returns the
// number removed. A non-positive maxAge disables purging.
func (s *Store) PurgeExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM staged_results WHERE tenant = ? AND created_at < ?",
		s.tenant, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

// Count returns the number of staged entries for the tenant.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM staged_results WHERE tenant = ?", s.tenant,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count staged results: %w", err)
	}
	return count, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*StagedResult, error) {
	var (
		tenant       string
		itemID       string
		originalJSON string
		proposedJSON string
		createdAt    string
	)
	if err := scanner.Scan(&tenant, &itemID, &originalJSON, &proposedJSON, &createdAt); err != nil {
		return nil, err
	}

	entry := &StagedResult{Tenant: tenant, ItemID: itemID}
	if err := json.Unmarshal([]byte(originalJSON), &entry.Original); err != nil {
		return nil, fmt.Errorf("unmarshal original snapshot for %s: %w", itemID, err)
	}
	if err := json.Unmarshal([]byte(proposedJSON), &entry.Proposed); err != nil {
		return nil, fmt.Errorf("unmarshal proposed snapshot for %s: %w", itemID, err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for %s: %w", itemID, err)
	}
	entry.CreatedAt = parsed
	return entry, nil
}
