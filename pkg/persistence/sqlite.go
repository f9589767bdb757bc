package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/internal/core/graphcore"
	_ "modernc.org/sqlite"
)

// isSafeIdent reports whether name is safe to interpolate into a SQL
// statement as a table identifier: only letters, digits, and
// underscores.
func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// SQLiteGraphStore persists whole-graph snapshots, keyed by graph ID,
// as compressed portable-form blobs.
type SQLiteGraphStore struct {
	db         *sql.DB
	serializer *Serializer
	tableName  string
}

// NewSQLiteGraphStore wraps an open database handle. serializer
// controls the at-rest compression/encryption of each snapshot; pass
// DefaultSerializer() for zstd-compressed, cleartext storage.
func NewSQLiteGraphStore(db *sql.DB, serializer *Serializer) *SQLiteGraphStore {
	return &SQLiteGraphStore{
		db:         db,
		serializer: serializer,
		tableName:  "graphs",
	}
}

// WithTableName overrides the default table name. Rejected names
// (anything but letters, digits, underscore) leave the table name
// unchanged.
func (s *SQLiteGraphStore) WithTableName(name string) *SQLiteGraphStore {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

// CreateTables creates the backing table and its indexes if absent.
func (s *SQLiteGraphStore) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			snapshot BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%s_name ON %s (name);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("persistence: create tables: %w", err)
	}
	return nil
}

// Save serializes g's portable form and upserts it under g.ID.
func (s *SQLiteGraphStore) Save(ctx context.Context, g *graphcore.Graph) error {
	snapshot, err := s.serializer.SaveGraph(g)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, name, snapshot, updated_at)
		VALUES (?, ?, ?, ?)
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query, g.ID.String(), g.Name, snapshot, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("persistence: save graph: %w", err)
	}
	return nil
}

// Get loads and reconstructs the graph stored under id, creating its
// nodes through e's factory. Returns ErrGraphNotFound if no row
// matches.
func (s *SQLiteGraphStore) Get(ctx context.Context, e *env.Environment, id string) (*graphcore.Graph, error) {
	query := fmt.Sprintf(`SELECT name, snapshot FROM %s WHERE id = ?`, s.tableName)

	var name string
	var snapshot []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&name, &snapshot)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGraphNotFound
		}
		return nil, fmt.Errorf("persistence: load graph: %w", err)
	}

	return s.serializer.LoadGraph(e, name, snapshot)
}

// GraphSummary is a row of List's output: identity without the cost of
// deserializing the full snapshot.
type GraphSummary struct {
	ID        string
	Name      string
	UpdatedAt time.Time
}

// List returns every stored graph's identity, most recently updated
// first.
func (s *SQLiteGraphStore) List(ctx context.Context) ([]GraphSummary, error) {
	query := fmt.Sprintf(`SELECT id, name, updated_at FROM %s ORDER BY updated_at DESC`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("persistence: list graphs: %w", err)
	}
	defer rows.Close()

	var out []GraphSummary
	for rows.Next() {
		var row GraphSummary
		var updatedAt int64
		if err := rows.Scan(&row.ID, &row.Name, &updatedAt); err != nil {
			return nil, fmt.Errorf("persistence: scan graph row: %w", err)
		}
		row.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, row)
	}
	return out, rows.Err()
}

// Delete removes the stored snapshot for id. Returns ErrGraphNotFound
// if no row matched.
func (s *SQLiteGraphStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.tableName)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("persistence: delete graph: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("persistence: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrGraphNotFound
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteGraphStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
