// Package mirror keeps a local SQL copy of listed CMS entities.
package mirror

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const createTable = `
CREATE TABLE IF NOT EXISTS cms_entities (
	kind      TEXT NOT NULL,
	id        TEXT NOT NULL,
	payload   TEXT NOT NULL,
	synced_at TIMESTAMP NOT NULL,
	PRIMARY KEY (kind, id)
);
`

// Mirror stores entity payloads keyed by (kind, id).
type Mirror struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to driver/dsn and ensures the table exists. For sqlite the
// dsn is a file path.
func Open(driver, dsn string) (*Mirror, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("mirror dsn must not be empty")
	}

	switch driver {
	case DriverSQLite, "sqlite":
		driver = DriverSQLite
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create mirror directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dsn)
	case DriverPostgres, "postgresql":
		driver = DriverPostgres
	default:
		return nil, fmt.Errorf("unsupported mirror driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cms_entities table: %w", err)
	}

	return &Mirror{db: db, driver: driver, now: time.Now}, nil
}

// Close closes the database.
func (m *Mirror) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Save upserts items under kind and returns how many were written. Items
// without an "id" field are skipped.
func (m *Mirror) Save(ctx context.Context, kind string, items []json.RawMessage) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, m.rebind(`
		INSERT INTO cms_entities (kind, id, payload, synced_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind, id) DO UPDATE SET payload = excluded.payload, synced_at = excluded.synced_at`))
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	syncedAt := m.now().UTC()
	saved := 0
	for _, item := range items {
		id, ok := itemID(item)
		if !ok {
			continue
		}
		if _, err := stmt.ExecContext(ctx, kind, id, string(item), syncedAt); err != nil {
			return 0, fmt.Errorf("upsert %s/%s: %w", kind, id, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

// Count returns how many entities of kind are stored.
func (m *Mirror) Count(ctx context.Context, kind string) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx, m.rebind(`SELECT COUNT(*) FROM cms_entities WHERE kind = $1`), kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

// Get returns the stored payload for kind/id, or sql.ErrNoRows.
func (m *Mirror) Get(ctx context.Context, kind, id string) (json.RawMessage, error) {
	var payload string
	err := m.db.QueryRowContext(ctx, m.rebind(`SELECT payload FROM cms_entities WHERE kind = $1 AND id = $2`), kind, id).Scan(&payload)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(payload), nil
}

// rebind swaps $n placeholders for ? on sqlite.
func (m *Mirror) rebind(query string) string {
	if m.driver != DriverSQLite {
		return query
	}
	for i := 9; i >= 1; i-- {
		query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), "?")
	}
	return query
}

// itemID reads the "id" field of an object as a string.
func itemID(item json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	var probe struct {
		ID any `json:"id"`
	}
	if err := dec.Decode(&probe); err != nil {
		return "", false
	}
	switch v := probe.ID.(type) {
	case json.Number:
		return v.String(), true
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}
