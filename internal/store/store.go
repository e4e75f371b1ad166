package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// tableName holds one row per preference key.
const tableName = "preferences"

// Store is a KV persisted in a SQLite file.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver

	// mu serializes transactions and orders snapshot publication.
	mu  sync.Mutex
	hub *hub
}

var _ KV = (*Store)(nil)

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the preferences table.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: SQLite has a single writer, and in-memory DSNs stay
	// coherent across queries.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{
		db:  db,
		drv: entsql.OpenDB(dialect.SQLite, db),
		hub: newHub(),
	}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close detaches observers and closes the database connection.
func (s *Store) Close() error {
	s.hub.close()
	return s.drv.Close()
}

func (s *Store) Data(ctx context.Context) (Preferences, error) {
	p, err := load(ctx, s.drv)
	if err != nil {
		return Preferences{}, unavailable("read", err)
	}
	return p, nil
}

func (s *Store) Edit(ctx context.Context, fn func(*MutablePreferences) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return unavailable("begin", err)
	}

	cur, err := load(ctx, tx)
	if err != nil {
		tx.Rollback()
		return unavailable("read", err)
	}

	mp := cur.Edit()
	if err := fn(mp); err != nil {
		tx.Rollback()
		return err
	}

	upserts, removed := mp.changes()
	if len(upserts) == 0 && len(removed) == 0 {
		return tx.Rollback()
	}
	if err := persist(ctx, tx, upserts, removed); err != nil {
		tx.Rollback()
		return unavailable("write", err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}

	s.hub.publish(mp.Snapshot())
	return nil
}

// Observe primes the stream with the stored snapshot. A failed read degrades
// to an empty snapshot so projections fall back to their defaults.
func (s *Store) Observe(ctx context.Context) <-chan Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := load(ctx, s.drv)
	if err != nil {
		p = Preferences{}
	}
	return s.hub.subscribe(ctx, p)
}

func load(ctx context.Context, q dialect.ExecQuerier) (Preferences, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("name", "kind", "value").
		From(entsql.Table(tableName)).
		Query()

	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return Preferences{}, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	m := make(map[string]value)
	for rows.Next() {
		var name, kind, raw string
		if err := rows.Scan(&name, &kind, &raw); err != nil {
			return Preferences{}, fmt.Errorf("scan preference: %w", err)
		}
		m[name] = value{kind: Kind(kind), raw: raw}
	}
	if err := rows.Err(); err != nil {
		return Preferences{}, fmt.Errorf("iterate preferences: %w", err)
	}
	return Preferences{m: m}, nil
}

func persist(ctx context.Context, tx dialect.Tx, upserts map[string]value, removed []string) error {
	b := entsql.Dialect(dialect.SQLite)

	for name, v := range upserts {
		query, args := b.Insert(tableName).
			Columns("name", "kind", "value").
			Values(name, string(v.kind), v.raw).
			OnConflict(
				entsql.ConflictColumns("name"),
				entsql.ResolveWithNewValues(),
			).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("upsert %s: %w", name, err)
		}
	}

	if len(removed) > 0 {
		names := make([]any, len(removed))
		for i, n := range removed {
			names[i] = n
		}
		query, args := b.Delete(tableName).
			Where(entsql.In("name", names...)).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("delete %d keys: %w", len(removed), err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		name  TEXT PRIMARY KEY,
		kind  TEXT NOT NULL,
		value TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create %s table: %w", tableName, err)
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. TRIGO_DB environment variable
// 2. $XDG_DATA_HOME/trigo/trigo.db
// 3. ~/.local/share/trigo/trigo.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TRIGO_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "trigo", "trigo.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
