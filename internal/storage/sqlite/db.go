// ABOUTME: SQLite database connection and lifecycle management
// ABOUTME: Supports modernc.org/sqlite (pure Go, default) and mattn/go-sqlite3 (cgo)
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver names as registered with database/sql
const (
	DriverModernc = "sqlite"
	DriverCGO     = "sqlite3"
)

// DB wraps a SQLite database connection
type DB struct {
	conn   *sql.DB
	path   string
	driver string
}

// DefaultDataDir returns the default data directory following the XDG spec.
// XDG_DATA_HOME is honored at call time so tests can redirect it.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	if dataHome == "" {
		return ".local/share/todo-agent"
	}
	return filepath.Join(dataHome, "todo-agent")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "todo.db")
}

// dsn builds a driver-specific connection string with WAL and foreign keys enabled
func dsn(driver, path string, inMemory bool) (string, error) {
	switch driver {
	case DriverModernc:
		if inMemory {
			return ":memory:?_pragma=foreign_keys(ON)", nil
		}
		return path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", nil
	case DriverCGO:
		if inMemory {
			return ":memory:?_foreign_keys=on", nil
		}
		return path + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q (want %q or %q)", driver, DriverModernc, DriverCGO)
	}
}

// Open opens or creates a SQLite database at the given path using the default driver
func Open(path string) (*DB, error) {
	return OpenWithDriver(DriverModernc, path)
}

// OpenWithDriver opens or creates a SQLite database using the named driver
func OpenWithDriver(driver, path string) (*DB, error) {
	source, err := dsn(driver, path, false)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn, path: path, driver: driver}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// OpenInMemory creates an in-memory SQLite database (for testing)
func OpenInMemory() (*DB, error) {
	return OpenInMemoryWithDriver(DriverModernc)
}

// OpenInMemoryWithDriver creates an in-memory database using the named driver
func OpenInMemoryWithDriver(driver string) (*DB, error) {
	source, err := dsn(driver, "", true)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every pooled connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: ":memory:", driver: driver}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// initSchema creates all database tables and indexes and stamps the schema
// version. A database stamped by a newer build is refused.
func (db *DB) initSchema() error {
	var version int
	if err := db.conn.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	if _, err := db.conn.Exec(Schema); err != nil {
		return err
	}
	_, err := db.conn.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion))
	return err
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB connection for advanced usage
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Driver returns the database/sql driver name in use
func (db *DB) Driver() string {
	return db.driver
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
