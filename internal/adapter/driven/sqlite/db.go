package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// Pool sizes. SQLite serialises writers, so inserts share one connection
// while thread listings fan out over several readers.
const (
	writerConns = 1
	readerConns = 4
)

// commonPragmas apply to every connection of both pools.
var commonPragmas = []string{
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"cache_size(-64000)",
}

// DB is the comment database: a single-connection writer pool, a reader
// pool, and the schema version the migrations left it at.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB

	schemaVersion uint
}

// NewDB opens the comment database at dbPath in WAL mode and migrates it to
// the latest comments schema.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	db, err := openPools(ctx, buildDSN(dbPath, false))
	if err != nil {
		return nil, fmt.Errorf("opening comment database %s: %w", dbPath, err)
	}
	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// buildDSN returns the modernc DSN for a comment database. File databases
// use the WAL journal; named in-memory ones share a cache so both pools see
// the same data.
func buildDSN(name string, inMemory bool) string {
	params := make([]string, 0, len(commonPragmas)+2)
	if inMemory {
		name = url.PathEscape(name)
		params = append(params, "mode=memory", "cache=shared")
	} else {
		params = append(params, "_pragma=journal_mode(WAL)")
	}
	for _, p := range commonPragmas {
		params = append(params, "_pragma="+p)
	}
	return "file:" + name + "?" + strings.Join(params, "&")
}

func openPools(ctx context.Context, dsn string) (*DB, error) {
	writer, err := openPool(ctx, dsn, writerConns)
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}
	reader, err := openPool(ctx, dsn, readerConns)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("reader: %w", err)
	}
	return &DB{Writer: writer, Reader: reader}, nil
}

func openPool(ctx context.Context, dsn string, conns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(conns)
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return pool, nil
}

func (db *DB) migrate() error {
	version, err := RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	db.schemaVersion = version
	return nil
}

// SchemaVersion reports the comments schema version applied at open.
func (db *DB) SchemaVersion() uint {
	return db.schemaVersion
}

// Close closes both pools and returns the first error.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
