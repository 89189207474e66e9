package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/fxbook/trade"
)

// ErrBusy means the storage engine could not acquire its lock within the
// busy timeout. The write did not happen; callers retry with backoff.
var ErrBusy = errors.New("storage busy")

// busyTimeout bounds how long a blocked writer waits before giving up
// with ErrBusy instead of hanging.
const busyTimeout = 5 * time.Second

// Store is a SQLite-backed trade book. Writes go through a dedicated
// single-connection handle so at most one write transaction is in flight
// system-wide; reads run on a separate WAL connection pool and do not
// block on the writer.
type Store struct {
	writer *sql.DB
	reader *sql.DB
}

// Open opens (creating if needed) the trade book at path and applies the
// schema.
func Open(path string) (*Store, error) {
	writer, err := sql.Open("sqlite3", dsn(path, true))
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	// One connection, so concurrent writers queue in-process instead of
	// racing for the database lock.
	writer.SetMaxOpenConns(1)

	if _, err := writer.Exec(Schema); err != nil {
		writer.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	reader, err := sql.Open("sqlite3", dsn(path, false))
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}

	return &Store{writer: writer, reader: reader}, nil
}

func dsn(path string, write bool) string {
	s := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on",
		path, busyTimeout.Milliseconds())
	if write {
		// Take the write lock at BEGIN so a transaction never deadlocks
		// upgrading a read lock mid-flight.
		s += "&_txlock=immediate"
	}
	return s
}

// Tx is one atomic unit of work against the trade book. Everything done
// through a Tx commits together or not at all.
type Tx interface {
	// AllocateSequence hands out the next sequence number for date,
	// starting at 1 for a date's first allocation. The read-increment-
	// persist is a single statement, indivisible with respect to every
	// other allocator.
	AllocateSequence(date, now time.Time) (int64, error)

	// InsertTrade persists a new trade and fills in its assigned id.
	InsertTrade(t *trade.Trade) error

	// UpdateTrade persists the mutable fields of t, guarded by t.Version.
	// On success t.Version is incremented. A version mismatch returns
	// ConflictError; a missing row returns NotFoundError.
	UpdateTrade(t *trade.Trade) error

	// GetTrade reads a trade by id within the transaction.
	GetTrade(id int64) (*trade.Trade, error)

	// InsertAudit appends one immutable audit entry.
	InsertAudit(a *trade.Audit) error
}

// WithTx runs fn inside a single write transaction. If fn returns an
// error the transaction is rolled back and the error is returned
// unchanged; commit errors are mapped to the store taxonomy.
func (s *Store) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	dbtx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return mapSQLiteErr(err)
	}

	t := &sqliteTx{tx: dbtx}
	if err := fn(t); err != nil {
		_ = dbtx.Rollback()
		return err
	}

	if err := dbtx.Commit(); err != nil {
		return mapSQLiteErr(err)
	}
	return nil
}

// Close releases both connection handles.
func (s *Store) Close() error {
	rerr := s.reader.Close()
	werr := s.writer.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// mapSQLiteErr translates driver-level lock contention into ErrBusy.
func mapSQLiteErr(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		if se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked {
			return fmt.Errorf("%w: %v", ErrBusy, err)
		}
	}
	return err
}
