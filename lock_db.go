package ocfl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dbLock is a Lock backed by a SQL table, allowing commits to an object to
// be serialized across multiple processes sharing a database.
type dbLock struct {
	db      *sql.DB
	table   string
	timeout time.Duration
	maxAge  time.Duration
}

// DBLockOption configures a Lock returned by [NewDBLock].
type DBLockOption func(*dbLock)

// DBLockTable sets the name of the table used to track held locks. The
// default is "ocfl_object_locks".
func DBLockTable(name string) DBLockOption {
	return func(l *dbLock) { l.table = name }
}

// DBLockPollTimeout bounds how long a single acquisition attempt waits
// between retries before checking ctx again. The default is 50ms.
func DBLockPollTimeout(d time.Duration) DBLockOption {
	return func(l *dbLock) { l.timeout = d }
}

// DBLockMaxDuration sets how long a held lock row is honored before a
// competing Lock call is allowed to steal it. A row surviving past this
// age means the process that inserted it crashed or was killed without
// releasing it; without stealing, that object would be locked out forever.
// The default is 1 hour.
func DBLockMaxDuration(d time.Duration) DBLockOption {
	return func(l *dbLock) { l.maxAge = d }
}

// NewDBLock returns a Lock backed by db, creating its tracking table if it
// does not already exist. db may be any database/sql driver; the module's
// own tests use modernc.org/sqlite, a pure-Go SQLite driver
// that needs no cgo toolchain.
func NewDBLock(ctx context.Context, db *sql.DB, opts ...DBLockOption) (Lock, error) {
	l := &dbLock{db: db, table: "ocfl_object_locks", timeout: 50 * time.Millisecond, maxAge: time.Hour}
	for _, opt := range opts {
		opt(l)
	}
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		object_id TEXT PRIMARY KEY,
		acquired_at TIMESTAMP NOT NULL
	)`, l.table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, &RepositoryConfigurationErr{Msg: "creating object lock table", Err: err}
	}
	return l, nil
}

func (l *dbLock) Lock(ctx context.Context, id string) (func(), error) {
	insert := fmt.Sprintf(`INSERT INTO %s (object_id, acquired_at) VALUES (?, ?)`, l.table)
	ticker := time.NewTicker(l.timeout)
	defer ticker.Stop()
	for {
		_, err := l.db.ExecContext(ctx, insert, id, time.Now().UTC())
		if err == nil {
			return func() { l.unlock(id) }, nil
		}
		if !isUniqueConstraintErr(err) {
			return nil, &LockContentionErr{ID: id, Err: err}
		}
		stolen, err := l.steal(ctx, id)
		if err != nil {
			return nil, &LockContentionErr{ID: id, Err: err}
		}
		if stolen {
			return func() { l.unlock(id) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, &LockContentionErr{ID: id, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

// steal replaces id's lock row with a fresh one if the existing row is
// older than l.maxAge, reclaiming a lock abandoned by a crashed holder.
func (l *dbLock) steal(ctx context.Context, id string) (bool, error) {
	update := fmt.Sprintf(`UPDATE %s SET acquired_at = ? WHERE object_id = ? AND acquired_at < ?`, l.table)
	cutoff := time.Now().UTC().Add(-l.maxAge)
	res, err := l.db.ExecContext(ctx, update, time.Now().UTC(), id, cutoff)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (l *dbLock) unlock(id string) {
	del := fmt.Sprintf(`DELETE FROM %s WHERE object_id = ?`, l.table)
	// best-effort: a failure here just leaves a stale row; later Lock calls
	// for id wait on it until it is older than maxAge and steal it.
	_, _ = l.db.ExecContext(context.Background(), del, id)
}

// isUniqueConstraintErr reports whether err looks like a primary-key/unique
// constraint violation. Driver-specific error types vary (sqlite's
// modernc.org/sqlite returns a *sqlite.Error with a SQLITE_CONSTRAINT
// code), so this falls back to matching on the error text, which is the
// only portable option across database/sql drivers.
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr interface{ Error() string }
	if errors.As(err, &sqliteErr) {
		msg := sqliteErr.Error()
		return contains(msg, "UNIQUE constraint failed") || contains(msg, "constraint violation")
	}
	return false
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
