package dbaccess

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/voltcalc/voltcalc/pkg/telemetry"
)

// SessionFactory opens scoped database sessions against the resolved
// backend. The sql.DB handle is opened lazily and shared; each session
// scope takes its own dedicated connection, so scopes are never shared
// across concurrent units of work.
type SessionFactory struct {
	resolver *Resolver
	log      *telemetry.Logger
	metrics  *telemetry.Metrics

	mu   sync.Mutex
	db   *sql.DB
	conn Connection
}

// NewSessionFactory creates a session factory over a resolver.
func NewSessionFactory(resolver *Resolver, log *telemetry.Logger, metrics *telemetry.Metrics) *SessionFactory {
	if log == nil {
		log = telemetry.Nop()
	}
	return &SessionFactory{
		resolver: resolver,
		log:      log.NewComponentLogger("session"),
		metrics:  metrics,
	}
}

// WithSession runs fn inside a transaction on the resolved backend.
//
// On the SQLite backend the session first enables foreign-key
// enforcement, which SQLite leaves off by default. The transaction
// commits when fn returns nil and rolls back when it returns an error;
// either way the underlying connection is released.
func (f *SessionFactory) WithSession(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, connInfo, err := f.openDB(ctx)
	if err != nil {
		return err
	}

	log := f.log.WithSessionID(uuid.NewString()).WithBackend(string(connInfo.Backend))

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire database connection: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.WithError(cerr).Error("failed to release database connection")
		}
	}()

	if connInfo.Backend == BackendSQLite {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.WithError(rbErr).Error("rollback failed")
		}
		f.metrics.IncSessionRolledBack()
		if IsOperationalError(err) {
			log.WithError(err).Error("database operation failed, session rolled back")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		f.metrics.IncSessionRolledBack()
		log.WithError(err).Error("commit failed")
		return fmt.Errorf("commit transaction: %w", err)
	}

	f.metrics.IncSessionCommitted()
	return nil
}

// Close closes the shared database handle.
func (f *SessionFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.db == nil {
		return nil
	}
	err := f.db.Close()
	f.db = nil
	return err
}

// Ping verifies connectivity to the resolved backend.
func (f *SessionFactory) Ping(ctx context.Context) (Connection, error) {
	db, conn, err := f.openDB(ctx)
	if err != nil {
		return conn, err
	}
	return conn, db.PingContext(ctx)
}

// openDB resolves the backend and opens the shared handle once.
func (f *SessionFactory) openDB(ctx context.Context) (*sql.DB, Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.db != nil {
		return f.db, f.conn, nil
	}

	connInfo, err := f.resolver.Resolve()
	if err != nil {
		return nil, Connection{}, err
	}

	db, err := sql.Open(connInfo.Backend.DriverName(), connInfo.DSN)
	if err != nil {
		return nil, Connection{}, fmt.Errorf("open %s database: %w", connInfo.Backend, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, Connection{}, fmt.Errorf("ping %s database: %w", connInfo.Backend, err)
	}

	f.db = db
	f.conn = connInfo
	return f.db, f.conn, nil
}

// IsOperationalError reports whether err was surfaced by one of the
// database drivers, as opposed to the caller's own unit of work.
func IsOperationalError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return true
	}
	var liteErr *sqlite.Error
	return errors.As(err, &liteErr)
}
