package dbaccess

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-sql-driver/mysql"

	"github.com/voltcalc/voltcalc/pkg/params"
	"github.com/voltcalc/voltcalc/pkg/telemetry"
	"github.com/voltcalc/voltcalc/pkg/typeconv"
)

// Backend identifies the selected database connection kind.
type Backend string

const (
	// BackendMySQL is the preferred shared backend.
	BackendMySQL Backend = "MySQL"
	// BackendSQLite is the local fallback backend.
	BackendSQLite Backend = "SQLite"
)

// DriverName returns the database/sql driver name for the backend.
func (b Backend) DriverName() string {
	if b == BackendMySQL {
		return "mysql"
	}
	return "sqlite"
}

// Connection is the outcome of a resolution: the selected backend and an
// opaque connection string for its driver.
type Connection struct {
	Backend Backend
	DSN     string
}

// ErrUnknownBackendState marks a stored DB_EXISTING_CONNECTION value that
// is neither a recognized backend tag nor the unset sentinel.
var ErrUnknownBackendState = errors.New("unrecognized stored backend state")

// ParamStore is the parameter access the resolver needs.
type ParamStore interface {
	Get(name string) (typeconv.Value, error)
	Set(name string, value typeconv.Value) error
}

// ResolverConfig holds connection resolver configuration.
type ResolverConfig struct {
	// Store supplies and persists the backend selection state.
	Store ParamStore

	// CredentialsPath is the MySQL credentials file. Its presence alone
	// makes the resolver prefer MySQL.
	CredentialsPath string

	// RootDir is the directory holding the local SQLite database file.
	RootDir string

	// Host is the MySQL server host. Defaults to localhost.
	Host string

	// Logger is optional.
	Logger *telemetry.Logger

	// Metrics is optional.
	Metrics *telemetry.Metrics
}

// Resolver decides once per process which backend to connect to. The
// decision is memoized behind a mutex, so a multi-threaded host sees a
// single consistent connection for the process lifetime. There is no
// invalidation; a restart re-resolves.
type Resolver struct {
	store           ParamStore
	credentialsPath string
	rootDir         string
	host            string
	log             *telemetry.Logger
	metrics         *telemetry.Metrics

	mu       sync.Mutex
	conn     Connection
	resolved bool
}

// NewResolver creates a connection resolver.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("parameter store is required")
	}
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("credentials path is required")
	}
	if cfg.RootDir == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	log := cfg.Logger
	if log == nil {
		log = telemetry.Nop()
	}
	return &Resolver{
		store:           cfg.Store,
		credentialsPath: cfg.CredentialsPath,
		rootDir:         cfg.RootDir,
		host:            cfg.Host,
		log:             log.NewComponentLogger("resolver"),
		metrics:         cfg.Metrics,
	}, nil
}

// Resolve returns the connection for the selected backend. The first
// successful resolution is cached; subsequent calls return the cached
// connection without re-reading the store or the credentials file.
func (r *Resolver) Resolve() (Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		r.metrics.IncResolverCacheHit()
		return r.conn, nil
	}

	conn, err := r.resolve()
	if err != nil {
		return Connection{}, err
	}

	r.conn = conn
	r.resolved = true
	r.metrics.IncResolution(string(conn.Backend))
	return conn, nil
}

// resolve runs one resolution cycle with a single reset-and-retry when
// the stored backend state is unrecognized, or when it demands MySQL but
// the credentials file is gone. A second failure is fatal.
func (r *Resolver) resolve() (Connection, error) {
	conn, err := r.resolveOnce()
	if !errors.Is(err, ErrUnknownBackendState) && !errors.Is(err, ErrCredentialsNotFound) {
		return conn, err
	}

	r.log.WithError(err).Warnf("the %s parameter has been reset, retrying database connection", params.DBExistingConnection)
	if serr := r.store.Set(params.DBExistingConnection, typeconv.Bool(false)); serr != nil {
		return Connection{}, fmt.Errorf("reset backend state: %w", serr)
	}

	conn, err = r.resolveOnce()
	if errors.Is(err, ErrUnknownBackendState) || errors.Is(err, ErrCredentialsNotFound) {
		return Connection{}, fmt.Errorf("database connection failed after state reset: %w", err)
	}
	return conn, err
}

// resolveOnce selects a backend from the credentials file and the stored
// state. MySQL is always attempted first when credentials exist,
// regardless of what is stored.
func (r *Resolver) resolveOnce() (Connection, error) {
	if _, err := os.Stat(r.credentialsPath); err == nil {
		return r.mysqlAccess()
	}

	stored, err := r.store.Get(params.DBExistingConnection)
	if err != nil {
		return Connection{}, err
	}

	switch {
	case stored.Kind() == typeconv.KindString && stored.Text() == string(BackendMySQL):
		return r.mysqlAccess()

	case stored.Kind() == typeconv.KindString && stored.Text() == string(BackendSQLite):
		return r.sqliteAccess()

	case stored.IsAbsent(), stored.Kind() == typeconv.KindBool && !stored.Bool():
		r.log.Warn("existing connection not found")
		conn, err := r.mysqlAccess()
		if errors.Is(err, ErrCredentialsNotFound) {
			r.log.Warn("credentials file for MySQL database not found, falling back to SQLite")
			return r.sqliteAccess()
		}
		return conn, err

	default:
		return Connection{}, fmt.Errorf("%w: %s", ErrUnknownBackendState, stored.String())
	}
}

// mysqlAccess builds the MySQL connection. On the first switch to MySQL
// it persists the selection and deletes the local SQLite database so the
// two backends cannot drift apart.
func (r *Resolver) mysqlAccess() (Connection, error) {
	r.log.Info("accessing MySQL database, initializing credentials")

	creds, err := LoadCredentials(r.credentialsPath)
	if err != nil {
		return Connection{}, err
	}

	cfg := mysql.NewConfig()
	cfg.User = creds.Login
	cfg.Passwd = creds.Password
	cfg.Net = "tcp"
	cfg.Addr = r.host
	cfg.DBName = creds.DBName
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	dsn := cfg.FormatDSN()

	stored, err := r.store.Get(params.DBExistingConnection)
	if err != nil {
		return Connection{}, err
	}
	if stored.Kind() != typeconv.KindString || stored.Text() != string(BackendMySQL) {
		if err := r.store.Set(params.DBExistingConnection, typeconv.String(string(BackendMySQL))); err != nil {
			return Connection{}, err
		}
		if err := r.removeLocalDatabase(); err != nil {
			return Connection{}, err
		}
	}

	r.log.Info("connected to MySQL database")
	return Connection{Backend: BackendMySQL, DSN: dsn}, nil
}

// sqliteAccess builds the SQLite connection from the configured local
// file name, persisting the selection when it changes.
func (r *Resolver) sqliteAccess() (Connection, error) {
	name, err := r.store.Get(params.SQLiteDBName)
	if err != nil {
		return Connection{}, err
	}
	if name.Kind() != typeconv.KindString || name.Text() == "" {
		return Connection{}, fmt.Errorf("%s is not configured", params.SQLiteDBName)
	}

	stored, err := r.store.Get(params.DBExistingConnection)
	if err != nil {
		return Connection{}, err
	}
	if stored.Kind() != typeconv.KindString || stored.Text() != string(BackendSQLite) {
		if err := r.store.Set(params.DBExistingConnection, typeconv.String(string(BackendSQLite))); err != nil {
			return Connection{}, err
		}
	}

	r.log.Info("connected to SQLite database")
	return Connection{Backend: BackendSQLite, DSN: filepath.Join(r.rootDir, name.Text())}, nil
}

// removeLocalDatabase deletes the fallback SQLite file after a switch to
// MySQL. This is destructive, so it is always reported at warn level.
func (r *Resolver) removeLocalDatabase() error {
	name, err := r.store.Get(params.SQLiteDBName)
	if err != nil {
		return err
	}
	if name.Kind() != typeconv.KindString || name.Text() == "" {
		return nil
	}

	path := filepath.Join(r.rootDir, name.Text())
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete local database %s: %w", path, err)
	}
	r.log.Warnf("existing SQLite database %s deleted", name.Text())
	return nil
}
