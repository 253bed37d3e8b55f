// Package dbaccess selects and connects to the catalog database backend.
//
// The resolver prefers the MySQL backend whenever a credentials file is
// present and falls back to a local SQLite database otherwise, keeping
// the DB_EXISTING_CONNECTION parameter consistent with its decision. The
// first successful resolution is memoized for the process lifetime.
// Database work runs inside session scopes that commit on success, roll
// back on failure, and always release the underlying connection.
package dbaccess
