package params

// Parameter names form a fixed, pre-declared vocabulary. The store does
// not validate values against a schema beyond type round-tripping; legal
// value sets are the consumers' responsibility.
const (
	// DBExistingConnection records the database backend selected by the
	// connection resolver: 'MySQL', 'SQLite', or False when unset.
	DBExistingConnection = "DB_EXISTING_CONNECTION"

	// SQLiteDBName is the file name of the local SQLite database.
	SQLiteDBName = "SQLITE_DB_NAME"

	// DBTablesClearInstall makes a fresh install clear catalog tables.
	DBTablesClearInstall = "DB_TABLES_CLEAR_INSTALL"

	// EngineEcho enables verbose engine logging for database sessions.
	EngineEcho = "ENGINE_ECHO"

	// SystemPhases is the electrical system phase count (3 or 1).
	SystemPhases = "SYSTEM_PHASES"

	// SystemVoltageInKilovolts is the nominal system voltage (decimal).
	SystemVoltageInKilovolts = "SYSTEM_VOLTAGE_IN_KILOVOLTS"

	// CalculationsAccuracy is the calculation rounding precision.
	CalculationsAccuracy = "CALCULATIONS_ACCURACY"
)
