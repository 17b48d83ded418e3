package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

// AttendanceSummary is one row of the per-day roll-up used by the bot
// and the exporter.
type AttendanceSummary struct {
	Date     string `db:"date"`
	Status   string `db:"status"`
	Count    int    `db:"count"`
	Verified bool   `db:"verified"`
}
