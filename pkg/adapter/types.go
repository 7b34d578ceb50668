package adapter

import "strings"

// DatabaseType identifies a backing store kind. It is used both as the
// configuration discriminator and as the runtime lookup key in the
// connection manager.
type DatabaseType string

const (
	ClickHouse DatabaseType = "clickhouse"
	PostgreSQL DatabaseType = "postgres"
)

// AllTypes lists every database type the dashboard can be configured with.
var AllTypes = []DatabaseType{ClickHouse, PostgreSQL}

// String returns the canonical identifier.
func (t DatabaseType) String() string {
	return string(t)
}

// Valid reports whether t is a member of the closed type set.
func (t DatabaseType) Valid() bool {
	switch t {
	case ClickHouse, PostgreSQL:
		return true
	}
	return false
}

// ParseType resolves a database type from its canonical name or a common
// alias. The boolean is false when the name is unknown.
func ParseType(name string) (DatabaseType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "clickhouse", "ch":
		return ClickHouse, true
	case "postgres", "postgresql", "pg":
		return PostgreSQL, true
	}
	return "", false
}
