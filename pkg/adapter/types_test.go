package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  DatabaseType
		ok    bool
	}{
		{"canonical clickhouse", "clickhouse", ClickHouse, true},
		{"canonical postgres", "postgres", PostgreSQL, true},
		{"alias ch", "ch", ClickHouse, true},
		{"alias postgresql", "postgresql", PostgreSQL, true},
		{"alias pg", "pg", PostgreSQL, true},
		{"mixed case", "ClickHouse", ClickHouse, true},
		{"surrounding spaces", "  postgres  ", PostgreSQL, true},
		{"unknown", "mysql", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatabaseTypeValid(t *testing.T) {
	for _, dbType := range AllTypes {
		assert.True(t, dbType.Valid(), dbType.String())
	}
	assert.False(t, DatabaseType("oracle").Valid())
	assert.False(t, DatabaseType("").Valid())
}
