package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// setBaseEnv gives every load test a minimal working environment: a
// reachable-looking primary ClickHouse section.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")
	t.Setenv("CLICKHOUSE_PORT", "9000")
	t.Setenv("CLICKHOUSE_DB", "dashboard")
}

func TestLoad(t *testing.T) {
	t.Run("defaults plus environment", func(t *testing.T) {
		setBaseEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "ch.internal", cfg.Database.ClickHouse.Host)
		assert.Equal(t, "dashboard", cfg.Database.ClickHouse.Database)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "console")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("config file overrides defaults, environment overrides file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
log:
  level: warn
database:
  clickhouse:
    host: from-file
    database: filedb
`), 0o644))

		t.Setenv(ConfigPathEnvVar, path)
		t.Setenv("LOG_LEVEL", "error")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 7000, cfg.Server.Port)
		assert.Equal(t, "error", cfg.Log.Level)
		assert.Equal(t, "from-file", cfg.Database.ClickHouse.Host)
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("LOG_LEVEL", "verbose")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unconfigured primary fails fast", func(t *testing.T) {
		// No CLICKHOUSE_HOST: the default primary has no section.
		_, err := Load()
		require.Error(t, err)
		assert.True(t, adapter.IsConfigurationError(err))
	})

	t.Run("unknown primary type fails fast", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("PRIMARY_DB", "mongodb")

		_, err := Load()
		require.Error(t, err)
		assert.True(t, adapter.IsConfigurationError(err))
	})
}

func TestResolveDatabases(t *testing.T) {
	base := func() *Config {
		cfg := defaultConfig()
		cfg.Database.ClickHouse.Host = "ch.internal"
		return cfg
	}

	t.Run("primary only", func(t *testing.T) {
		dbs, err := base().ResolveDatabases()
		require.NoError(t, err)

		assert.Equal(t, adapter.ClickHouse, dbs.Primary)
		assert.Nil(t, dbs.Secondary)
		require.Len(t, dbs.Configs, 1)
		assert.Equal(t, "ch.internal:9000", dbs.Configs[0].Addr())
	})

	t.Run("primary and secondary", func(t *testing.T) {
		cfg := base()
		cfg.Database.Secondary = "postgres"
		cfg.Database.Postgres.Host = "pg.internal"

		dbs, err := cfg.ResolveDatabases()
		require.NoError(t, err)

		require.NotNil(t, dbs.Secondary)
		assert.Equal(t, adapter.PostgreSQL, *dbs.Secondary)
		assert.Len(t, dbs.Configs, 2)
	})

	t.Run("aliases resolve", func(t *testing.T) {
		cfg := base()
		cfg.Database.Primary = "ch"

		dbs, err := cfg.ResolveDatabases()
		require.NoError(t, err)
		assert.Equal(t, adapter.ClickHouse, dbs.Primary)
	})

	t.Run("secondary equal to primary is rejected", func(t *testing.T) {
		cfg := base()
		cfg.Database.Secondary = "clickhouse"

		_, err := cfg.ResolveDatabases()
		require.Error(t, err)
		assert.True(t, adapter.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "secondary")
	})

	t.Run("selected secondary without a section is rejected", func(t *testing.T) {
		cfg := base()
		cfg.Database.Secondary = "postgres"
		// Postgres defaults carry no host, so the section is absent.

		_, err := cfg.ResolveDatabases()
		require.Error(t, err)
		assert.True(t, adapter.IsConfigurationError(err))
	})

	t.Run("incomplete selected primary is rejected", func(t *testing.T) {
		cfg := base()
		cfg.Database.ClickHouse.Database = ""

		_, err := cfg.ResolveDatabases()
		require.Error(t, err)
		assert.True(t, adapter.IsConfigurationError(err))
	})

	t.Run("extra non-selected section passes through unvalidated", func(t *testing.T) {
		cfg := base()
		cfg.Database.Postgres.Host = "pg.internal"
		cfg.Database.Postgres.Database = ""

		dbs, err := cfg.ResolveDatabases()
		require.NoError(t, err)
		assert.Len(t, dbs.Configs, 2)
	})
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "database.clickhouse.host", envTransformFunc("CLICKHOUSE_HOST"))
	assert.Equal(t, "database.primary", envTransformFunc("primary_db"))
	assert.Equal(t, "server.port", envTransformFunc("SERVER_PORT"))
	assert.Equal(t, "", envTransformFunc("PRIMARY_DBTYPE"))
	assert.Equal(t, "", envTransformFunc("PATH"))
	assert.Equal(t, "", envTransformFunc("HOME"))
}
