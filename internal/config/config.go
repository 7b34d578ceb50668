// Package config loads the dashboard's configuration from defaults, an
// optional YAML file and environment variables, in that order of
// precedence. Loading is a pure function of the process environment and
// may be called repeatedly with the same outcome.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths lists where a config file is searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/seaandhilldashboard/config.yaml",
}

// Config is the root configuration for the dashboard service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig configures zerolog output.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// StoreConfig carries the connection parameters for one backing store.
type StoreConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	Database    string        `koanf:"database"`
	SSL         bool          `koanf:"ssl"`
	SSLMode     string        `koanf:"sslmode"`
	MaxConns    int32         `koanf:"maxconns"`
	DialTimeout time.Duration `koanf:"dialtimeout"`
}

// configured reports whether the entry names a host; defaults alone do
// not make a store section present.
func (s StoreConfig) configured() bool {
	return s.Host != ""
}

// DatabaseConfig selects the primary/secondary store and carries one
// optional section per database type.
type DatabaseConfig struct {
	Primary    string      `koanf:"primary" validate:"required"`
	Secondary  string      `koanf:"secondary"`
	ClickHouse StoreConfig `koanf:"clickhouse"`
	Postgres   StoreConfig `koanf:"postgres"`
}

// Databases holds the loaded, resolved database selection handed to the
// connection manager: an ordered list of per-store configs plus the
// primary and optional secondary type.
type Databases struct {
	Configs   []adapter.ConnectionConfig
	Primary   adapter.DatabaseType
	Secondary *adapter.DatabaseType
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Primary: string(adapter.ClickHouse),
			ClickHouse: StoreConfig{
				Port:     9000,
				Username: "default",
				Database: "default",
			},
			Postgres: StoreConfig{
				Port:     5432,
				Username: "postgres",
				Database: "postgres",
			},
		},
	}
}

// envMappings maps recognized environment variables to config paths.
// The names mirror the dashboard's deployment environment.
var envMappings = map[string]string{
	"server_host":     "server.host",
	"server_port":     "server.port",
	"log_level":       "log.level",
	"log_format":      "log.format",
	"primary_db":      "database.primary",
	"secondary_db":    "database.secondary",
	"clickhouse_host": "database.clickhouse.host",
	"clickhouse_port": "database.clickhouse.port",
	"clickhouse_user": "database.clickhouse.username",
	"clickhouse_pass": "database.clickhouse.password",
	"clickhouse_db":   "database.clickhouse.database",
	"clickhouse_ssl":  "database.clickhouse.ssl",
	"postgres_host":   "database.postgres.host",
	"postgres_port":   "database.postgres.port",
	"postgres_user":   "database.postgres.username",
	"postgres_pass":   "database.postgres.password",
	"postgres_db":     "database.postgres.database",
	"postgres_ssl":    "database.postgres.ssl",
}

func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	// Unrecognized variables are dropped rather than guessed at.
	return ""
}

// findConfigFile resolves the config file path, or "" when none exists.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load builds the configuration from defaults, the optional config file
// and the environment, then validates it. Selected (primary/secondary)
// databases are validated strictly here so misconfiguration fails fast;
// non-selected entries are only checked at connection time.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.ResolveDatabases(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// storeFor returns the section for a database type.
func (c *DatabaseConfig) storeFor(t adapter.DatabaseType) StoreConfig {
	switch t {
	case adapter.ClickHouse:
		return c.ClickHouse
	case adapter.PostgreSQL:
		return c.Postgres
	}
	return StoreConfig{}
}

// ResolveDatabases turns the raw sections into the ordered, typed
// database selection. The primary (and secondary, when set) entries must
// be complete; other configured entries are passed through as-is and
// left for the connection manager's partial-failure policy.
func (c *Config) ResolveDatabases() (*Databases, error) {
	primary, ok := adapter.ParseType(c.Database.Primary)
	if !ok {
		return nil, adapter.NewConfigurationError("", "database.primary",
			fmt.Sprintf("unknown database type %q", c.Database.Primary))
	}

	var secondary *adapter.DatabaseType
	if c.Database.Secondary != "" {
		t, ok := adapter.ParseType(c.Database.Secondary)
		if !ok {
			return nil, adapter.NewConfigurationError("", "database.secondary",
				fmt.Sprintf("unknown database type %q", c.Database.Secondary))
		}
		if t == primary {
			return nil, adapter.NewConfigurationError(t, "database.secondary",
				"secondary must differ from primary")
		}
		secondary = &t
	}

	dbs := &Databases{Primary: primary, Secondary: secondary}
	for _, t := range adapter.AllTypes {
		store := c.Database.storeFor(t)
		if !store.configured() {
			continue
		}
		conn := adapter.ConnectionConfig{
			Type:         t,
			Host:         store.Host,
			Port:         store.Port,
			Username:     store.Username,
			Password:     store.Password,
			DatabaseName: store.Database,
			SSL:          store.SSL,
			SSLMode:      store.SSLMode,
			MaxConns:     store.MaxConns,
			DialTimeout:  store.DialTimeout,
		}
		if t == primary || (secondary != nil && t == *secondary) {
			if err := conn.Validate(); err != nil {
				return nil, err
			}
		}
		dbs.Configs = append(dbs.Configs, conn)
	}

	if !dbs.has(primary) {
		return nil, adapter.NewConfigurationError(primary, "database.primary",
			"selected primary database has no configuration section")
	}
	if secondary != nil && !dbs.has(*secondary) {
		return nil, adapter.NewConfigurationError(*secondary, "database.secondary",
			"selected secondary database has no configuration section")
	}

	return dbs, nil
}

func (d *Databases) has(t adapter.DatabaseType) bool {
	for _, c := range d.Configs {
		if c.Type == t {
			return true
		}
	}
	return false
}
