package adapter

import (
	"fmt"
	"time"
)

// ConnectionConfig contains the connection parameters for a single backing
// store. One unified struct covers both database types; the Type field
// discriminates. The config is immutable once loaded.
type ConnectionConfig struct {
	Type DatabaseType `json:"type"`

	Host         string `json:"host"`
	Port         int    `json:"port"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	DatabaseName string `json:"databaseName"`

	// SSL enables TLS on the native client. SSLMode is Postgres-specific
	// (require, verify-ca, verify-full); empty picks the driver default.
	SSL     bool   `json:"ssl,omitempty"`
	SSLMode string `json:"sslMode,omitempty"`

	// MaxConns bounds the native pool. Zero picks the adapter default.
	MaxConns int32 `json:"maxConns,omitempty"`

	// DialTimeout bounds the initial connection attempt. Zero picks the
	// adapter default.
	DialTimeout time.Duration `json:"dialTimeout,omitempty"`
}

// Addr returns the host:port pair for logging and error messages.
func (c ConnectionConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks that the fields required to open a connection are
// present. It does not check reachability.
func (c ConnectionConfig) Validate() error {
	if !c.Type.Valid() {
		return NewConfigurationError(c.Type, "type", fmt.Sprintf("unknown database type %q", string(c.Type)))
	}
	if c.Host == "" {
		return NewConfigurationError(c.Type, "host", "required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return NewConfigurationError(c.Type, "port", fmt.Sprintf("invalid port %d", c.Port))
	}
	if c.DatabaseName == "" {
		return NewConfigurationError(c.Type, "databaseName", "required")
	}
	return nil
}
