package adapter

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks across the adapter boundary.
var (
	// ErrConnectionFailed is returned when a connection attempt or its
	// verification round-trip fails.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrNotConnected is returned when a query or execute is attempted on
	// an adapter whose native client is nil. This is a programming error,
	// not an expected runtime condition.
	ErrNotConnected = errors.New("not connected")

	// ErrInvalidConfiguration is returned when a configuration entry is
	// missing or malformed.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrQueryFailed is returned when the native store rejects a query.
	ErrQueryFailed = errors.New("query failed")
)

// ConnectionError wraps the native client's error when establishing or
// verifying connectivity fails during Connect.
type ConnectionError struct {
	DatabaseType DatabaseType
	Addr         string
	Cause        error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s at %s: %v", e.DatabaseType, e.Addr, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is matches ErrConnectionFailed in addition to the wrapped cause.
func (e *ConnectionError) Is(target error) bool {
	if errors.Is(target, ErrConnectionFailed) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(dbType DatabaseType, addr string, cause error) *ConnectionError {
	return &ConnectionError{
		DatabaseType: dbType,
		Addr:         addr,
		Cause:        cause,
	}
}

// NotConnectedError reports an operation attempted while the adapter's
// native handle is nil.
type NotConnectedError struct {
	DatabaseType DatabaseType
	Operation    string
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("%s: %s attempted while disconnected", e.DatabaseType, e.Operation)
}

func (e *NotConnectedError) Is(target error) bool {
	return errors.Is(target, ErrNotConnected)
}

// NewNotConnectedError creates a new NotConnectedError.
func NewNotConnectedError(dbType DatabaseType, operation string) *NotConnectedError {
	return &NotConnectedError{
		DatabaseType: dbType,
		Operation:    operation,
	}
}

// ConfigurationError reports a missing or malformed configuration entry.
type ConfigurationError struct {
	DatabaseType DatabaseType
	Field        string
	Reason       string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for %s: field %q: %s", e.DatabaseType, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration for %s: %s", e.DatabaseType, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return errors.Is(target, ErrInvalidConfiguration)
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(dbType DatabaseType, field string, reason string) *ConfigurationError {
	return &ConfigurationError{
		DatabaseType: dbType,
		Field:        field,
		Reason:       reason,
	}
}

// QueryError wraps the native store's rejection of a query. The original
// query string is retained for log context.
type QueryError struct {
	DatabaseType DatabaseType
	Query        string
	Cause        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("[%s] query failed: %v", e.DatabaseType, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is matches ErrQueryFailed in addition to the wrapped cause.
func (e *QueryError) Is(target error) bool {
	if errors.Is(target, ErrQueryFailed) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewQueryError creates a new QueryError.
func NewQueryError(dbType DatabaseType, query string, cause error) *QueryError {
	return &QueryError{
		DatabaseType: dbType,
		Query:        query,
		Cause:        cause,
	}
}

// WrapQueryError wraps err with query context unless it is already a
// QueryError. A nil err passes through.
func WrapQueryError(dbType DatabaseType, query string, err error) error {
	if err == nil {
		return nil
	}
	var qErr *QueryError
	if errors.As(err, &qErr) {
		return err
	}
	return NewQueryError(dbType, query, err)
}

// IsNotConnected checks if an error indicates a disconnected adapter.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsConnectionError checks if an error is a connection error.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// IsConfigurationError checks if an error is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}
