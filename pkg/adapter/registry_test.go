package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	cfg ConnectionConfig
}

func (s *stubAdapter) Type() DatabaseType { return s.cfg.Type }
func (s *stubAdapter) Config() ConnectionConfig { return s.cfg }
func (s *stubAdapter) Connect(context.Context) error { return nil }
func (s *stubAdapter) Disconnect(context.Context) error { return nil }
func (s *stubAdapter) IsConnected(context.Context) bool { return true }
func (s *stubAdapter) Query(context.Context, QueryOptions) (*Result, error) {
	return &Result{}, nil
}
func (s *stubAdapter) Execute(context.Context, string, ...interface{}) (interface{}, error) {
	return nil, nil
}
func (s *stubAdapter) Client() interface{} { return nil }

func TestRegistry(t *testing.T) {
	factory := func(cfg ConnectionConfig) Adapter { return &stubAdapter{cfg: cfg} }

	t.Run("register and construct", func(t *testing.T) {
		r := NewRegistry()
		r.Register(ClickHouse, factory)

		require.True(t, r.IsRegistered(ClickHouse))
		assert.False(t, r.IsRegistered(PostgreSQL))

		adp, err := r.New(ConnectionConfig{Type: ClickHouse, Host: "localhost"})
		require.NoError(t, err)
		assert.Equal(t, ClickHouse, adp.Type())
		assert.Equal(t, "localhost", adp.Config().Host)
	})

	t.Run("unknown type", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Get(PostgreSQL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres")

		_, err = r.New(ConnectionConfig{Type: PostgreSQL})
		assert.Error(t, err)
	})

	t.Run("list is sorted", func(t *testing.T) {
		r := NewRegistry()
		r.Register(PostgreSQL, factory)
		r.Register(ClickHouse, factory)

		assert.Equal(t, []DatabaseType{ClickHouse, PostgreSQL}, r.ListRegistered())
	})

	t.Run("re-register replaces", func(t *testing.T) {
		r := NewRegistry()
		r.Register(ClickHouse, func(ConnectionConfig) Adapter { return nil })
		r.Register(ClickHouse, factory)

		adp, err := r.New(ConnectionConfig{Type: ClickHouse})
		require.NoError(t, err)
		assert.NotNil(t, adp)
	})
}
