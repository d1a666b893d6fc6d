package clickhouse

import (
	"testing"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptionsNative(t *testing.T) {
	cfg := defaultConfig()
	for _, opt := range []ClientOption{
		WithHost("ch"),
		WithDatabase("cryptopulse"),
		WithCredentials("default", "pw"),
		WithTimeouts(3*time.Second, 7*time.Second),
		WithMaxExecutionTime(30 * time.Second),
		WithAsyncInsert(true, false),
	} {
		opt(&cfg)
	}

	opts := buildOptions(cfg)
	assert.Equal(t, []string{"ch:9000"}, opts.Addr)
	assert.Equal(t, ch.Native, opts.Protocol)
	assert.Equal(t, "cryptopulse", opts.Auth.Database)
	assert.Equal(t, "pw", opts.Auth.Password)
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
	assert.Equal(t, 7*time.Second, opts.ReadTimeout)
	assert.Equal(t, 30, opts.Settings["max_execution_time"])
	assert.Equal(t, 1, opts.Settings["async_insert"])
	assert.Equal(t, 0, opts.Settings["wait_for_async_insert"])
}

func TestBuildOptionsHTTP(t *testing.T) {
	cfg := defaultConfig()
	WithHost("ch")(&cfg)
	WithPort(8123)(&cfg)
	WithHTTP(true)(&cfg)

	opts := buildOptions(cfg)
	assert.Equal(t, ch.HTTP, opts.Protocol)
	assert.Equal(t, []string{"ch:8123"}, opts.Addr)
	assert.NotContains(t, opts.Settings, "async_insert")
	assert.NotContains(t, opts.Settings, "max_execution_time")
}

func TestWithPoolKeepsDefaults(t *testing.T) {
	cfg := defaultConfig()
	WithPool(20, 0, 0)(&cfg)
	assert.Equal(t, 20, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
}

func TestNewClientValidates(t *testing.T) {
	_, err := NewClient()
	require.Error(t, err)

	_, err = NewClient(WithHost("ch"), WithPort(70000))
	require.Error(t, err)
}
