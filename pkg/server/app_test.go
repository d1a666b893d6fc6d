package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoPulse/pkg/config"
	xhttp "CryptoPulse/pkg/http"
)

func TestRunContextClosesResourcesInOrder(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Server.ShutdownTimeout = time.Second

	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0))

	var order []string
	app := New(cfg, nil, srv,
		WithCloser("recorder", func() error { order = append(order, "recorder"); return nil }),
		WithCloser("cache", func() error { order = append(order, "cache"); return errors.New("already closed") }),
		WithCloser("nil", nil),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.RunContext(ctx))
	assert.Equal(t, []string{"recorder", "cache"}, order)
}
