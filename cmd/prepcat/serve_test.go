package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/prepcat/catalog"
	main "github.com/fwojciec/prepcat/cmd/prepcat"
	"github.com/fwojciec/prepcat/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	c, err := catalog.New(nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  io.Discard,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog: c,
		Search:  catalog.NewIndex(c),
		Views:   memory.NewViewService(),
	}
	cmd := &main.ServeCmd{
		Addr:           "127.0.0.1:0",
		Public:         t.TempDir(),
		ViewRPS:        1,
		ViewBurst:      1,
		TrustedProxies: []string{"10.0.0.0/8", "127.0.0.1"},
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Run(deps) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
	assert.Contains(t, stdout.String(), "Serving on 127.0.0.1:0")
}

func TestServeCmd_Run_InvalidTrustedProxy(t *testing.T) {
	t.Parallel()

	c, err := catalog.New(nil, nil)
	require.NoError(t, err)
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  io.Discard,
		Stderr:  stderr,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog: c,
		Search:  catalog.NewIndex(c),
		Views:   memory.NewViewService(),
	}
	cmd := &main.ServeCmd{Addr: "127.0.0.1:0", TrustedProxies: []string{"not-an-ip"}}

	err = cmd.Run(deps)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), `invalid trusted proxy "not-an-ip"`)
}
