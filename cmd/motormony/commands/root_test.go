package commands

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-motormony/internal/config"
)

func TestLogLevel(t *testing.T) {
	t.Cleanup(func() { verbose = false })
	verbose = false
	assert.Equal(t, "warn", logLevel("warn"))
	assert.Equal(t, "info", logLevel(""))
	verbose = true
	assert.Equal(t, "debug", logLevel("warn"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "motormony dev\n", out.String())
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "search", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	for _, flag := range []string{"sort", "year", "view", "pages", "compare", "explain", "json", "url"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(flag), flag)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("no-color"))
}

func TestNewServer(t *testing.T) {
	cfg := config.ServerConfig{
		Port: "9090", ReadTimeout: time.Second, ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout: 3 * time.Second, IdleTimeout: 4 * time.Second, MaxHeaderBytes: 1 << 12,
	}
	srv := newServer(cfg, http.NotFoundHandler())
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 3*time.Second, srv.WriteTimeout)
	assert.Equal(t, 4*time.Second, srv.IdleTimeout)
	assert.Equal(t, 1<<12, srv.MaxHeaderBytes)
}

func TestNewService_AppliesLimits(t *testing.T) {
	cfg := config.Config{
		Explorer:       config.ExplorerConfig{MaxQueryRunes: 42, SessionIdleTTL: time.Minute},
		IdempotencyTTL: time.Hour,
	}
	svc := newService(cfg, nil, fixed(nil))
	assert.Equal(t, 42, svc.MaxQueryRunes)
	assert.Equal(t, time.Minute, svc.IdleTTL)
	assert.Equal(t, time.Hour, svc.IdempotencyTTL)
}
