package serve_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kris2339/MEO-PayDay/cmd/serve"
	"github.com/Kris2339/MEO-PayDay/internal/config"
	"github.com/Kris2339/MEO-PayDay/internal/container"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "serve", serve.Cmd.Use)
	assert.Contains(t, serve.Cmd.Short, "HTTP API")
	assert.NotNil(t, serve.Cmd.RunE)

	addrFlag := serve.Cmd.Flags().Lookup("addr")
	require.NotNil(t, addrFlag)
	assert.Equal(t, "a", addrFlag.Shorthand)
	assert.NotNil(t, serve.Cmd.Flags().Lookup("debug"))
}

func TestBuild(t *testing.T) {
	logger := logging.NewMockLogger()
	c, err := container.NewContainer(context.Background(), &config.Config{},
		container.WithLogger(logger),
		container.WithStore(store.NewMemoryStore("세트 A")))
	require.NoError(t, err)

	srv, err := serve.Build(context.Background(), c, "127.0.0.1:0", false)
	require.NoError(t, err)
	assert.True(t, logger.HasEntry("INFO", "Server configured"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/market-products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{"세트 A"}, body["items"])
}

func TestBuild_LoadFailureStillStarts(t *testing.T) {
	logger := logging.NewMockLogger()
	st := &store.MockStore{LoadError: assert.AnError}
	c, err := container.NewContainer(context.Background(), &config.Config{},
		container.WithLogger(logger),
		container.WithStore(st))
	require.NoError(t, err)

	_, err = serve.Build(context.Background(), c, "", false)
	require.NoError(t, err)
	assert.True(t, logger.HasEntry("WARN", "Starting with an empty market product list"))
}

func TestBuild_NilContainer(t *testing.T) {
	_, err := serve.Build(context.Background(), nil, "", false)
	assert.Error(t, err)
}
