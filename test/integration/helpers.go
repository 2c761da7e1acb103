//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/pie/internal/config"
	"github.com/stwalsh4118/pie/internal/db"
	"github.com/stwalsh4118/pie/internal/preferences"
	"github.com/stwalsh4118/pie/internal/server"
	"github.com/stwalsh4118/pie/internal/toolcheck"
)

// migrationsPath resolves the migrations directory relative to this file
// so tests work regardless of working directory
func migrationsPath(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)             // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir)) // module root
	return "file://" + filepath.Join(rootDir, "migrations")
}

// instance is one running copy of the service over a database file
type instance struct {
	service *preferences.Service
	server  *server.Server
}

// startInstance opens dbPath and wires the full stack the way main does
func startInstance(t *testing.T, dbPath string) *instance {
	t.Helper()

	database, err := db.Open(dbPath, db.DefaultOptions())
	require.NoError(t, err, "Failed to open database")
	require.NoError(t, database.Migrate(migrationsPath(t)), "Failed to run migrations")

	store := db.NewStore(database)
	validator := toolcheck.New(2 * time.Second)
	service := preferences.NewService(store, validator)
	_, err = service.Load(context.Background())
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8484,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: config.LoggingConfig{Level: "info"},
	}

	inst := &instance{service: service, server: server.New(cfg, store, service, validator)}
	t.Cleanup(func() {
		_ = service.Shutdown()
	})
	return inst
}

// stop shuts the instance down as a process exit would
func (i *instance) stop(t *testing.T) {
	t.Helper()
	require.NoError(t, i.server.Shutdown(context.Background()))
}

// do sends a JSON request through the instance router
func (i *instance) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	i.server.Handler().ServeHTTP(w, req)
	return w
}

// writeTool creates an executable script that behaves like a command-line tool
func writeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are not supported on windows")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}
