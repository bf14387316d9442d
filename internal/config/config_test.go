package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Addr":":9000","StoragePath":"votes.json"}`), 0o644))

	o := &Options{Addr: "localhost:8080", LogLevel: "info"}
	require.NoError(t, loadFile(o, path))

	assert.Equal(t, ":9000", o.Addr)
	assert.Equal(t, "votes.json", o.StoragePath)
	assert.Equal(t, "info", o.LogLevel)
}

func TestLoadFile_Missing(t *testing.T) {
	o := &Options{Addr: "x"}
	require.NoError(t, loadFile(o, filepath.Join(t.TempDir(), "nope.json")))
	assert.Equal(t, "x", o.Addr)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	assert.Error(t, loadFile(&Options{}, path))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "0.0.0.0:1234")
	t.Setenv("DATABASE_DSN", "postgres://u:p@h/db")
	t.Setenv("STORAGE_PATH", "")
	t.Setenv("LOG_LEVEL", "debug")

	o := &Options{Addr: "localhost:8080", StoragePath: "storage.json", LogLevel: "info"}
	applyEnv(o)

	assert.Equal(t, "0.0.0.0:1234", o.Addr)
	assert.Equal(t, "postgres://u:p@h/db", o.DatabaseDSN)
	assert.Equal(t, "storage.json", o.StoragePath)
	assert.Equal(t, "debug", o.LogLevel)
}
