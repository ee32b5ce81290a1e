package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "books.json", cfg.DataFile)
	assert.Equal(t, 2024, cfg.MaxYear)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Log.MaxSize)
	assert.Equal(t, 5, cfg.Log.MaxFiles)
	assert.Empty(t, cfg.Telemetry.Endpoint)
	assert.Equal(t, "bookkeeper", cfg.Telemetry.ServiceName)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookkeeper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_file: /tmp/library.json
max_year: 2030
log:
  level: debug
  file: /tmp/bookkeeper.log
telemetry:
  endpoint: localhost:4318
`), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/library.json", cfg.DataFile)
	assert.Equal(t, 2030, cfg.MaxYear)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/bookkeeper.log", cfg.Log.File)
	assert.Equal(t, "localhost:4318", cfg.Telemetry.Endpoint)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("BOOKKEEPER_DATA_FILE", "env.json")
	t.Setenv("BOOKKEEPER_LOG_LEVEL", "info")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "env.json", cfg.DataFile)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		v := New()
		v.Set("data_file", " ")
		v.Set("log.level", "loud")
		_, err := Load(v, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data_file")
		assert.Contains(t, err.Error(), "loud")
	})
}
