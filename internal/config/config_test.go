package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t, cfg.Prover.InitialDepth, 0)
	assert.Greater(t, cfg.Prover.DepthIncrement, 0)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Prover.InitialDepth, cfg.Prover.InitialDepth)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knower.yaml")
	yaml := `
prover:
  initial_depth: 12
  trace: true
batch:
  workers: 8
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Prover.InitialDepth)
	assert.True(t, cfg.Prover.Trace)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unmentioned keys keep their defaults.
	assert.Equal(t, DefaultConfig().Prover.DepthIncrement, cfg.Prover.DepthIncrement)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knower.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prover:\n  initial_depth: -1\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "initial_depth")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knower.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":::"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KNOWER_DEPTH", "33")
	t.Setenv("KNOWER_LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "knower.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prover:\n  initial_depth: 12\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 33, cfg.Prover.InitialDepth)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "knower.yaml")
	cfg := DefaultConfig()
	cfg.Prover.InitialDepth = 17
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 17, loaded.Prover.InitialDepth)
}
