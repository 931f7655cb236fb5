package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
include-paths:
  - ui
  - shared/ui
library-paths:
  std: /opt/weft/std
style: fluent
translation-domain: app
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ui", "shared/ui"}, cfg.IncludePaths)
	assert.Equal(t, "/opt/weft/std", cfg.LibraryPaths["std"])
	assert.Equal(t, "fluent", cfg.Style)
	assert.Equal(t, "app", cfg.TranslationDomain)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to read input")
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("include-paths: {broken"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse configuration")
}
