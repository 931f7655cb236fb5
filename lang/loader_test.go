package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, source string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(source), 0o600))
}

func TestFileLoaderResolvesRelativeToImporter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub", "lib.wft"), "")

	l := &FileLoader{}

	resolved, err := l.Resolve("lib.wft", filepath.Join(dir, "sub", "main.wft"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "lib.wft"), resolved)
}

func TestFileLoaderFallsBackToIncludePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "inc", "lib.wft"), "")

	l := &FileLoader{IncludePaths: []string{filepath.Join(dir, "inc")}}

	resolved, err := l.Resolve("lib.wft", filepath.Join(dir, "main.wft"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "inc", "lib.wft"), resolved)

	_, err = l.Resolve("gone.wft", filepath.Join(dir, "main.wft"))
	assert.ErrorContains(t, err, "file not found")
}

func TestFileLoaderResolvesLibraries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "std", "widgets.wft"), "")
	writeFile(t, filepath.Join(dir, "std", "index.wft"), "")

	l := &FileLoader{LibraryPaths: map[string]string{
		"std":   filepath.Join(dir, "std"),
		"index": filepath.Join(dir, "std", "index.wft"),
	}}

	resolved, err := l.Resolve("@std/widgets.wft", "main.wft")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "std", "widgets.wft"), resolved)

	resolved, err = l.Resolve("@index", "main.wft")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "std", "index.wft"), resolved)

	_, err = l.Resolve("@nope/x.wft", "main.wft")
	assert.ErrorContains(t, err, "library not configured")
}

func TestFileLoaderRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.wft")
	writeFile(t, path, "component App { }\n")

	l := &FileLoader{}

	source, err := l.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "component App { }\n", source)
}
