package lang

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader locates and reads imported documents for a [Compiler].
//
// Resolve maps an import path as written in source to a canonical path
// usable as a cache key and dependency record. Read returns the source
// text behind a resolved path.
type Loader interface {
	Resolve(importPath, importer string) (string, error)
	Read(path string) (string, error)
}

// FileLoader resolves imports against the local filesystem.
//
// Paths resolve relative to the importing document first, then against
// each include path in order. Import paths of the form `@name` or
// `@name/file` resolve through the library table instead. Resolved
// paths are absolute so a document loaded through different routes is
// compiled once.
type FileLoader struct {
	IncludePaths []string
	LibraryPaths map[string]string
}

// Resolve locates importPath on disk. importer is the path of the
// document containing the import clause, empty for the entry file.
func (l *FileLoader) Resolve(importPath, importer string) (string, error) {
	if strings.HasPrefix(importPath, "@") {
		return l.resolveLibrary(importPath)
	}

	for _, candidate := range l.candidates(importPath, importer) {
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Abs(candidate)
		}
	}

	return "", fmt.Errorf("file not found: %s", importPath)
}

func (l *FileLoader) candidates(importPath, importer string) []string {
	if filepath.IsAbs(importPath) {
		return []string{importPath}
	}

	var out []string

	if importer != "" {
		out = append(out, filepath.Join(filepath.Dir(importer), importPath))
	} else {
		out = append(out, importPath)
	}

	for _, dir := range l.IncludePaths {
		out = append(out, filepath.Join(dir, importPath))
	}

	return out
}

// resolveLibrary maps `@name` to the library's configured path and
// `@name/file` to a file under the library's root directory.
func (l *FileLoader) resolveLibrary(importPath string) (string, error) {
	name, rest, _ := strings.Cut(importPath[1:], "/")

	root, ok := l.LibraryPaths[name]
	if !ok {
		return "", fmt.Errorf("library not configured: @%s", name)
	}

	path := root
	if rest != "" {
		path = filepath.Join(root, rest)
	}

	if _, err := os.Stat(path); err != nil {
		return "", err
	}

	return filepath.Abs(path)
}

// Read returns the contents of a resolved path.
func (l *FileLoader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
