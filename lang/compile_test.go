package lang

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/weft/lang/object"
)

// memLoader serves documents from a map keyed by import path.
type memLoader map[string]string

func (m memLoader) Resolve(importPath, _ string) (string, error) {
	if _, ok := m[importPath]; ok {
		return importPath, nil
	}

	return "", fmt.Errorf("file not found: %s", importPath)
}

func (m memLoader) Read(path string) (string, error) {
	source, ok := m[path]
	if !ok {
		return "", fmt.Errorf("file not found: %s", path)
	}

	return source, nil
}

func allDiagnostics(c *Compiler) string {
	var sb strings.Builder

	for _, u := range c.Units() {
		for d := range u.Sink.All() {
			sb.WriteString(u.Sink.Format(d))
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func rootChild(t *testing.T, doc *object.Document, i int) *object.Element {
	t.Helper()

	root := doc.Arena.Get(doc.Root.Root)
	require.Greater(t, len(root.Children), i)

	return doc.Arena.Get(root.Children[i])
}

func TestImportedComponentUsableAsBase(t *testing.T) {
	c := New(WithLoader(memLoader{
		"lib.wft": `
export component Card inherits Rectangle {
	in property <string> title;
}
`,
		"main.wft": `
import { Card } from "lib.wft";

component App {
	Card { title: "hi"; }
}
`,
	}))

	unit, err := c.CompileFile("main.wft")
	require.NoError(t, err, allDiagnostics(c))

	card := rootChild(t, unit.Doc, 0)

	base, ok := card.Base.(*object.Component)
	require.True(t, ok, "base is %T", card.Base)
	assert.Equal(t, "Card", base.Name)
	assert.NotNil(t, card.Bindings["title"])
}

func TestRenamedImport(t *testing.T) {
	c := New(WithLoader(memLoader{
		"lib.wft": `
export component Card inherits Rectangle {
	in property <string> title;
}
`,
		"main.wft": `
import { Card as Tile } from "lib.wft";

component App {
	Tile { title: "renamed"; }
}
`,
	}))

	unit, err := c.CompileFile("main.wft")
	require.NoError(t, err, allDiagnostics(c))

	tile := rootChild(t, unit.Doc, 0)

	base, ok := tile.Base.(*object.Component)
	require.True(t, ok, "base is %T", tile.Base)

	// The rename is local to the importer; the component keeps its name.
	assert.Equal(t, "Card", base.Name)
}

func TestStarExportReexports(t *testing.T) {
	c := New(WithLoader(memLoader{
		"lib.wft": `
export component Card inherits Rectangle { }
`,
		"mid.wft": `
export * from "lib.wft";
`,
		"main.wft": `
import { Card } from "mid.wft";

component App {
	Card { }
}
`,
	}))

	unit, err := c.CompileFile("main.wft")
	require.NoError(t, err, allDiagnostics(c))

	card := rootChild(t, unit.Doc, 0)
	require.IsType(t, &object.Component{}, card.Base)
}

func TestMissingExportReported(t *testing.T) {
	c := New(WithLoader(memLoader{
		"lib.wft": `
export component Card inherits Rectangle { }
`,
		"main.wft": `
import { Nope } from "lib.wft";

component App { }
`,
	}))

	_, err := c.CompileFile("main.wft")
	require.Error(t, err)
	assert.ErrorContains(t, err, "compilation failed")
	assert.Contains(t, allDiagnostics(c), "No exported type called 'Nope'")
}

func TestUnresolvableImportReported(t *testing.T) {
	c := New(WithLoader(memLoader{
		"main.wft": `
import { Card } from "gone.wft";

component App { }
`,
	}))

	_, err := c.CompileFile("main.wft")
	require.Error(t, err)
	assert.Contains(t, allDiagnostics(c), "failed to load document")
}

func TestImportCycleReported(t *testing.T) {
	c := New(WithLoader(memLoader{
		"a.wft": `
import { B } from "b.wft";

export component A inherits Rectangle { }
`,
		"b.wft": `
import { A } from "a.wft";

export component B inherits Rectangle { }
`,
	}))

	_, err := c.CompileFile("a.wft")
	require.Error(t, err)
	assert.Contains(t, allDiagnostics(c), "import cycle detected")
}

func TestDependenciesRecorded(t *testing.T) {
	c := New(WithLoader(memLoader{
		"lib.wft": `
export component Card inherits Rectangle { }
`,
		"logo.png": "",
		"main.wft": `
import { Card } from "lib.wft";
import "logo.png";

component App {
	Card { }
}
`,
	}))

	_, err := c.CompileFile("main.wft")
	require.NoError(t, err, allDiagnostics(c))

	assert.Equal(t, []string{"main.wft", "lib.wft", "logo.png"}, c.Dependencies())
}

func TestUnitsCachedAcrossImporters(t *testing.T) {
	c := New(WithLoader(memLoader{
		"lib.wft": `
export component Card inherits Rectangle { }
`,
		"a.wft": `
import { Card } from "lib.wft";

export component A inherits Rectangle {
	Card { }
}
`,
		"main.wft": `
import { A } from "a.wft";
import { Card } from "lib.wft";

component App {
	A { }
	Card { }
}
`,
	}))

	_, err := c.CompileFile("main.wft")
	require.NoError(t, err, allDiagnostics(c))

	// Imports ahead of importers, each document compiled once.
	paths := make([]string, 0, len(c.Units()))
	for _, u := range c.Units() {
		paths = append(paths, u.Path)
	}

	assert.Equal(t, []string{"lib.wft", "a.wft", "main.wft"}, paths)
}
