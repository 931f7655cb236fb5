package lang

import (
	"slices"
	"strings"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/object"
	"github.com/ardnew/weft/lang/parser"
	"github.com/ardnew/weft/lang/passes"
	"github.com/ardnew/weft/lang/resolve"
	"github.com/ardnew/weft/lang/token"
	"github.com/ardnew/weft/lang/types"
	"github.com/ardnew/weft/pkg"
)

// Unit is one compiled source document together with the diagnostics
// it produced.
type Unit struct {
	Path string
	Doc  *object.Document
	Sink *diag.Sink
}

// Compiler compiles documents and the documents they import.
//
// Each document is compiled at most once per Compiler; repeated imports
// and repeated Compile calls return the cached unit. A Compiler is not
// safe for concurrent use.
type Compiler struct {
	loader Loader
	passes []passes.Pass

	units map[string]*Unit
	order []string

	// stack holds the paths currently being compiled, importers first,
	// to detect recursive imports.
	stack []string

	deps []string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLoader sets the document loader used to resolve imports.
func WithLoader(l Loader) Option {
	return func(c *Compiler) { c.loader = l }
}

// WithConfig builds a file loader from the configuration's search
// paths.
func WithConfig(cfg Config) Option {
	return WithLoader(&FileLoader{
		IncludePaths: cfg.IncludePaths,
		LibraryPaths: cfg.LibraryPaths,
	})
}

// WithPasses replaces the lowering passes run after resolution.
func WithPasses(p ...passes.Pass) Option {
	return func(c *Compiler) { c.passes = p }
}

// New creates a Compiler. Without options it loads imports from the
// filesystem and runs the default lowering passes.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		loader: &FileLoader{},
		passes: passes.Default(),
		units:  map[string]*Unit{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Units returns every compiled unit in compilation order, imported
// documents ahead of their importers.
func (c *Compiler) Units() []*Unit {
	out := make([]*Unit, 0, len(c.order))
	for _, path := range c.order {
		out = append(out, c.units[path])
	}

	return out
}

// Dependencies returns the resolved path of every file this Compiler
// has loaded, including resource imports, for build-system dependency
// tracking.
func (c *Compiler) Dependencies() []string {
	return slices.Clone(c.deps)
}

// HasErrors reports whether any compiled unit produced an error
// diagnostic.
func (c *Compiler) HasErrors() bool {
	for _, u := range c.units {
		if u.Sink.HasErrors() {
			return true
		}
	}

	return false
}

// CompileFile resolves, reads, and compiles one source file.
//
// The returned error is environmental (unreadable file) or
// [pkg.ErrCompile] when any unit produced error diagnostics; the
// diagnostics themselves are on the unit sinks.
func (c *Compiler) CompileFile(path string) (*Unit, error) {
	resolved, err := c.loader.Resolve(path, "")
	if err != nil {
		return nil, pkg.MakeError(pkg.ErrReadInput, err)
	}

	source, err := c.loader.Read(resolved)
	if err != nil {
		return nil, pkg.MakeError(pkg.ErrReadInput, err)
	}

	return c.Compile(resolved, source)
}

// Compile compiles source as the document at path, loading imports
// through the Compiler's loader.
func (c *Compiler) Compile(path, source string) (*Unit, error) {
	unit := c.compile(path, source)

	if c.HasErrors() {
		return unit, pkg.MakeError(pkg.ErrCompile)
	}

	return unit, nil
}

// compile runs the front end for one document: parse, resolve imports,
// build the object tree, resolve names, and lower. The result is
// cached under path.
func (c *Compiler) compile(path, source string) *Unit {
	if u, ok := c.units[path]; ok {
		return u
	}

	c.addDep(path)
	c.stack = append(c.stack, path)

	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	sink := diag.NewSink(path, source)
	unit := &Unit{Path: path, Sink: sink}

	root := parser.Parse(source, sink)
	reg := types.NewRegister(types.Builtin())

	c.resolveImports(root, path, sink, reg)

	doc := object.BuildDocument(root, sink, reg)
	unit.Doc = doc

	c.resolveStarExports(root, doc, path, sink)
	resolve.Document(doc, sink)
	passes.Run(doc, sink, c.passes...)

	c.units[path] = unit
	c.order = append(c.order, path)

	return unit
}

// resolveImports loads every document named in an import clause and
// registers the imported names before the object tree is built.
// Resource imports are recorded as dependencies only.
func (c *Compiler) resolveImports(
	root *parser.Node,
	importer string,
	sink *diag.Sink,
	reg *types.Register,
) {
	for _, imp := range root.ChildNodes(parser.KindImportSpecifier) {
		pathTok, ok := imp.ChildToken(token.StringLiteral)
		if !ok {
			continue
		}

		importPath := strings.Trim(pathTok.Text, `"`)

		resolved, err := c.loader.Resolve(importPath, importer)
		if err != nil {
			sink.PushError(pkg.MakeError(pkg.ErrLoadDocument, err).Error(), pathTok.Span)

			continue
		}

		list := imp.ChildNode(parser.KindImportIdentifierList)
		if list == nil {
			c.addDep(resolved)

			continue
		}

		dep := c.loadImport(resolved, pathTok.Span, sink)
		if dep == nil {
			continue
		}

		c.registerImports(list, dep, importPath, sink, reg)
	}
}

// loadImport compiles the document at a resolved import path, guarding
// against recursive imports. A nil return means a diagnostic has been
// reported.
func (c *Compiler) loadImport(resolved string, span token.Span, sink *diag.Sink) *Unit {
	if u, ok := c.units[resolved]; ok {
		return u
	}

	if slices.Contains(c.stack, resolved) {
		cycle := append(slices.Clone(c.stack), resolved)
		err := pkg.MakeError(pkg.ErrImportCycle).Wrapf("%s", strings.Join(cycle, " -> "))
		sink.PushError(err.Error(), span)

		return nil
	}

	source, err := c.loader.Read(resolved)
	if err != nil {
		sink.PushError(pkg.MakeError(pkg.ErrLoadDocument, err).Error(), span)

		return nil
	}

	return c.compile(resolved, source)
}

// registerImports maps each imported name, renamed or not, to the
// export it refers to in the loaded document.
func (c *Compiler) registerImports(
	list *parser.Node,
	dep *Unit,
	importPath string,
	sink *diag.Sink,
	reg *types.Register,
) {
	for _, ident := range list.ChildNodes(parser.KindImportIdentifier) {
		ext := ident.ChildNode(parser.KindExternalName)
		if ext == nil {
			continue
		}

		name := ext.IdentifierText()

		internal := name
		if in := ident.ChildNode(parser.KindInternalName); in != nil {
			internal = in.IdentifierText()
		}

		export, ok := findExport(dep.Doc, name)
		if !ok {
			sink.PushErrorf(ext.Span(),
				"No exported type called '%s' found in \"%s\"", name, importPath)

			continue
		}

		if export.Component != nil {
			reg.AddElementWithName(internal, export.Component)
		} else {
			reg.InsertTypeWithName(internal, export.Type)
		}
	}
}

// resolveStarExports loads each `export * from` document and re-exports
// its exports.
func (c *Compiler) resolveStarExports(
	root *parser.Node,
	doc *object.Document,
	importer string,
	sink *diag.Sink,
) {
	for _, exports := range root.ChildNodes(parser.KindExportsList) {
		for _, mod := range exports.ChildNodes(parser.KindExportModule) {
			pathTok, ok := mod.ChildToken(token.StringLiteral)
			if !ok {
				continue
			}

			importPath := strings.Trim(pathTok.Text, `"`)

			resolved, err := c.loader.Resolve(importPath, importer)
			if err != nil {
				sink.PushError(pkg.MakeError(pkg.ErrLoadDocument, err).Error(), pathTok.Span)

				continue
			}

			dep := c.loadImport(resolved, pathTok.Span, sink)
			if dep == nil {
				continue
			}

			doc.Exports = append(doc.Exports, dep.Doc.Exports...)
		}
	}
}

func (c *Compiler) addDep(path string) {
	if !slices.Contains(c.deps, path) {
		c.deps = append(c.deps, path)
	}
}

func findExport(doc *object.Document, name string) (object.Export, bool) {
	for _, e := range doc.Exports {
		if e.Name == name {
			return e, true
		}
	}

	return object.Export{}, false
}
