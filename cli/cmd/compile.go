package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/weft/lang"
	"github.com/ardnew/weft/log"
)

// Compile compiles one or more source documents, reporting their
// diagnostics and exiting nonzero when any document has errors.
type Compile struct {
	Sources []string `arg:"" help:"Source document(s) or '-' for stdin" name:"source" optional:""`

	Config            string            `help:"Compiler configuration file (YAML)"          optional:"" short:"c" type:"existingfile"`
	IncludePath       []string          `help:"Directory searched for imports"              name:"include-path"   short:"I"`
	Library           map[string]string `help:"Library name to path mappings (name=path)"   short:"L"`
	Style             string            `help:"Widget style to compile for"`
	TranslationDomain string            `help:"Translation domain for translated strings"`
	Deps              bool              `help:"Print the resolved path of every file loaded"`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) error {
	if len(c.Sources) == 0 {
		return ErrNoInput
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}

	compiler := lang.New(lang.WithConfig(cfg))

	for _, source := range c.Sources {
		if err := c.compileOne(ctx, compiler, source); err != nil {
			return err
		}
	}

	for _, unit := range compiler.Units() {
		renderDiagnostics(stderr(ctx), unit.Sink)
	}

	if c.Deps {
		for _, dep := range compiler.Dependencies() {
			fmt.Fprintln(stdout(ctx), dep)
		}
	}

	if compiler.HasErrors() {
		return ErrCompileFailed
	}

	return nil
}

// compileOne compiles a single source document. Diagnostics stay on the
// unit sinks for rendering after every source is compiled; only
// environmental failures surface here.
func (c *Compile) compileOne(
	ctx context.Context,
	compiler *lang.Compiler,
	source string,
) error {
	var (
		unit *lang.Unit
		err  error
	)

	if source == stdinSource {
		name, text, rerr := readSource(source)
		if rerr != nil {
			return rerr
		}

		unit, err = compiler.Compile(name, text)
	} else {
		unit, err = compiler.CompileFile(source)
	}

	if unit == nil {
		return ErrLoadSource.Wrap(err).
			With(slog.String("path", source))
	}

	log.DebugContext(ctx, "compiled document",
		slog.String("path", unit.Path),
		slog.Int("components", len(unit.Doc.Components)),
		slog.Int("diagnostics", unit.Sink.Len()),
	)

	return nil
}

// config merges the configuration file, when given, with the command's
// own flags. Flags extend the search paths and override scalars.
func (c *Compile) config() (lang.Config, error) {
	var cfg lang.Config

	if c.Config != "" {
		loaded, err := lang.LoadConfig(c.Config)
		if err != nil {
			return cfg, err
		}

		cfg = loaded
	}

	cfg.IncludePaths = append(cfg.IncludePaths, c.IncludePath...)

	if len(c.Library) > 0 && cfg.LibraryPaths == nil {
		cfg.LibraryPaths = map[string]string{}
	}

	for name, path := range c.Library {
		cfg.LibraryPaths[name] = path
	}

	if c.Style != "" {
		cfg.Style = c.Style
	}

	if c.TranslationDomain != "" {
		cfg.TranslationDomain = c.TranslationDomain
	}

	return cfg, nil
}
