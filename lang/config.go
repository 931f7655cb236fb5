package lang

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/weft/pkg"
)

// Config holds the compiler settings read from a configuration file.
// Zero values are valid; an empty Config compiles standalone documents
// with no import search paths.
type Config struct {
	// IncludePaths lists directories searched for imports that do not
	// resolve relative to the importing document.
	IncludePaths []string `yaml:"include-paths"`

	// LibraryPaths maps library names to their root directories or
	// entry files, consulted for `@name` import paths.
	LibraryPaths map[string]string `yaml:"library-paths"`

	// Style names the widget style requested for this compilation.
	Style string `yaml:"style"`

	// TranslationDomain is the gettext domain used for translated
	// string literals.
	TranslationDomain string `yaml:"translation-domain"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, pkg.MakeError(pkg.ErrReadInput, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, pkg.MakeError(pkg.ErrConfigParse, err)
	}

	return cfg, nil
}
