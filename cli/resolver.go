package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolveYAML is a [kong.ConfigurationLoader] that reads flag defaults
// from a YAML configuration file.
//
// The file is a flat mapping of flag names to values. Flag names with
// hyphens (e.g. "log-level") may be spelled with underscores in the
// file (e.g. "log_level"). An unreadable or malformed file resolves no
// flags rather than failing startup.
//
// Example:
//
//	log-level: debug
//	log-format: text
//	log-pretty: true
//
// Command-line flags override config file values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return config{}, nil //nolint:nilerr
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return config{}, nil //nolint:nilerr
	}

	return config(raw), nil
}

// config implements [kong.Resolver] over a flat YAML mapping.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	value, ok := r[flag.Name]
	if !ok {
		value, ok = r[strings.ReplaceAll(flag.Name, "-", "_")]
	}

	if !ok {
		return nil, nil //nolint:nilnil
	}

	// Kong expects numbers as strings for parsing.
	switch num := value.(type) {
	case int64:
		return strconv.FormatInt(num, 10), nil
	case uint64:
		return strconv.FormatUint(num, 10), nil
	case float64:
		return strconv.FormatFloat(num, 'f', -1, 64), nil
	default:
		return value, nil
	}
}
