// Package cli contains the command line interface for weft.
//
// # Usage
//
// The compile command is the default, so sources can be given directly:
//
//	weft main.wft
//	weft compile --include-path ui main.wft
//
// Inspection commands expose the front end's intermediate forms:
//
//	weft tokens main.wft
//	weft tree --format yaml main.wft
//
// # Configuration
//
// Flag defaults are read from a YAML file in the user configuration
// directory (see [resolveYAML] for the format). The compile command
// additionally accepts a compiler configuration file naming import
// search paths, library roots, and the widget style.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o weft .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/weft/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	weft --log-level=debug --pprof-mode=cpu main.wft
//
//	# Print every file loaded during compilation
//	weft compile --deps main.wft
package cli
