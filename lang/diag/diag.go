// Package diag collects source diagnostics produced by the compiler.
//
// Problems in user source are recorded as [Diagnostic] values in a [Sink]
// and never surface as Go errors; every stage keeps running so one
// compilation reports as many problems as possible. Go errors are reserved
// for environmental failures like unreadable files.
package diag

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/ardnew/weft/lang/token"
)

// Severity classifies how serious a diagnostic is.
type Severity uint8

const (
	// Warning marks suspicious but compilable source.
	Warning Severity = iota
	// Error marks source that cannot be compiled.
	Error
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}

	return "error"
}

// Diagnostic is one problem found in user source.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     token.Span
}

// Sink accumulates diagnostics for one source document.
//
// The sink records the source text so diagnostics can be mapped from byte
// offsets to line and column positions on demand.
type Sink struct {
	path       string
	source     string
	lineStarts []int
	diags      []Diagnostic
}

// NewSink creates a sink for the given document path and source text.
func NewSink(path, source string) *Sink {
	return &Sink{path: path, source: source}
}

// Path returns the document path the sink was created with.
func (s *Sink) Path() string { return s.path }

// Source returns the source text the sink was created with.
func (s *Sink) Source() string { return s.source }

// PushError records an error diagnostic covering span.
func (s *Sink) PushError(message string, span token.Span) {
	s.diags = append(s.diags, Diagnostic{
		Severity: Error,
		Message:  message,
		Span:     span,
	})
}

// PushErrorf records a formatted error diagnostic covering span.
func (s *Sink) PushErrorf(span token.Span, format string, args ...any) {
	s.PushError(fmt.Sprintf(format, args...), span)
}

// PushWarning records a warning diagnostic covering span.
func (s *Sink) PushWarning(message string, span token.Span) {
	s.diags = append(s.diags, Diagnostic{
		Severity: Warning,
		Message:  message,
		Span:     span,
	})
}

// PushWarningf records a formatted warning diagnostic covering span.
func (s *Sink) PushWarningf(span token.Span, format string, args ...any) {
	s.PushWarning(fmt.Sprintf(format, args...), span)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == Error {
			return true
		}
	}

	return false
}

// Len returns the number of recorded diagnostics.
func (s *Sink) Len() int { return len(s.diags) }

// All returns an iterator over recorded diagnostics in recording order.
func (s *Sink) All() iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		for _, d := range s.diags {
			if !yield(d) {
				return
			}
		}
	}
}

// LineColumn maps a byte offset into 1-based line and column numbers.
// Columns count bytes, not display cells.
func (s *Sink) LineColumn(offset int) (line, column int) {
	if s.lineStarts == nil {
		s.lineStarts = computeLineStarts(s.source)
	}

	idx := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1

	if idx < 0 {
		idx = 0
	}

	return idx + 1, offset - s.lineStarts[idx] + 1
}

// Format renders the diagnostic as "path:line:column: severity: message".
func (s *Sink) Format(d Diagnostic) string {
	line, col := s.LineColumn(d.Span.Offset)

	var sb strings.Builder

	if s.path != "" {
		sb.WriteString(s.path)
		sb.WriteByte(':')
	}

	fmt.Fprintf(&sb, "%d:%d: %s: %s", line, col, d.Severity, d.Message)

	return sb.String()
}

func computeLineStarts(source string) []int {
	starts := []int{0}

	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}
