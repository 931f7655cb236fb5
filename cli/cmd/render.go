package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/weft/lang/diag"
)

//nolint:gochecknoglobals
var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	locationStyle = lipgloss.NewStyle().Bold(true)
	caretStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)

// renderDiagnostics writes every diagnostic of sink to w, styled by
// severity.
func renderDiagnostics(w io.Writer, sink *diag.Sink) {
	for d := range sink.All() {
		fmt.Fprintln(w, renderDiagnostic(sink, d))
	}
}

// renderDiagnostic formats one diagnostic as a location header followed
// by the offending source line with a caret underline.
func renderDiagnostic(sink *diag.Sink, d diag.Diagnostic) string {
	line, col := sink.LineColumn(d.Span.Offset)

	style := errorStyle
	if d.Severity == diag.Warning {
		style = warningStyle
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s %s",
		locationStyle.Render(fmt.Sprintf("%s:%d:%d:", sink.Path(), line, col)),
		style.Render(d.Severity.String()+":"),
		d.Message)

	text, ok := sourceLine(sink.Source(), d.Span.Offset, col)
	if !ok {
		return sb.String()
	}

	width := d.Span.Len
	if limit := len(text) - (col - 1); width > limit {
		width = limit
	}

	if width < 1 {
		width = 1
	}

	sb.WriteString("\n  " + text)
	sb.WriteString("\n  " + strings.Repeat(" ", col-1) +
		caretStyle.Render(strings.Repeat("^", width)))

	return sb.String()
}

// sourceLine extracts the full line of source containing offset, given
// the 1-based column of the offset within it.
func sourceLine(source string, offset, col int) (string, bool) {
	if offset > len(source) {
		return "", false
	}

	start := offset - (col - 1)

	end := strings.IndexByte(source[offset:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += offset
	}

	if start < 0 || start > end {
		return "", false
	}

	return source[start:end], true
}
