package xsd2jsonschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Diagnostic is a rustc-style report of one conversion failure.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Position Position `json:"position"`
	Tag      string   `json:"tag,omitempty"`
	Hints    []string `json:"hints,omitempty"`
}

// Severity represents the severity level of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Position is a location in an XSD document.
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type errorCategory struct {
	err   error
	code  string
	hints []string
}

var errorCategories = []errorCategory{
	{ErrNotImplemented, "E100", []string{"this XSD construct is not converted in this position"}},
	{ErrUnexpectedState, "E101", []string{"check that the element is nested where XML Schema allows it"}},
	{ErrMissingAttribute, "E102", nil},
	{ErrUnresolvedReference, "E200", []string{"convert the document defining the type in the same run", "check the namespace prefix of the reference"}},
	{ErrCircularReference, "E201", []string{"named types that only alias each other never reach a definition"}},
	{ErrUnresolvedPrefix, "E202", []string{"declare the prefix with xmlns on the xs:schema element"}},
	{ErrUnknownBuiltInType, "E203", nil},
	{ErrInvalidSchemaDocument, "E300", nil},
}

// Diagnostics flattens err, including errors joined with errors.Join, into
// one diagnostic per failure.
func Diagnostics(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []Diagnostic
		for _, e := range joined.Unwrap() {
			out = append(out, Diagnostics(e)...)
		}
		return out
	}
	return []Diagnostic{NewDiagnostic(err)}
}

// NewDiagnostic converts a single error.
func NewDiagnostic(err error) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Code:     "E000",
		Message:  err.Error(),
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		d.Message = ce.Err.Error()
		d.Tag = ce.Element
		d.Position = Position{File: ce.File, Line: ce.Line, Column: ce.Column}
	}
	for _, c := range errorCategories {
		if errors.Is(err, c.err) {
			d.Code = c.code
			d.Hints = c.hints
			break
		}
	}
	return d
}

// ErrorFormatter provides rustc-style error formatting
type ErrorFormatter struct {
	Color bool
}

func (ef *ErrorFormatter) paint(attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if ef.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

// Format renders diag, quoting the offending line of source when given.
func (ef *ErrorFormatter) Format(diag Diagnostic, source string) string {
	var sb strings.Builder

	severity := string(diag.Severity)
	switch diag.Severity {
	case SeverityError:
		severity = ef.paint(color.FgRed, color.Bold)(severity)
	case SeverityWarning:
		severity = ef.paint(color.FgYellow, color.Bold)(severity)
	case SeverityInfo:
		severity = ef.paint(color.FgCyan, color.Bold)(severity)
	}
	bold := ef.paint(color.Bold)
	gutter := ef.paint(color.FgBlue, color.Bold)

	fmt.Fprintf(&sb, "%s[%s]: %s\n", severity, diag.Code, bold(diag.Message))
	if diag.Position.File != "" {
		if diag.Position.Line > 0 {
			fmt.Fprintf(&sb, "%s %s:%d:%d\n", gutter(" -->"), diag.Position.File, diag.Position.Line, diag.Position.Column)
		} else {
			fmt.Fprintf(&sb, "%s %s\n", gutter(" -->"), diag.Position.File)
		}
	}

	if source != "" && diag.Position.Line > 0 {
		lines := strings.Split(source, "\n")
		if diag.Position.Line <= len(lines) {
			sb.WriteString(gutter(fmt.Sprintf("%4d | ", diag.Position.Line)))
			sb.WriteString(lines[diag.Position.Line-1] + "\n")
			sb.WriteString(gutter("     | "))
			if diag.Position.Column > 0 {
				sb.WriteString(strings.Repeat(" ", diag.Position.Column-1))
				sb.WriteString(ef.paint(color.FgRed, color.Bold)("^"))
			}
			sb.WriteString("\n")
		}
	}

	if len(diag.Hints) > 0 {
		sb.WriteString(gutter("     |") + "\n")
		for _, hint := range diag.Hints {
			sb.WriteString(gutter("     = ") + bold("help") + ": " + hint + "\n")
		}
	}
	return sb.String()
}
