package xsd2jsonschema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiagnostic(t *testing.T) {
	err := &ConversionError{
		File:    "po.xsd",
		Element: "sequence",
		Line:    3,
		Column:  5,
		Err:     notImplemented("sequence", "sequence"),
	}
	d := NewDiagnostic(fmt.Errorf("convert: %w", err))
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, "E100", d.Code)
	assert.Equal(t, "sequence", d.Tag)
	assert.Equal(t, Position{File: "po.xsd", Line: 3, Column: 5}, d.Position)
	assert.Equal(t, "sequence needs to be implemented within sequence: not implemented", d.Message)
	assert.NotEmpty(t, d.Hints)

	plain := NewDiagnostic(errors.New("boom"))
	assert.Equal(t, "E000", plain.Code)
	assert.Equal(t, "boom", plain.Message)
	assert.Empty(t, plain.Position.File)
}

func TestDiagnosticCodes(t *testing.T) {
	tests := map[error]string{
		ErrUnexpectedState:       "E101",
		ErrMissingAttribute:      "E102",
		ErrUnresolvedReference:   "E200",
		ErrCircularReference:     "E201",
		ErrUnresolvedPrefix:      "E202",
		ErrUnknownBuiltInType:    "E203",
		ErrInvalidSchemaDocument: "E300",
	}
	for sentinel, code := range tests {
		assert.Equal(t, code, NewDiagnostic(fmt.Errorf("x: %w", sentinel)).Code, sentinel.Error())
	}
}

func TestDiagnosticsFlattensJoinedErrors(t *testing.T) {
	assert.Nil(t, Diagnostics(nil))

	err := errors.Join(
		fmt.Errorf("a: %w", ErrUnresolvedReference),
		errors.Join(fmt.Errorf("b: %w", ErrCircularReference), errors.New("c")),
	)
	diags := Diagnostics(err)
	require.Len(t, diags, 3)
	assert.Equal(t, "E200", diags[0].Code)
	assert.Equal(t, "E201", diags[1].Code)
	assert.Equal(t, "E000", diags[2].Code)
}

func TestFormatWithoutColor(t *testing.T) {
	source := "<xs:schema>\n  <xs:redefine schemaLocation=\"a.xsd\"/>\n</xs:schema>"
	d := Diagnostic{
		Severity: SeverityError,
		Code:     "E100",
		Message:  "redefine is not converted",
		Position: Position{File: "a.xsd", Line: 2, Column: 3},
		Hints:    []string{"remove it"},
	}
	ef := &ErrorFormatter{}
	assert.Equal(t, "error[E100]: redefine is not converted\n"+
		" --> a.xsd:2:3\n"+
		"   2 |   <xs:redefine schemaLocation=\"a.xsd\"/>\n"+
		"     |   ^\n"+
		"     |\n"+
		"     = help: remove it\n", ef.Format(d, source))

	d.Position = Position{File: "a.xsd"}
	d.Hints = nil
	d.Severity = SeverityWarning
	assert.Equal(t, "warning[E100]: redefine is not converted\n --> a.xsd\n", ef.Format(d, source))
}

func TestFormatWithColor(t *testing.T) {
	ef := &ErrorFormatter{Color: true}
	out := ef.Format(Diagnostic{Severity: SeverityError, Code: "E000", Message: "boom"}, "")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "boom")
}
