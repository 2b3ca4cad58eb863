package xsd2jsonschema

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented is returned for XSD constructs, or structural
	// placements of them, that the converter deliberately does not model.
	ErrNotImplemented = errors.New("not implemented")
	// ErrUnexpectedState is returned when a handler runs under a parent it
	// cannot be nested in.
	ErrUnexpectedState = errors.New("unexpected parsing state")
	// ErrMissingAttribute is returned when a mandatory attribute is absent.
	ErrMissingAttribute = errors.New("missing required attribute")
	// ErrUnresolvedReference is returned when a referenced type is never
	// defined in the converted document set.
	ErrUnresolvedReference = errors.New("unresolved type reference")
	// ErrCircularReference is returned when named types only refer to each
	// other in a loop.
	ErrCircularReference = errors.New("circular type reference")
	// ErrUnresolvedPrefix is returned for a QName whose prefix is not declared.
	ErrUnresolvedPrefix = errors.New("unresolved namespace prefix")
	// ErrUnknownBuiltInType is returned for names in the XML Schema namespace
	// that are not built-in types.
	ErrUnknownBuiltInType = errors.New("unknown built-in type")
)

// ConversionError locates a failure inside an XSD document.
type ConversionError struct {
	File    string
	Element string
	Line    int
	Column  int
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: <%s>: %v", e.File, e.Line, e.Column, e.Element, e.Err)
	}
	return fmt.Sprintf("%s: <%s>: %v", e.File, e.Element, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func notImplemented(what, where string) error {
	return fmt.Errorf("%s needs to be implemented within %s: %w", what, where, ErrNotImplemented)
}

func unexpectedState(what, where string) error {
	return fmt.Errorf("%s called from within unexpected parsing state %s: %w", what, where, ErrUnexpectedState)
}

func missingAttribute(tag, attr string) error {
	return fmt.Errorf("<%s> requires attribute %q: %w", tag, attr, ErrMissingAttribute)
}
