package xsd2jsonschema

import (
	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// applyValueConstraints maps the fixed and default attributes of an element
// or attribute declaration onto const and default.
func (v *ConversionVisitor) applyValueConstraints(node xmldom.Element, s *jsonschema.Schema) {
	if !hasAttr(node, "fixed") && !hasAttr(node, "default") {
		return
	}
	t := v.valueType(node)
	if hasAttr(node, "fixed") {
		s.Const = typedValue(t, rawAttr(node, "fixed"))
	}
	if hasAttr(node, "default") {
		s.Default = typedValue(t, rawAttr(node, "default"))
	}
}
