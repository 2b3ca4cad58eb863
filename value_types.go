package xsd2jsonschema

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// declaration is an XSD component together with the document whose prefix
// bindings its attributes use.
type declaration struct {
	node xmldom.Element
	xsd  *XsdFile
}

// valueTypes indexes the global declarations of every document in a run. It
// answers which JSON type the lexical values of a declaration take straight
// from the XSD, so the answer does not depend on which declarations have
// been converted yet.
type valueTypes struct {
	types      map[QName]declaration
	elements   map[QName]declaration
	attributes map[QName]declaration
}

func newValueTypes(files ...*XsdFile) *valueTypes {
	vt := &valueTypes{
		types:      make(map[QName]declaration),
		elements:   make(map[QName]declaration),
		attributes: make(map[QName]declaration),
	}
	for _, xsd := range files {
		for _, child := range xsdChildren(xsd.Root()) {
			name := attr(child, "name")
			if name == "" {
				continue
			}
			var table map[QName]declaration
			switch localName(child) {
			case "simpleType", "complexType":
				table = vt.types
			case "element":
				table = vt.elements
			case "attribute":
				table = vt.attributes
			default:
				continue
			}
			key := QName{Namespace: xsd.TargetNamespace, Local: name}
			// first declaration wins, as in the namespace registry
			if _, ok := table[key]; !ok {
				table[key] = declaration{node: child, xsd: xsd}
			}
		}
	}
	return vt
}

// of returns the JSON type the values of d take, or "" when they stay
// strings.
func (vt *valueTypes) of(d declaration, seen map[xmldom.Element]bool) string {
	if d.node == nil || seen[d.node] {
		return ""
	}
	seen[d.node] = true
	switch localName(d.node) {
	case "element":
		if ref := attr(d.node, "ref"); ref != "" {
			return vt.lookup(vt.elements, ref, d.xsd, seen)
		}
	case "attribute":
		if ref := attr(d.node, "ref"); ref != "" {
			return vt.lookup(vt.attributes, ref, d.xsd, seen)
		}
	case "restriction", "extension":
		if base := attr(d.node, "base"); base != "" {
			return vt.lookup(vt.types, base, d.xsd, seen)
		}
		return vt.inline(d, seen)
	case "list":
		return jsonschema.TypeArray
	case "union":
		return ""
	default:
		return vt.inline(d, seen)
	}
	if typ := attr(d.node, "type"); typ != "" {
		return vt.lookup(vt.types, typ, d.xsd, seen)
	}
	return vt.inline(d, seen)
}

// inline follows the first child of d that defines a type.
func (vt *valueTypes) inline(d declaration, seen map[xmldom.Element]bool) string {
	for _, c := range xsdChildren(d.node) {
		switch localName(c) {
		case "simpleType", "complexType", "simpleContent", "restriction", "extension", "list", "union":
			return vt.of(declaration{node: c, xsd: d.xsd}, seen)
		}
	}
	return ""
}

func (vt *valueTypes) lookup(table map[QName]declaration, name string, xsd *XsdFile, seen map[xmldom.Element]bool) string {
	qname, err := xsd.ResolveQName(name)
	if err != nil {
		return ""
	}
	if qname.Namespace == XSDNamespace {
		return builtinValueType(qname.Local)
	}
	d, ok := table[qname]
	if !ok {
		return ""
	}
	return vt.of(d, seen)
}

// builtinValueType reports the JSON type values of a built-in take.
// xs:boolean renders as a oneOf and counts as boolean.
func builtinValueType(name string) string {
	bt := GetBuiltinType(name)
	if bt == nil {
		return ""
	}
	t := jsonschema.New()
	bt.Convert(t, URIDialectRFC3986)
	if slices.ContainsFunc(t.OneOf, func(alt *jsonschema.Schema) bool { return alt.Type == jsonschema.TypeBoolean }) {
		return jsonschema.TypeBoolean
	}
	return t.Type
}

// valueType returns the JSON type of the values node declares: the base of
// a restriction or extension, or the type of an element or attribute.
func (v *ConversionVisitor) valueType(node xmldom.Element) string {
	return v.types.of(declaration{node: node, xsd: v.xsd}, make(map[xmldom.Element]bool))
}

// baseType is valueType for the restriction a facet belongs to.
func (v *ConversionVisitor) baseType() string {
	frame, err := v.parent()
	if err != nil || frame.Node == nil {
		return ""
	}
	return v.valueType(frame.Node)
}

func isNumericType(t string) bool {
	return t == jsonschema.TypeNumber || t == jsonschema.TypeInteger
}

// typedValue converts a lexical value to JSON type t when t is boolean or
// numeric. Values that do not parse stay strings.
func typedValue(t, raw string) any {
	value := strings.TrimSpace(raw)
	switch {
	case t == jsonschema.TypeBoolean:
		switch value {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
	case isNumericType(t):
		// INF and NaN have no JSON number form
		if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
	}
	return raw
}
