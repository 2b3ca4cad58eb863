package xsd2jsonschema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// ErrInvalidSchemaDocument is wrapped by every problem ValidateSchemaDocument
// reports.
var ErrInvalidSchemaDocument = errors.New("invalid schema document")

var ncNameRegexp = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}._\-·]*$`)

func isValidNCName(s string) bool {
	return s != "" && ncNameRegexp.MatchString(s)
}

// SchemaValidator checks the structural rules of an XSD document that the
// converter relies on. It does not check the XSD constraints on type
// derivation.
type SchemaValidator struct {
	file *XsdFile
	errs []error
	ids  map[string]xmldom.Element
}

// ValidateSchemaDocument returns every structural problem of f joined into
// one error, or nil.
func ValidateSchemaDocument(f *XsdFile) error {
	sv := &SchemaValidator{file: f, ids: make(map[string]xmldom.Element)}
	sv.validateElement(f.Root(), true)
	return errors.Join(sv.errs...)
}

func (sv *SchemaValidator) validateElement(elem xmldom.Element, top bool) {
	sv.validateID(elem)
	if isXSD(elem) {
		global := !top && parentElement(elem) != nil && localName(parentElement(elem)) == "schema"
		switch name := localName(elem); name {
		case "simpleType", "complexType":
			sv.validateTypeName(elem, global)
			if name == "simpleType" {
				sv.exactlyOne(elem, "restriction", "list", "union")
			}
		case "element":
			sv.validateDeclaration(elem, global)
			sv.validateOccurrences(elem)
			if hasAttr(elem, "type") && (len(xsdChildrenNamed(elem, "simpleType")) > 0 || len(xsdChildrenNamed(elem, "complexType")) > 0) {
				sv.addErrorAt(elem, "element cannot have both 'type' attribute and inline type definition")
			}
		case "attribute":
			sv.validateDeclaration(elem, global)
			switch use := attr(elem, "use"); use {
			case "", "optional", "required", "prohibited":
			default:
				sv.addErrorAt(elem, fmt.Sprintf("invalid use value '%s'", use))
			}
		case "group", "attributeGroup":
			sv.validateDeclaration(elem, global)
		case "sequence", "choice", "all", "any":
			sv.validateOccurrences(elem)
			if name == "any" {
				sv.validateProcessContents(elem)
			}
		case "anyAttribute":
			sv.validateProcessContents(elem)
		case "restriction":
			if attr(elem, "base") == "" && len(xsdChildrenNamed(elem, "simpleType")) == 0 {
				sv.addErrorAt(elem, "restriction must have either 'base' attribute or inline simpleType")
			}
		case "extension":
			if attr(elem, "base") == "" {
				sv.addErrorAt(elem, "extension must have 'base' attribute")
			}
		case "simpleContent", "complexContent":
			sv.exactlyOne(elem, "restriction", "extension")
		case "include":
			if attr(elem, "schemaLocation") == "" {
				sv.addErrorAt(elem, "include must have 'schemaLocation' attribute")
			}
		case "union":
			if attr(elem, "memberTypes") == "" && len(xsdChildrenNamed(elem, "simpleType")) == 0 {
				sv.addErrorAt(elem, "union must have either 'memberTypes' attribute or inline simpleType elements")
			}
		case "list":
			inline := len(xsdChildrenNamed(elem, "simpleType")) > 0
			if (attr(elem, "itemType") == "") == !inline {
				sv.addErrorAt(elem, "list must have exactly one of 'itemType' attribute or inline simpleType")
			}
		case "enumeration", "pattern", "length", "minLength", "maxLength",
			"minInclusive", "maxInclusive", "minExclusive", "maxExclusive",
			"totalDigits", "fractionDigits", "whiteSpace":
			if !hasAttr(elem, "value") {
				sv.addErrorAt(elem, fmt.Sprintf("%s facet must have 'value' attribute", name))
			}
		}
	}
	for _, child := range elementChildren(elem) {
		sv.validateElement(child, false)
	}
}

func (sv *SchemaValidator) validateID(elem xmldom.Element) {
	if !hasAttr(elem, "id") {
		return
	}
	id := attr(elem, "id")
	if !isValidNCName(id) {
		sv.addErrorAt(elem, fmt.Sprintf("invalid id value '%s': must be a valid NCName", id))
		return
	}
	if _, dup := sv.ids[id]; dup {
		sv.addErrorAt(elem, fmt.Sprintf("duplicate id value '%s'", id))
		return
	}
	sv.ids[id] = elem
}

// validateTypeName checks global types are named and local ones are not.
func (sv *SchemaValidator) validateTypeName(elem xmldom.Element, global bool) {
	name := attr(elem, "name")
	switch {
	case global && name == "":
		sv.addErrorAt(elem, fmt.Sprintf("global %s must have a name attribute", localName(elem)))
	case global && !isValidNCName(name):
		sv.addErrorAt(elem, fmt.Sprintf("invalid %s name '%s': must be a valid NCName", localName(elem), name))
	case !global && name != "":
		sv.addErrorAt(elem, fmt.Sprintf("local %s must not have a name attribute", localName(elem)))
	}
}

// validateDeclaration checks the name/ref pair of elements, attributes and
// groups.
func (sv *SchemaValidator) validateDeclaration(elem xmldom.Element, global bool) {
	name, ref := attr(elem, "name"), attr(elem, "ref")
	tag := localName(elem)
	switch {
	case name != "" && ref != "":
		sv.addErrorAt(elem, fmt.Sprintf("%s cannot have both 'name' and 'ref' attributes", tag))
	case global && name == "":
		sv.addErrorAt(elem, fmt.Sprintf("global %s must have a name attribute", tag))
	case name == "" && ref == "":
		sv.addErrorAt(elem, fmt.Sprintf("%s must have a 'name' or 'ref' attribute", tag))
	case name != "" && !isValidNCName(name):
		sv.addErrorAt(elem, fmt.Sprintf("invalid %s name '%s': must be a valid NCName", tag, name))
	}
}

func (sv *SchemaValidator) validateOccurrences(elem xmldom.Element) {
	minOcc, maxOcc := attr(elem, "minOccurs"), attr(elem, "maxOccurs")
	if minOcc != "" && !isNonNegativeInteger(minOcc) {
		sv.addErrorAt(elem, fmt.Sprintf("invalid minOccurs value '%s': must be non-negative integer", minOcc))
		return
	}
	if maxOcc != "" && maxOcc != "unbounded" && !isNonNegativeInteger(maxOcc) {
		sv.addErrorAt(elem, fmt.Sprintf("invalid maxOccurs value '%s': must be non-negative integer or 'unbounded'", maxOcc))
		return
	}
	lo, hi := parseOccurs(elem, "minOccurs", 1), parseOccurs(elem, "maxOccurs", 1)
	if hi != Unbounded && lo > hi {
		sv.addErrorAt(elem, fmt.Sprintf("minOccurs (%d) cannot be greater than maxOccurs (%d)", lo, hi))
	}
}

func (sv *SchemaValidator) validateProcessContents(elem xmldom.Element) {
	if _, err := ParseProcessContents(attr(elem, "processContents")); err != nil {
		sv.addErrorAt(elem, err.Error())
	}
}

func (sv *SchemaValidator) exactlyOne(elem xmldom.Element, names ...string) {
	count := 0
	for _, name := range names {
		count += len(xsdChildrenNamed(elem, name))
	}
	if count != 1 {
		sv.addErrorAt(elem, fmt.Sprintf("%s must have exactly one of: %s", localName(elem), strings.Join(names, ", ")))
	}
}

func isNonNegativeInteger(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (sv *SchemaValidator) addErrorAt(elem xmldom.Element, msg string) {
	line, col, _ := elem.Position()
	sv.errs = append(sv.errs, &ConversionError{
		File:    sv.file.Name,
		Element: localName(elem),
		Line:    line,
		Column:  col,
		Err:     fmt.Errorf("%s: %w", msg, ErrInvalidSchemaDocument),
	})
}
