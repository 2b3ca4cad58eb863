package xsd2jsonschema

import (
	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// AttributePrefix keeps attribute properties apart from element properties.
const AttributePrefix = "@"

func handleAttribute(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	if attr(node, "use") == "prohibited" {
		v.logger.Debug("skipping prohibited attribute", "name", attr(node, "name"), "ref", attr(node, "ref"), "file", v.xsd.Name)
		return false, nil
	}
	if v.state.IsTopLevelEntity() {
		return v.globalAttribute(node)
	}

	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	switch parent {
	case "complexType", "extension", "restriction", "attributeGroup":
	default:
		return false, unexpectedState("attribute", parent)
	}

	var name string
	var value *jsonschema.Schema
	if ref := attr(node, "ref"); ref != "" {
		if value, err = v.ns.GetGlobalAttribute(ref, v.xsd); err != nil {
			return false, err
		}
		name = ParseQName(ref).Local
	} else {
		if name = attr(node, "name"); name == "" {
			return false, missingAttribute("attribute", "name")
		}
		if value, err = v.attributeType(node); err != nil {
			return false, err
		}
	}
	v.applyValueConstraints(node, value)

	prop := AttributePrefix + name
	if v.working.HasProperty(prop) {
		v.logger.Debug("attribute declared twice, the last declaration wins", "attribute", name, "file", v.xsd.Name)
	}
	v.working.SetProperty(prop, value)
	if attr(node, "use") == "required" {
		v.working.AddRequired(prop)
	}
	return true, v.descend(value)
}

func (v *ConversionVisitor) globalAttribute(node xmldom.Element) (bool, error) {
	name := attr(node, "name")
	if name == "" {
		return false, missingAttribute("attribute", "name")
	}
	def, err := v.ns.GlobalAttribute(name, v.xsd, v.root)
	if err != nil {
		return false, err
	}
	typed, err := v.attributeType(node)
	if err != nil {
		return false, err
	}
	if h := typed.Ref(); h != nil {
		def.SetRef(h)
	} else {
		def.Merge(typed)
	}
	v.applyValueConstraints(node, def)
	return true, v.descend(def)
}

// attributeType resolves the type attribute, or returns an empty schema for
// an inline or absent type.
func (v *ConversionVisitor) attributeType(node xmldom.Element) (*jsonschema.Schema, error) {
	typ := attr(node, "type")
	if typ == "" {
		return jsonschema.New(), nil
	}
	return v.ns.GetTypeReference(typ, v.xsd)
}
