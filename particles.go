package xsd2jsonschema

import (
	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

func handleElement(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	if ref := attr(node, "ref"); ref != "" {
		value, err := v.ns.GetTypeReference(ref, v.xsd)
		if err != nil {
			return false, err
		}
		v.applyValueConstraints(node, value)
		if err := v.addParticle(node, ParseQName(ref).Local, value); err != nil {
			return false, err
		}
		return true, v.descend(value)
	}

	name := attr(node, "name")
	if name == "" {
		return false, missingAttribute("element", "name")
	}
	typ := attr(node, "type")

	if v.state.IsTopLevelEntity() {
		var value *jsonschema.Schema
		var err error
		if typ != "" {
			// the element is an alias other documents can refer to by name
			if value, err = v.ns.GetTypeReference(typ, v.xsd); err != nil {
				return false, err
			}
			if err := v.ns.AddTypeReference(name, value, v.xsd, v.root); err != nil {
				return false, err
			}
		} else if value, err = v.ns.GetType(name, v.xsd, v.root); err != nil {
			return false, err
		}
		v.applyValueConstraints(node, value)
		return true, v.descend(value)
	}

	value := jsonschema.New()
	if typ != "" {
		var err error
		if value, err = v.ns.GetTypeReference(typ, v.xsd); err != nil {
			return false, err
		}
	}
	v.applyValueConstraints(node, value)
	if err := v.addParticle(node, name, value); err != nil {
		return false, err
	}
	return true, v.descend(value)
}

// addParticle adds an element to the working schema as a property, shaped by
// its occurrence constraints and by the compositor it appears in.
func (v *ConversionVisitor) addParticle(node xmldom.Element, name string, value *jsonschema.Schema) error {
	parent, err := v.parent()
	if err != nil {
		return err
	}
	switch parent.Name {
	case "sequence", "all", "choice":
	default:
		return unexpectedState("element", parent.Name)
	}

	optional := v.special.IsOptional(node)
	prop := value
	if isArray(node) {
		prop = arrayOf(node, value)
	}

	if parent.Name == "choice" {
		// an optional choice of optional elements is just optional properties
		if v.special.IsOptional(parent.Node) && v.special.AllChildrenOptional(parent.Node) {
			v.working.SetProperty(name, prop)
			return nil
		}
		branch := jsonschema.New()
		branch.SetProperty(name, prop)
		if !optional {
			branch.AddRequired(name)
		}
		v.working.OneOf = append(v.working.OneOf, branch)
		return nil
	}

	v.working.SetProperty(name, prop)
	if !optional {
		v.working.AddRequired(name)
	}
	return nil
}

func arrayOf(node xmldom.Element, items *jsonschema.Schema) *jsonschema.Schema {
	arr := &jsonschema.Schema{Type: jsonschema.TypeArray, Items: items}
	if minOcc := parseOccurs(node, "minOccurs", 1); minOcc > 0 {
		arr.MinItems = jsonschema.Int(minOcc)
	}
	if maxOcc := parseOccurs(node, "maxOccurs", 1); maxOcc != Unbounded {
		arr.MaxItems = jsonschema.Int(maxOcc)
	}
	return arr
}

func handleChoice(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	if isArray(node) {
		return false, notImplemented("choice with maxOccurs > 1", parent)
	}
	optional := v.special.IsOptional(node)

	target := v.working
	switch parent {
	case "choice":
		target = jsonschema.New()
		v.working.OneOf = append(v.working.OneOf, target)
	case "complexType", "group", "restriction":
		if optional {
			target = v.optionalBranch(node, v.working, OptionalChoice)
		}
	case "sequence":
		if v.special.IsSiblingChoice(node) {
			target = jsonschema.New()
			v.working.AllOf = append(v.working.AllOf, target)
		}
		if optional || v.special.AllChildrenOptional(node) {
			target = v.optionalBranch(node, target, OptionalChoice)
		}
	case "extension":
		return false, notImplemented("choice", parent)
	default:
		return false, unexpectedState("choice", parent)
	}

	if v.special.IsAnyOfChoice(node) {
		v.special.AddSpecialCase(&SpecialCase{
			Kind:   AnyOfChoice,
			Target: target,
			Node:   node,
			start:  len(target.OneOf),
			count:  len(xsdChildren(node)),
		})
	}
	if target != v.working {
		return true, v.descend(target)
	}
	return true, nil
}

func handleSequence(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	if isArray(node) {
		return false, notImplemented("sequence with maxOccurs > 1", parent)
	}
	switch parent {
	case "complexType", "group", "extension", "restriction":
		return v.compositor(node)
	case "sequence":
		if !v.special.IsOptional(node) {
			return false, notImplemented("required sequence", parent)
		}
		return true, v.descend(v.optionalBranch(node, v.working, OptionalSequence))
	case "choice":
		branch := jsonschema.New()
		v.working.OneOf = append(v.working.OneOf, branch)
		return true, v.descend(branch)
	}
	return false, unexpectedState("sequence", parent)
}

func handleAll(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	switch parent {
	case "complexType", "group", "extension", "restriction":
		return v.compositor(node)
	}
	return false, unexpectedState("all", parent)
}

// compositor handles a sequence or all that is the content model of a type.
// Its elements go straight into the type unless the whole group may be
// absent.
func (v *ConversionVisitor) compositor(node xmldom.Element) (bool, error) {
	if v.special.IsOptional(node) {
		return true, v.descend(v.optionalBranch(node, v.working, OptionalSequence))
	}
	return true, nil
}
