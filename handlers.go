package xsd2jsonschema

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

func handleSchema(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	var sb strings.Builder
	sb.WriteString("Schema tag attributes:")
	attrs := node.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		a := attrs.Item(i)
		if a == nil {
			continue
		}
		fmt.Fprintf(&sb, " %s='%s'", a.NodeName(), a.NodeValue())
	}
	v.root.Description = sb.String()
	v.root.Type = jsonschema.TypeObject
	v.ns.AddNamespaces(v.xsd)
	v.working = v.root
	return true, nil
}

func handleTransparent(_ *ConversionVisitor, _ xmldom.Element) (bool, error) {
	return true, nil
}

func handleDocumentation(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	text := strings.TrimSpace(string(node.TextContent()))
	if text == "" {
		return false, nil
	}
	if v.working.Description != "" {
		v.working.Description += "\n"
	}
	v.working.Description += text
	return false, nil
}

func handleSkipped(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	v.logger.Debug("ignoring node", "node", localName(node), "file", v.xsd.Name)
	return false, nil
}

// handleTolerated covers constructs with no JSON Schema counterpart.
func handleTolerated(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	v.logger.Debug("construct not converted", "node", localName(node), "name", attr(node, "name"), "file", v.xsd.Name)
	return false, nil
}

func handleNotImplemented(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	return false, notImplemented(localName(node), parent)
}

// namedType registers the top-level definition named by node and makes it
// the working schema.
func (v *ConversionVisitor) namedType(node xmldom.Element) (*jsonschema.Schema, error) {
	name := attr(node, "name")
	if name == "" {
		return nil, missingAttribute(localName(node), "name")
	}
	t, err := v.ns.GetType(name, v.xsd, v.root)
	if err != nil {
		return nil, err
	}
	return t, v.descend(t)
}

func handleComplexType(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	simple := len(xsdChildrenNamed(node, "simpleContent")) > 0
	if v.state.IsTopLevelEntity() {
		t, err := v.namedType(node)
		if err != nil {
			return false, err
		}
		if !simple {
			t.Type = jsonschema.TypeObject
		}
		return true, nil
	}
	if !simple && v.working.Type == "" {
		v.working.Type = jsonschema.TypeObject
	}
	return true, nil
}

func handleSimpleType(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	if v.state.IsTopLevelEntity() {
		_, err := v.namedType(node)
		return err == nil, err
	}
	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	if parent == "union" {
		member := jsonschema.New()
		v.working.AnyOf = append(v.working.AnyOf, member)
		return true, v.descend(member)
	}
	return true, nil
}

func handleGroup(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	if ref := attr(node, "ref"); ref != "" {
		if isArray(node) {
			return false, notImplemented("group reference with maxOccurs > 1", parent)
		}
		group, err := v.ns.GetTypeReference(ref, v.xsd)
		if err != nil {
			return false, err
		}
		switch {
		case parent == "choice":
			v.working.OneOf = append(v.working.OneOf, group)
		case v.special.IsOptional(node):
			branch := v.optionalBranch(node, v.working, OptionalSequence)
			branch.AllOf = append(branch.AllOf, group)
		default:
			v.working.AllOf = append(v.working.AllOf, group)
		}
		return false, nil
	}
	if !v.state.IsTopLevelEntity() {
		return false, unexpectedState("group", parent)
	}
	t, err := v.namedType(node)
	if err != nil {
		return false, err
	}
	t.Type = jsonschema.TypeObject
	return true, nil
}

func handleAttributeGroup(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	if ref := attr(node, "ref"); ref != "" {
		group, err := v.ns.GetTypeReference(ref, v.xsd)
		if err != nil {
			return false, err
		}
		v.working.AllOf = append(v.working.AllOf, group)
		return false, nil
	}
	if !v.state.IsTopLevelEntity() {
		parent, err := v.parentName()
		if err != nil {
			return false, err
		}
		return false, unexpectedState("attributeGroup", parent)
	}
	_, err := v.namedType(node)
	return err == nil, err
}
