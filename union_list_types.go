package xsd2jsonschema

import (
	"strings"

	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// handleUnion turns each member type into an anyOf alternative. Inline
// member types are added by handleSimpleType.
func handleUnion(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	for _, member := range strings.Fields(attr(node, "memberTypes")) {
		ref, err := v.ns.GetTypeReference(member, v.xsd)
		if err != nil {
			return false, err
		}
		v.working.AnyOf = append(v.working.AnyOf, ref)
	}
	return true, nil
}

// handleList renders a whitespace separated list as an array of its item
// type.
func handleList(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	v.working.Type = jsonschema.TypeArray
	if itemType := attr(node, "itemType"); itemType != "" {
		item, err := v.ns.GetTypeReference(itemType, v.xsd)
		if err != nil {
			return false, err
		}
		v.working.Items = item
		return true, nil
	}
	item := jsonschema.New()
	v.working.Items = item
	return true, v.descend(item)
}
