package xsd2jsonschema

import (
	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

func handleRestriction(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	base := attr(node, "base")
	if base == "" {
		// the base is an inline simpleType child
		return true, nil
	}
	qname, err := v.xsd.ResolveQName(base)
	if err != nil {
		return false, err
	}
	if qname.Namespace == XSDNamespace {
		builtin, err := v.ns.GetBuiltInType(qname.Local)
		if err != nil {
			return false, err
		}
		v.working.Merge(builtin)
		return true, nil
	}

	ref, err := v.ns.GetTypeReference(base, v.xsd)
	if err != nil {
		return false, err
	}
	if len(xsdChildren(node)) == 0 {
		v.working.SetRef(ref.Ref())
		return true, nil
	}
	return true, v.descend(v.derive(ref))
}

func handleExtension(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	base := attr(node, "base")
	if base == "" {
		return false, missingAttribute("extension", "base")
	}
	qname, err := v.xsd.ResolveQName(base)
	if err != nil {
		return false, err
	}
	if qname.Namespace == XSDNamespace {
		builtin, err := v.ns.GetBuiltInType(qname.Local)
		if err != nil {
			return false, err
		}
		v.working.Merge(builtin)
		return true, nil
	}

	ref, err := v.ns.GetTypeReference(base, v.xsd)
	if err != nil {
		return false, err
	}
	return true, v.descend(v.derive(ref))
}

// derive appends allOf [base, layer] to the working schema and returns the
// new layer.
func (v *ConversionVisitor) derive(base *jsonschema.Schema) *jsonschema.Schema {
	layer := jsonschema.New()
	v.working.AllOf = append(v.working.AllOf, base, layer)
	return layer
}
