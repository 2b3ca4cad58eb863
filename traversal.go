package xsd2jsonschema

import (
	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// Visitor receives the callbacks of a depth-first walk over an XSD
// document.
type Visitor interface {
	// OnBegin runs before the walk; returning false skips it.
	OnBegin(root *jsonschema.Schema, xsd *XsdFile) (bool, error)
	// EnterState runs before each node is visited.
	EnterState(node xmldom.Element, root *jsonschema.Schema, xsd *XsdFile)
	// Visit handles a node; returning false skips its children.
	Visit(node xmldom.Element, root *jsonschema.Schema, xsd *XsdFile) (bool, error)
	// ExitState runs after a node and its children, also when Visit failed.
	ExitState()
	// OnEnd runs after the walk.
	OnEnd(root *jsonschema.Schema, xsd *XsdFile) error
}

// Traverse walks the element tree of xsd depth first in document order.
func Traverse(v Visitor, root *jsonschema.Schema, xsd *XsdFile) error {
	walk, err := v.OnBegin(root, xsd)
	if err != nil {
		return err
	}
	if walk {
		if err := traverseNode(v, xsd.Root(), root, xsd); err != nil {
			return err
		}
	}
	return v.OnEnd(root, xsd)
}

func traverseNode(v Visitor, node xmldom.Element, root *jsonschema.Schema, xsd *XsdFile) error {
	v.EnterState(node, root, xsd)
	defer v.ExitState()

	descend, err := v.Visit(node, root, xsd)
	if err != nil {
		return err
	}
	if !descend {
		return nil
	}
	for _, child := range elementChildren(node) {
		if err := traverseNode(v, child, root, xsd); err != nil {
			return err
		}
	}
	return nil
}
