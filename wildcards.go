package xsd2jsonschema

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// ProcessContentsMode is the processContents setting of a wildcard.
type ProcessContentsMode string

const (
	StrictProcess ProcessContentsMode = "strict"
	LaxProcess    ProcessContentsMode = "lax"
	SkipProcess   ProcessContentsMode = "skip"
)

// ParseProcessContents validates a processContents value; empty means
// strict.
func ParseProcessContents(value string) (ProcessContentsMode, error) {
	switch mode := ProcessContentsMode(value); mode {
	case "":
		return StrictProcess, nil
	case StrictProcess, LaxProcess, SkipProcess:
		return mode, nil
	}
	return "", fmt.Errorf("invalid processContents value %q", value)
}

// WildcardNamespaceConstraint is the namespace attribute of a wildcard.
type WildcardNamespaceConstraint struct {
	Mode       string   // "##any", "##other", "##targetNamespace", "##local" or "list"
	Namespaces []string // for "list"
}

// ParseNamespaceConstraint parses a namespace attribute value.
func ParseNamespaceConstraint(value string) *WildcardNamespaceConstraint {
	if value == "" {
		value = "##any"
	}
	c := &WildcardNamespaceConstraint{Mode: value}
	if !strings.HasPrefix(value, "##") {
		c.Namespaces = strings.Fields(value)
		c.Mode = "list"
	}
	return c
}

func (c *WildcardNamespaceConstraint) String() string {
	if c.Mode == "list" {
		return strings.Join(c.Namespaces, " ")
	}
	return c.Mode
}

// wildcard checks the attributes shared by any and anyAttribute. JSON
// property names carry no namespace, so the constraint is only logged.
func (v *ConversionVisitor) wildcard(node xmldom.Element) error {
	mode, err := ParseProcessContents(attr(node, "processContents"))
	if err != nil {
		return err
	}
	v.logger.Debug("wildcard allows any content",
		"node", localName(node),
		"namespace", ParseNamespaceConstraint(attr(node, "namespace")).String(),
		"processContents", string(mode),
		"file", v.xsd.Name)
	return nil
}

func handleAny(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	switch parent {
	case "sequence", "all":
	default:
		return false, notImplemented("any", parent)
	}
	if err := v.wildcard(node); err != nil {
		return false, err
	}
	v.working.SetAdditionalProperties(true)
	return false, nil
}

func handleAnyAttribute(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	parent, err := v.parentName()
	if err != nil {
		return false, err
	}
	switch parent {
	case "complexType", "extension", "restriction", "attributeGroup":
	default:
		return false, unexpectedState("anyAttribute", parent)
	}
	if err := v.wildcard(node); err != nil {
		return false, err
	}
	v.working.SetPatternProperty("^"+AttributePrefix, jsonschema.NewTruthy())
	return false, nil
}
