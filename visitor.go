package xsd2jsonschema

import (
	"fmt"
	"log/slog"

	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// handlerFunc converts one XSD element. It returns false to skip the
// element's children.
type handlerFunc func(v *ConversionVisitor, node xmldom.Element) (bool, error)

// ConversionVisitor builds a JSON Schema document while Traverse walks an
// XSD document. The schema being built is held in an explicit cursor; a
// handler that descends into a new schema records the previous one on its
// parsing-state frame, and it is restored when that frame is exited.
type ConversionVisitor struct {
	opts     Options
	logger   *slog.Logger
	state    *ParsingState
	ns       *NamespaceManager
	special  *SpecialCaseIdentifier
	handlers map[string]handlerFunc

	types   *valueTypes
	xsd     *XsdFile
	root    *jsonschema.Schema
	working *jsonschema.Schema
}

// NewConversionVisitor returns a visitor sharing the registry and the
// special-case queue of one conversion run.
func NewConversionVisitor(opts Options, ns *NamespaceManager, special *SpecialCaseIdentifier) *ConversionVisitor {
	return &ConversionVisitor{
		opts:     opts,
		logger:   opts.logger(),
		state:    NewParsingState(),
		ns:       ns,
		special:  special,
		handlers: defaultHandlers(),
		types:    newValueTypes(),
	}
}

// Index registers the global declarations of files, so that values are
// typed the same whichever order the declarations appear in.
func (v *ConversionVisitor) Index(files ...*XsdFile) {
	v.types = newValueTypes(files...)
}

// State exposes the parsing-state stack.
func (v *ConversionVisitor) State() *ParsingState { return v.state }

// Working returns the schema currently being built.
func (v *ConversionVisitor) Working() *jsonschema.Schema { return v.working }

func (v *ConversionVisitor) OnBegin(root *jsonschema.Schema, xsd *XsdFile) (bool, error) {
	v.state.Reset()
	v.xsd = xsd
	v.root = root
	v.working = root
	v.logger.Debug("converting schema", "file", xsd.Name, "targetNamespace", xsd.TargetNamespace)
	return true, nil
}

func (v *ConversionVisitor) EnterState(node xmldom.Element, _ *jsonschema.Schema, _ *XsdFile) {
	v.state.EnterState(&Frame{Name: localName(node), Node: node})
}

func (v *ConversionVisitor) Visit(node xmldom.Element, _ *jsonschema.Schema, xsd *XsdFile) (bool, error) {
	name := localName(node)
	if !isXSD(node) {
		v.logger.Debug("skipping foreign node", "node", name, "namespace", string(node.NamespaceURI()))
		return false, nil
	}
	handler, ok := v.handlers[name]
	if !ok {
		v.logger.Debug("skipping unknown node", "node", name, "file", xsd.Name)
		return true, nil
	}
	descend, err := handler(v, node)
	if err != nil {
		v.logger.Error("failed to convert node",
			"file", xsd.Name,
			"states", v.state.String(),
			"node", describeElement(node),
			"error", err)
		line, col, _ := node.Position()
		return false, &ConversionError{
			File:    xsd.Name,
			Element: name,
			Line:    line,
			Column:  col,
			Err:     err,
		}
	}
	return descend, nil
}

func (v *ConversionVisitor) ExitState() {
	frame := v.state.ExitState()
	if frame != nil && frame.WorkingSchema != nil {
		v.working = frame.WorkingSchema
	}
}

func (v *ConversionVisitor) OnEnd(_ *jsonschema.Schema, xsd *XsdFile) error {
	if v.state.Depth() != 0 {
		return fmt.Errorf("%s: %d parsing states left open: %w", xsd.Name, v.state.Depth(), ErrUnexpectedState)
	}
	return nil
}

// descend makes next the working schema until the current node is exited.
func (v *ConversionVisitor) descend(next *jsonschema.Schema) error {
	if err := v.state.PushSchema(v.working); err != nil {
		return err
	}
	v.working = next
	return nil
}

func (v *ConversionVisitor) parent() (*Frame, error) {
	return v.state.CurrentState()
}

func (v *ConversionVisitor) parentName() (string, error) {
	f, err := v.state.CurrentState()
	if err != nil {
		return "", err
	}
	return f.Name, nil
}

// optionalBranch adds a new anyOf branch to parent and queues the fix-up
// that makes the branch's absence acceptable.
func (v *ConversionVisitor) optionalBranch(node xmldom.Element, parent *jsonschema.Schema, kind SpecialCaseKind) *jsonschema.Schema {
	branch := jsonschema.New()
	parent.AnyOf = append(parent.AnyOf, branch)
	v.special.AddSpecialCase(&SpecialCase{
		Kind:   kind,
		Target: branch,
		Parent: parent,
		Node:   node,
	})
	return branch
}

func defaultHandlers() map[string]handlerFunc {
	h := map[string]handlerFunc{
		"schema":         handleSchema,
		"annotation":     handleTransparent,
		"documentation":  handleDocumentation,
		"appinfo":        handleSkipped,
		"import":         handleSkipped,
		"include":        handleSkipped,
		"element":        handleElement,
		"attribute":      handleAttribute,
		"attributeGroup": handleAttributeGroup,
		"group":          handleGroup,
		"complexType":    handleComplexType,
		"simpleType":     handleSimpleType,
		"complexContent": handleTransparent,
		"simpleContent":  handleTransparent,
		"sequence":       handleSequence,
		"choice":         handleChoice,
		"all":            handleAll,
		"extension":      handleExtension,
		"restriction":    handleRestriction,
		"union":          handleUnion,
		"list":           handleList,
		"any":            handleAny,
		"anyAttribute":   handleAnyAttribute,
	}
	for name, facet := range facetHandlers {
		h[name] = facet
	}
	for _, name := range []string{"key", "keyref", "unique", "selector", "field", "notation"} {
		h[name] = handleTolerated
	}
	for _, name := range []string{"redefine", "override", "openContent", "defaultOpenContent", "alternative", "assert", "assertion"} {
		h[name] = handleNotImplemented
	}
	return h
}
