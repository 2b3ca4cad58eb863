package xsd2jsonschema

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// SpecialCaseKind names an XSD idiom that is rewritten after traversal.
type SpecialCaseKind int

const (
	// AnyOfChoice is a choice whose branches accumulate one member each, so
	// it accepts any non-empty subset of the members.
	AnyOfChoice SpecialCaseKind = iota
	// OptionalChoice is a choice that may be absent.
	OptionalChoice
	// OptionalSequence is a sequence or group reference that may be absent.
	OptionalSequence
)

func (k SpecialCaseKind) String() string {
	switch k {
	case AnyOfChoice:
		return "ANY_OF_CHOICE"
	case OptionalChoice:
		return "OPTIONAL_CHOICE"
	case OptionalSequence:
		return "OPTIONAL_SEQUENCE"
	}
	return "SpecialCaseKind(" + strconv.Itoa(int(k)) + ")"
}

// SpecialCase is a queued fix-up.
type SpecialCase struct {
	Kind SpecialCaseKind
	// Target is the schema built for the XSD node: the schema holding the
	// choice's oneOf branches, or the optional anyOf branch.
	Target *jsonschema.Schema
	// Parent holds Target in its anyOf for the optional kinds.
	Parent *jsonschema.Schema
	Node   xmldom.Element

	// branches locates the oneOf entries of an AnyOfChoice inside Target.
	start, count int
}

// SpecialCaseIdentifier detects XSD idioms JSON Schema cannot express
// directly and rewrites them once all documents have been converted.
type SpecialCaseIdentifier struct {
	cases  []*SpecialCase
	logger *slog.Logger
}

func NewSpecialCaseIdentifier(logger *slog.Logger) *SpecialCaseIdentifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpecialCaseIdentifier{logger: logger}
}

// IsOptional reports whether node carries minOccurs="0".
func (sc *SpecialCaseIdentifier) IsOptional(node xmldom.Element) bool {
	if !hasAttr(node, "minOccurs") {
		return false
	}
	return IsOptionalOccurs(attr(node, "minOccurs"))
}

// IsOptionalOccurs reports whether a minOccurs value is zero.
func IsOptionalOccurs(minOccurs string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(minOccurs))
	return err == nil && n == 0
}

// IsSiblingChoice reports whether the parent of the choice node has more
// than one choice child.
func (sc *SpecialCaseIdentifier) IsSiblingChoice(node xmldom.Element) bool {
	parent := parentElement(node)
	if parent == nil {
		return false
	}
	return len(xsdChildrenNamed(parent, "choice")) > 1
}

// AllChildrenOptional reports whether node has children and every one of
// them is optional.
func (sc *SpecialCaseIdentifier) AllChildrenOptional(node xmldom.Element) bool {
	children := xsdChildren(node)
	if len(children) == 0 {
		return false
	}
	for _, child := range children {
		if !sc.IsOptional(child) {
			return false
		}
	}
	return true
}

type member struct {
	name, typ string
}

type chainStep struct {
	node     xmldom.Element
	element  bool
	members  []member
	optional []bool
}

// IsAnyOfChoice reports whether the children of a choice, ordered by size,
// form a chain where each step repeats every earlier member as optional and
// adds exactly one new required member.
func (sc *SpecialCaseIdentifier) IsAnyOfChoice(node xmldom.Element) bool {
	children := xsdChildren(node)
	if len(children) < 2 {
		return false
	}
	steps := make([]chainStep, 0, len(children))
	for _, child := range children {
		step, ok := sc.chainStep(child)
		if !ok {
			return false
		}
		steps = append(steps, step)
	}
	sort.SliceStable(steps, func(i, j int) bool {
		return len(steps[i].members) < len(steps[j].members)
	})

	first := steps[0]
	if !first.element || first.members[0].name == "" || first.members[0].typ == "" {
		return false
	}
	seen := []member{first.members[0]}
	for _, step := range steps[1:] {
		if len(step.members) != len(seen)+1 {
			return false
		}
		var added []member
		covered := 0
		for i, m := range step.members {
			if slices.Contains(seen, m) {
				if !step.optional[i] {
					return false
				}
				covered++
				continue
			}
			if step.optional[i] {
				return false
			}
			added = append(added, m)
		}
		if covered != len(seen) || len(added) != 1 {
			return false
		}
		seen = append(seen, added[0])
	}
	return true
}

func (sc *SpecialCaseIdentifier) chainStep(node xmldom.Element) (chainStep, bool) {
	switch localName(node) {
	case "element":
		return chainStep{
			node:     node,
			element:  true,
			members:  []member{elementMember(node)},
			optional: []bool{sc.IsOptional(node)},
		}, true
	case "sequence":
		step := chainStep{node: node}
		for _, child := range xsdChildren(node) {
			if localName(child) != "element" {
				return chainStep{}, false
			}
			step.members = append(step.members, elementMember(child))
			step.optional = append(step.optional, sc.IsOptional(child))
		}
		return step, len(step.members) > 0
	}
	return chainStep{}, false
}

func elementMember(node xmldom.Element) member {
	name := attr(node, "name")
	if name == "" {
		name = attr(node, "ref")
	}
	return member{name: name, typ: attr(node, "type")}
}

// AddSpecialCase queues a fix-up.
func (sc *SpecialCaseIdentifier) AddSpecialCase(c *SpecialCase) {
	sc.logger.Debug("special case found", "kind", c.Kind.String(), "node", localName(c.Node))
	sc.cases = append(sc.cases, c)
}

// Cases returns the queued fix-ups in discovery order.
func (sc *SpecialCaseIdentifier) Cases() []*SpecialCase {
	return append([]*SpecialCase(nil), sc.cases...)
}

// FixSpecialCases applies the queued fix-ups, most recently found first,
// and empties the queue.
func (sc *SpecialCaseIdentifier) FixSpecialCases() error {
	for len(sc.cases) > 0 {
		c := sc.cases[len(sc.cases)-1]
		sc.cases = sc.cases[:len(sc.cases)-1]
		var err error
		switch c.Kind {
		case AnyOfChoice:
			err = sc.FixAnyOfChoice(c)
		case OptionalChoice:
			err = sc.FixOptionalChoice(c)
		case OptionalSequence:
			err = sc.FixOptionalSequence(c)
		default:
			err = fmt.Errorf("special case %s: %w", c.Kind, ErrNotImplemented)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// FixAnyOfChoice replaces the oneOf branches of the choice with one anyOf
// branch per member of the largest branch, each requiring that member.
func (sc *SpecialCaseIdentifier) FixAnyOfChoice(c *SpecialCase) error {
	target := c.Target
	end := c.start + c.count
	if c.count <= 0 || end > len(target.OneOf) {
		return fmt.Errorf("any-of choice lost its %d oneOf branches: %w", c.count, ErrUnexpectedState)
	}
	// the largest branch holds every member
	union := target.OneOf[c.start]
	for _, branch := range target.OneOf[c.start+1 : end] {
		if branch.PropertyCount() > union.PropertyCount() {
			union = branch
		}
	}
	union.Required = nil

	branches := make([]*jsonschema.Schema, 0, union.PropertyCount())
	for _, name := range union.PropertyNames() {
		branch := jsonschema.New()
		for _, p := range union.PropertyNames() {
			prop, _ := union.Property(p)
			branch.SetProperty(p, prop.Clone())
		}
		branch.AddRequired(name)
		branches = append(branches, branch)
	}

	target.OneOf = slices.Delete(target.OneOf, c.start, end)
	if len(target.AnyOf) == 0 {
		target.AnyOf = branches
		return nil
	}
	target.AllOf = append(target.AllOf, &jsonschema.Schema{AnyOf: branches})
	return nil
}

// FixOptionalChoice lets the parent validate when the choice is absent by
// adding an always-valid alternative next to it.
func (sc *SpecialCaseIdentifier) FixOptionalChoice(c *SpecialCase) error {
	return sc.addTruthyAlternative(c)
}

// FixOptionalSequence is FixOptionalChoice for sequences and group
// references.
func (sc *SpecialCaseIdentifier) FixOptionalSequence(c *SpecialCase) error {
	return sc.addTruthyAlternative(c)
}

func (sc *SpecialCaseIdentifier) addTruthyAlternative(c *SpecialCase) error {
	if c.Parent == nil {
		return fmt.Errorf("%s without parent schema: %w", c.Kind, ErrUnexpectedState)
	}
	c.Parent.AnyOf = append(c.Parent.AnyOf, jsonschema.NewTruthy())
	return nil
}
