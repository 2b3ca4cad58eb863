package xsd2jsonschema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// maxTotalDigits caps the run of nines totalDigits is rendered as; longer
// runs lose precision as JSON numbers.
const maxTotalDigits = 10

var facetHandlers = map[string]handlerFunc{
	"enumeration":      handleEnumeration,
	"pattern":          handlePattern,
	"length":           lengthFacet(true, true),
	"minLength":        lengthFacet(true, false),
	"maxLength":        lengthFacet(false, true),
	"minInclusive":     boundFacet(func(s *jsonschema.Schema, f float64) { s.Minimum = jsonschema.Float(f) }),
	"maxInclusive":     boundFacet(func(s *jsonschema.Schema, f float64) { s.Maximum = jsonschema.Float(f) }),
	"minExclusive":     boundFacet(func(s *jsonschema.Schema, f float64) { s.ExclusiveMinimum = jsonschema.Float(f) }),
	"maxExclusive":     boundFacet(func(s *jsonschema.Schema, f float64) { s.ExclusiveMaximum = jsonschema.Float(f) }),
	"totalDigits":      handleTotalDigits,
	"fractionDigits":   handleFractionDigits,
	"whiteSpace":       handleIgnoredFacet,
	"explicitTimezone": handleIgnoredFacet,
}

// facetTarget returns the schema a facet applies to. Facets are only valid
// inside a restriction.
func (v *ConversionVisitor) facetTarget(node xmldom.Element) (*jsonschema.Schema, error) {
	parent, err := v.parentName()
	if err != nil {
		return nil, err
	}
	if parent != "restriction" {
		return nil, unexpectedState(localName(node), parent)
	}
	return v.working, nil
}

func handleEnumeration(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	s, err := v.facetTarget(node)
	if err != nil {
		return false, err
	}
	s.AddEnum(typedValue(v.baseType(), rawAttr(node, "value")))
	return false, nil
}

// handlePattern combines every pattern facet of one restriction step into a
// single anchored alternation; the facets of one step are ORed together.
func handlePattern(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	s, err := v.facetTarget(node)
	if err != nil {
		return false, err
	}
	parent, err := v.parent()
	if err != nil {
		return false, err
	}
	if parent.patternsDone {
		return false, nil
	}
	parent.patternsDone = true

	var alternatives []string
	for _, p := range xsdChildrenNamed(parent.Node, "pattern") {
		alternatives = append(alternatives, convertXSDRegex(rawAttr(p, "value")))
	}
	body := alternatives[0]
	if len(alternatives) > 1 {
		body = "(?:" + strings.Join(alternatives, ")|(?:") + ")"
	}
	pattern := "^(?:" + body + ")$"

	// a pattern inherited from a built-in type must hold as well
	if s.Pattern != "" && s.Pattern != pattern {
		s.AllOf = append(s.AllOf, &jsonschema.Schema{Pattern: pattern})
		return false, nil
	}
	s.Pattern = pattern
	return false, nil
}

var nameCharClasses = map[byte]string{
	'i': "_:A-Za-zÀ-ÖØ-öø-˿Ͱ-ͽͿ-῿",
	'c': `\-.0-9` + "_:A-Za-z·À-ÖØ-öø-ͽͿ-῿",
}

// convertXSDRegex rewrites the parts of XML Schema regular expression syntax
// that ECMA 262 reads differently. XSD patterns are implicitly anchored, so
// ^ and $ are literals outside character classes.
func convertXSDRegex(pattern string) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '\\' && i+1 < len(pattern):
			i++
			next := pattern[i]
			switch next {
			case 'i', 'c':
				if depth > 0 {
					sb.WriteString(nameCharClasses[next])
				} else {
					sb.WriteString("[" + nameCharClasses[next] + "]")
				}
			case 'I', 'C':
				// negated name classes inside a character class are left as they are
				if depth > 0 {
					sb.WriteByte('\\')
					sb.WriteByte(next)
				} else {
					sb.WriteString("[^" + nameCharClasses[next+'a'-'A'] + "]")
				}
			default:
				sb.WriteByte('\\')
				sb.WriteByte(next)
			}
		case ch == '[':
			depth++
			sb.WriteByte(ch)
		case ch == ']' && depth > 0:
			depth--
			sb.WriteByte(ch)
		case (ch == '^' || ch == '$') && depth == 0:
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

func lengthFacet(setMin, setMax bool) handlerFunc {
	return func(v *ConversionVisitor, node xmldom.Element) (bool, error) {
		s, err := v.facetTarget(node)
		if err != nil {
			return false, err
		}
		n, err := strconv.Atoi(attr(node, "value"))
		if err != nil || n < 0 {
			return false, fmt.Errorf("invalid %s value %q", localName(node), attr(node, "value"))
		}
		// lengths of list types count items
		if v.baseType() == jsonschema.TypeArray {
			if setMin {
				s.MinItems = jsonschema.Int(n)
			}
			if setMax {
				s.MaxItems = jsonschema.Int(n)
			}
			return false, nil
		}
		if setMin {
			s.MinLength = jsonschema.Int(n)
		}
		if setMax {
			s.MaxLength = jsonschema.Int(n)
		}
		return false, nil
	}
}

func boundFacet(set func(*jsonschema.Schema, float64)) handlerFunc {
	return func(v *ConversionVisitor, node xmldom.Element) (bool, error) {
		s, err := v.facetTarget(node)
		if err != nil {
			return false, err
		}
		value := attr(node, "value")
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			// date and duration bounds have no JSON Schema keyword
			v.logger.Debug("non-numeric bound not converted", "facet", localName(node), "value", value, "file", v.xsd.Name)
			return false, nil
		}
		set(s, f)
		return false, nil
	}
}

func handleTotalDigits(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	s, err := v.facetTarget(node)
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(attr(node, "value"))
	if err != nil || n <= 0 {
		return false, fmt.Errorf("invalid totalDigits value %q", attr(node, "value"))
	}
	limit, _ := strconv.ParseFloat(strings.Repeat("9", min(n, maxTotalDigits)), 64)
	if s.Maximum == nil || *s.Maximum > limit {
		s.Maximum = jsonschema.Float(limit)
	}
	return false, nil
}

func handleFractionDigits(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	s, err := v.facetTarget(node)
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(attr(node, "value"))
	if err != nil || n < 0 {
		return false, fmt.Errorf("invalid fractionDigits value %q", attr(node, "value"))
	}
	if v.baseType() == jsonschema.TypeInteger {
		return false, nil
	}
	s.MultipleOf = jsonschema.Float(math.Pow10(-n))
	return false, nil
}

func handleIgnoredFacet(v *ConversionVisitor, node xmldom.Element) (bool, error) {
	if _, err := v.facetTarget(node); err != nil {
		return false, err
	}
	return false, nil
}
