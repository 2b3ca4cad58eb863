package xsd2jsonschema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/agentflare-ai/go-xmldom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstNamed returns the first element named local below root, depth first.
func firstNamed(root xmldom.Element, local string) xmldom.Element {
	for _, child := range elementChildren(root) {
		if localName(child) == local {
			return child
		}
		if found := firstNamed(child, local); found != nil {
			return found
		}
	}
	return nil
}

func choiceOf(t *testing.T, branches ...string) xmldom.Element {
	t.Helper()
	f := parseXSD(t, "choice.xsd", testSchema(`
	<xs:complexType name="T">
		<xs:sequence>
			<xs:choice>`+strings.Join(branches, "\n")+`</xs:choice>
		</xs:sequence>
	</xs:complexType>`))
	choice := firstNamed(f.Root(), "choice")
	require.NotNil(t, choice)
	return choice
}

const (
	stepA   = `<xs:element name="a" type="xs:string"/>`
	stepAB  = `<xs:sequence><xs:element name="a" type="xs:string" minOccurs="0"/><xs:element name="b" type="xs:string"/></xs:sequence>`
	stepABC = `<xs:sequence><xs:element name="a" type="xs:string" minOccurs="0"/><xs:element name="b" type="xs:string" minOccurs="0"/><xs:element name="c" type="xs:string"/></xs:sequence>`
)

func permutations(items []string) [][]string {
	if len(items) <= 1 {
		return [][]string{append([]string(nil), items...)}
	}
	var out [][]string
	for i := range items {
		rest := append(append([]string(nil), items[:i]...), items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{items[i]}, p...))
		}
	}
	return out
}

func TestIsAnyOfChoiceCanonical(t *testing.T) {
	sc := NewSpecialCaseIdentifier(nil)
	for _, order := range permutations([]string{stepA, stepAB, stepABC}) {
		assert.True(t, sc.IsAnyOfChoice(choiceOf(t, order...)), "order %v", order)
	}
}

func TestIsAnyOfChoiceRejectsBrokenChains(t *testing.T) {
	sc := NewSpecialCaseIdentifier(nil)
	tests := []struct {
		name     string
		branches []string
	}{
		{"single branch", []string{stepA}},
		{"plain choice", []string{stepA, `<xs:element name="b" type="xs:string"/>`}},
		{"gap in chain", []string{stepA, stepABC}},
		{"earlier member required", []string{stepA,
			`<xs:sequence><xs:element name="a" type="xs:string"/><xs:element name="b" type="xs:string"/></xs:sequence>`}},
		{"new member optional", []string{stepA,
			`<xs:sequence><xs:element name="a" type="xs:string" minOccurs="0"/><xs:element name="b" type="xs:string" minOccurs="0"/></xs:sequence>`}},
		{"earlier member missing", []string{stepA,
			`<xs:sequence><xs:element name="x" type="xs:string" minOccurs="0"/><xs:element name="b" type="xs:string"/></xs:sequence>`}},
		{"type differs", []string{stepA,
			`<xs:sequence><xs:element name="a" type="xs:int" minOccurs="0"/><xs:element name="b" type="xs:string"/></xs:sequence>`}},
		{"untyped first member", []string{`<xs:element name="a"/>`,
			`<xs:sequence><xs:element name="a" minOccurs="0"/><xs:element name="b"/></xs:sequence>`}},
		{"nested choice", []string{stepA, `<xs:choice>` + stepAB + `</xs:choice>`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, order := range permutations(tt.branches) {
				assert.False(t, sc.IsAnyOfChoice(choiceOf(t, order...)), "order %v", order)
			}
		})
	}
}

func TestIsSiblingChoice(t *testing.T) {
	sc := NewSpecialCaseIdentifier(nil)
	for n := 1; n <= 3; n++ {
		t.Run(fmt.Sprintf("%d choices", n), func(t *testing.T) {
			var sb strings.Builder
			for i := 0; i < n; i++ {
				fmt.Fprintf(&sb, `<xs:choice><xs:element name="a%d" type="xs:string"/><xs:element name="b%d" type="xs:string"/></xs:choice>`, i, i)
			}
			f := parseXSD(t, "siblings.xsd", testSchema(`
			<xs:complexType name="T"><xs:sequence>`+sb.String()+`</xs:sequence></xs:complexType>`))
			seq := firstNamed(f.Root(), "sequence")
			require.NotNil(t, seq)
			for _, choice := range xsdChildrenNamed(seq, "choice") {
				assert.Equal(t, n > 1, sc.IsSiblingChoice(choice))
			}
		})
	}
}

func TestIsOptional(t *testing.T) {
	assert.True(t, IsOptionalOccurs("0"))
	assert.True(t, IsOptionalOccurs(" 0 "))
	assert.False(t, IsOptionalOccurs("1"))
	assert.False(t, IsOptionalOccurs(""))
	assert.False(t, IsOptionalOccurs("unbounded"))

	sc := NewSpecialCaseIdentifier(nil)
	choice := choiceOf(t, `<xs:element name="a" type="xs:string" minOccurs="0"/>`, `<xs:element name="b" type="xs:string" minOccurs="0"/>`)
	assert.False(t, sc.IsOptional(choice))
	assert.True(t, sc.AllChildrenOptional(choice))
	for _, child := range xsdChildren(choice) {
		assert.True(t, sc.IsOptional(child))
	}

	choice = choiceOf(t, `<xs:element name="a" type="xs:string" minOccurs="0"/>`, `<xs:element name="b" type="xs:string"/>`)
	assert.False(t, sc.AllChildrenOptional(choice))
}

func TestAnyOfChoiceConversion(t *testing.T) {
	doc := convertOne(t, `
	<xs:complexType name="T">
		<xs:sequence>
			<xs:choice>`+stepABC+stepAB+stepA+`</xs:choice>
		</xs:sequence>
	</xs:complexType>`)

	typ := typeAt(t, doc, "T")
	assert.NotContains(t, typ, "oneOf")
	anyOf, ok := typ["anyOf"].([]any)
	require.True(t, ok)
	require.Len(t, anyOf, 3)

	props := map[string]any{
		"a": map[string]any{"type": "string"},
		"b": map[string]any{"type": "string"},
		"c": map[string]any{"type": "string"},
	}
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, map[string]any{
			"required":   []any{name},
			"properties": props,
		}, anyOf[i])
	}
}

func TestSiblingChoicesConversion(t *testing.T) {
	doc := convertOne(t, `
	<xs:complexType name="T">
		<xs:sequence>
			<xs:choice>
				<xs:element name="a" type="xs:string"/>
				<xs:element name="b" type="xs:string"/>
			</xs:choice>
			<xs:choice>
				<xs:element name="c" type="xs:string"/>
				<xs:element name="d" type="xs:string"/>
			</xs:choice>
		</xs:sequence>
	</xs:complexType>`)

	typ := typeAt(t, doc, "T")
	allOf, ok := typ["allOf"].([]any)
	require.True(t, ok)
	require.Len(t, allOf, 2)
	for i, names := range [][]string{{"a", "b"}, {"c", "d"}} {
		oneOf := allOf[i].(map[string]any)["oneOf"].([]any)
		require.Len(t, oneOf, 2)
		for j, name := range names {
			assert.Equal(t, []any{name}, oneOf[j].(map[string]any)["required"])
		}
	}
}

func TestOptionalChoiceOfOptionalElements(t *testing.T) {
	doc := convertOne(t, `
	<xs:complexType name="T">
		<xs:sequence>
			<xs:choice minOccurs="0">
				<xs:element name="a" type="xs:string" minOccurs="0"/>
				<xs:element name="b" type="xs:string" minOccurs="0"/>
			</xs:choice>
		</xs:sequence>
	</xs:complexType>`)

	anyOf := typeAt(t, doc, "T")["anyOf"].([]any)
	require.Len(t, anyOf, 2)
	assert.Equal(t, map[string]any{
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "string"},
		},
	}, anyOf[0])
	assert.Equal(t, map[string]any{}, anyOf[1])
}

func TestOptionalSequenceAndGroup(t *testing.T) {
	doc := convertOne(t, `
	<xs:group name="Extra">
		<xs:sequence>
			<xs:element name="x" type="xs:string"/>
		</xs:sequence>
	</xs:group>
	<xs:complexType name="T">
		<xs:sequence>
			<xs:element name="a" type="xs:string"/>
			<xs:sequence minOccurs="0">
				<xs:element name="b" type="xs:string"/>
			</xs:sequence>
			<xs:group ref="tns:Extra" minOccurs="0"/>
		</xs:sequence>
	</xs:complexType>`)

	typ := typeAt(t, doc, "T")
	assert.Equal(t, []any{"a"}, typ["required"])
	anyOf := typ["anyOf"].([]any)
	require.Len(t, anyOf, 4)
	assert.Equal(t, map[string]any{
		"required":   []any{"b"},
		"properties": map[string]any{"b": map[string]any{"type": "string"}},
	}, anyOf[0])
	assert.Equal(t, map[string]any{
		"allOf": []any{map[string]any{"$ref": "#/example.com/test/Extra"}},
	}, anyOf[1])
	assert.Equal(t, map[string]any{}, anyOf[2])
	assert.Equal(t, map[string]any{}, anyOf[3])

	group := typeAt(t, doc, "Extra")
	assert.Equal(t, "object", group["type"])
	assert.Equal(t, []any{"x"}, group["required"])
}

func TestSpecialCaseKindString(t *testing.T) {
	assert.Equal(t, "ANY_OF_CHOICE", AnyOfChoice.String())
	assert.Equal(t, "OPTIONAL_CHOICE", OptionalChoice.String())
	assert.Equal(t, "OPTIONAL_SEQUENCE", OptionalSequence.String())
	assert.Equal(t, "SpecialCaseKind(9)", SpecialCaseKind(9).String())
}

func TestFixSpecialCasesWithoutParent(t *testing.T) {
	sc := NewSpecialCaseIdentifier(nil)
	f := parseXSD(t, "c.xsd", testSchema(`<xs:element name="a" type="xs:string"/>`))
	sc.AddSpecialCase(&SpecialCase{Kind: OptionalChoice, Node: f.Root()})
	require.Len(t, sc.Cases(), 1)
	assert.ErrorIs(t, sc.FixSpecialCases(), ErrUnexpectedState)
}
