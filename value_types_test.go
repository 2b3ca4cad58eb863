package xsd2jsonschema

import (
	"strings"
	"testing"

	"github.com/agentflare-ai/go-xmldom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

const (
	declInt      = `<xs:simpleType name="A"><xs:restriction base="xs:int"/></xs:simpleType>`
	declLevel    = `<xs:simpleType name="B"><xs:restriction base="tns:A"><xs:enumeration value="1"/><xs:enumeration value=" 2 "/></xs:restriction></xs:simpleType>`
	declWords    = `<xs:simpleType name="Words"><xs:list itemType="xs:string"/></xs:simpleType>`
	declFewWords = `<xs:simpleType name="FewWords"><xs:restriction base="tns:Words"><xs:minLength value="1"/><xs:maxLength value="3"/></xs:restriction></xs:simpleType>`
	declHolder   = `<xs:complexType name="Holder">
		<xs:sequence>
			<xs:element name="n" type="tns:A" default="5"/>
			<xs:element name="b" type="tns:B" fixed="2"/>
		</xs:sequence>
		<xs:attribute ref="tns:size" default="4"/>
	</xs:complexType>`
	declCount = `<xs:element name="count" type="tns:A" default="7"/>`
	declSize  = `<xs:attribute name="size" type="tns:B"/>`
)

func TestValueTypingIgnoresDeclarationOrder(t *testing.T) {
	for _, order := range permutations([]string{declInt, declLevel, declHolder, declCount, declSize}) {
		doc := convertOne(t, strings.Join(order, "\n"), WithDraft(jsonschema.Draft07))

		assert.Equal(t, []any{
			map[string]any{"$ref": "#/example.com/test/A"},
			map[string]any{"enum": []any{float64(1), float64(2)}},
		}, typeAt(t, doc, "B")["allOf"])
		assert.Equal(t, float64(7), typeAt(t, doc, "count")["default"])

		props := lookup(t, typeAt(t, doc, "Holder"), "properties")
		assert.Equal(t, float64(5), lookup(t, props, "n")["default"])
		assert.Equal(t, float64(2), lookup(t, props, "b")["const"])
		assert.Equal(t, float64(4), lookup(t, props, "@size")["default"])
	}
}

func TestListLengthIgnoresDeclarationOrder(t *testing.T) {
	for _, order := range permutations([]string{declWords, declFewWords}) {
		doc := convertOne(t, strings.Join(order, "\n"))
		assert.Equal(t, []any{
			map[string]any{"$ref": "#/example.com/test/Words"},
			map[string]any{"minItems": float64(1), "maxItems": float64(3)},
		}, typeAt(t, doc, "FewWords")["allOf"])
	}
}

func TestValueTypingAcrossDocuments(t *testing.T) {
	user := parseXSD(t, "user.xsd", `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:b="urn:base"
           targetNamespace="urn:user">
	<xs:simpleType name="Small">
		<xs:restriction base="b:Num"><xs:enumeration value="3"/></xs:restriction>
	</xs:simpleType>
</xs:schema>`)
	base := parseXSD(t, "base.xsd", `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="urn:base">
	<xs:simpleType name="Num"><xs:restriction base="xs:decimal"/></xs:simpleType>
</xs:schema>`)

	result := convert(t, nil, user, base)
	doc := renderDoc(t, result.Documents[0])
	small := lookup(t, doc, "user", "Small")
	assert.Equal(t, []any{
		map[string]any{"$ref": "base.json#/base/Num"},
		map[string]any{"enum": []any{float64(3)}},
	}, small["allOf"])
}

func TestBooleanEnumerations(t *testing.T) {
	doc := convertOne(t, `
	<xs:simpleType name="Yes">
		<xs:restriction base="tns:Flag">
			<xs:enumeration value="true"/>
			<xs:enumeration value="1"/>
		</xs:restriction>
	</xs:simpleType>
	<xs:simpleType name="Flag">
		<xs:restriction base="xs:boolean">
			<xs:enumeration value="false"/>
		</xs:restriction>
	</xs:simpleType>`)

	assert.Equal(t, []any{false}, typeAt(t, doc, "Flag")["enum"])
	assert.Equal(t, []any{
		map[string]any{"$ref": "#/example.com/test/Flag"},
		map[string]any{"enum": []any{true}},
	}, typeAt(t, doc, "Yes")["allOf"])
}

func TestValueTypeOfDeclarations(t *testing.T) {
	f := parseXSD(t, "test.xsd", testSchema(`
	<xs:element name="e" type="tns:Later"/>
	<xs:element name="inline">
		<xs:complexType>
			<xs:simpleContent>
				<xs:extension base="xs:double"/>
			</xs:simpleContent>
		</xs:complexType>
	</xs:element>
	<xs:attribute name="on" type="xs:boolean"/>
	<xs:simpleType name="Later"><xs:restriction base="tns:Loop"/></xs:simpleType>
	<xs:simpleType name="Loop"><xs:restriction base="tns:Later"/></xs:simpleType>
	<xs:simpleType name="Either"><xs:union memberTypes="xs:int xs:string"/></xs:simpleType>
	<xs:simpleType name="Nested">
		<xs:restriction>
			<xs:simpleType><xs:restriction base="xs:short"/></xs:simpleType>
		</xs:restriction>
	</xs:simpleType>`))
	vt := newValueTypes(f)

	typeOf := func(table map[QName]declaration, name string) string {
		d, ok := table[QName{Namespace: "http://example.com/test", Local: name}]
		require.True(t, ok, name)
		return vt.of(d, make(map[xmldom.Element]bool))
	}
	assert.Empty(t, typeOf(vt.elements, "e"))
	assert.Equal(t, jsonschema.TypeNumber, typeOf(vt.elements, "inline"))
	assert.Equal(t, jsonschema.TypeBoolean, typeOf(vt.attributes, "on"))
	assert.Empty(t, typeOf(vt.types, "Either"))
	assert.Equal(t, jsonschema.TypeInteger, typeOf(vt.types, "Nested"))
}

func TestTypedValue(t *testing.T) {
	assert.Equal(t, true, typedValue(jsonschema.TypeBoolean, " 1 "))
	assert.Equal(t, false, typedValue(jsonschema.TypeBoolean, "false"))
	assert.Equal(t, "yes", typedValue(jsonschema.TypeBoolean, "yes"))
	assert.Equal(t, 2.5, typedValue(jsonschema.TypeNumber, "2.5"))
	assert.Equal(t, "INF", typedValue(jsonschema.TypeNumber, "INF"))
	assert.Equal(t, " 3 ", typedValue(jsonschema.TypeString, " 3 "))
}
