package xsd2jsonschema

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributes(t *testing.T) {
	doc := convertOne(t, `
	<xs:attribute name="lang" type="xs:language"/>
	<xs:complexType name="T">
		<xs:sequence>
			<xs:element name="v" type="xs:string"/>
		</xs:sequence>
		<xs:attribute name="id" type="xs:string" use="required"/>
		<xs:attribute name="count" type="xs:int" default="1"/>
		<xs:attribute name="old" type="xs:string" use="prohibited"/>
		<xs:attribute name="size">
			<xs:simpleType>
				<xs:restriction base="xs:string">
					<xs:enumeration value="S"/>
					<xs:enumeration value="L"/>
				</xs:restriction>
			</xs:simpleType>
		</xs:attribute>
		<xs:attribute ref="tns:lang"/>
	</xs:complexType>`)

	typ := typeAt(t, doc, "T")
	props := lookup(t, typ, "properties")
	assert.Equal(t, map[string]any{"type": "string"}, props["@id"])
	assert.Equal(t, map[string]any{
		"type":    "integer",
		"minimum": float64(-2147483648),
		"maximum": float64(2147483647),
		"default": float64(1),
	}, props["@count"])
	assert.Equal(t, map[string]any{"type": "string", "enum": []any{"S", "L"}}, props["@size"])
	assert.Equal(t, "string", lookup(t, props, "@lang")["type"])
	assert.NotContains(t, props, "@old")
	assert.Contains(t, props, "v")
	assert.ElementsMatch(t, []any{"v", "@id"}, typ["required"])

	global := typeAt(t, doc, "@lang")
	assert.Equal(t, "string", global["type"])
}

func TestAttributeReferenceBeforeDefinition(t *testing.T) {
	doc := convertOne(t, `
	<xs:complexType name="T">
		<xs:attribute ref="tns:unit" use="required"/>
	</xs:complexType>
	<xs:attribute name="unit" type="xs:string"/>`)

	typ := typeAt(t, doc, "T")
	assert.Equal(t, map[string]any{"$ref": "#/example.com/test/@unit"}, lookup(t, typ, "properties", "@unit"))
	assert.Equal(t, []any{"@unit"}, typ["required"])
}

func TestAttributeGroups(t *testing.T) {
	doc := convertOne(t, `
	<xs:attributeGroup name="Common">
		<xs:attribute name="id" type="xs:string"/>
	</xs:attributeGroup>
	<xs:complexType name="T">
		<xs:attributeGroup ref="tns:Common"/>
		<xs:attribute name="extra" type="xs:string"/>
	</xs:complexType>`)

	common := typeAt(t, doc, "Common")
	assert.Equal(t, map[string]any{"type": "string"}, lookup(t, common, "properties", "@id"))

	typ := typeAt(t, doc, "T")
	assert.Equal(t, []any{map[string]any{"$ref": "#/example.com/test/Common"}}, typ["allOf"])
	assert.Contains(t, lookup(t, typ, "properties"), "@extra")
}

func TestAttributeInsideSequence(t *testing.T) {
	src := testSchema(`
	<xs:complexType name="T">
		<xs:sequence>
			<xs:attribute name="a" type="xs:string"/>
		</xs:sequence>
	</xs:complexType>`)
	_, err := New().Convert(parseXSD(t, "test.xsd", src))
	assert.ErrorIs(t, err, ErrUnexpectedState)
}

func TestRedeclaredAttributeKeepsLast(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	doc := convertOne(t, `
	<xs:attributeGroup name="G">
		<xs:attribute name="id" type="xs:string" use="required"/>
		<xs:attribute name="id" type="xs:int" use="required"/>
	</xs:attributeGroup>`, WithLogger(logger))

	g := typeAt(t, doc, "G")
	assert.Equal(t, "integer", lookup(t, g, "properties", "@id")["type"])
	assert.Equal(t, []any{"@id"}, g["required"])
	assert.Contains(t, logs.String(), "attribute declared twice")
}
