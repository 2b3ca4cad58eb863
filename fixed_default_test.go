package xsd2jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

func TestTypedValues(t *testing.T) {
	doc := convertOne(t, `
	<xs:complexType name="T">
		<xs:sequence>
			<xs:element name="on" type="xs:boolean" default="1"/>
			<xs:element name="ratio" type="xs:double" fixed="0.5"/>
			<xs:element name="label" type="xs:string" default=" padded "/>
		</xs:sequence>
	</xs:complexType>`, WithDraft(jsonschema.Draft07))

	props := lookup(t, typeAt(t, doc, "T"), "properties")
	assert.Equal(t, true, lookup(t, props, "on")["default"])
	assert.Equal(t, 0.5, lookup(t, props, "ratio")["const"])
	assert.Equal(t, " padded ", lookup(t, props, "label")["default"])
}
