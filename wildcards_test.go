package xsd2jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWildcards(t *testing.T) {
	doc := convertOne(t, `
	<xs:complexType name="Open">
		<xs:sequence>
			<xs:element name="known" type="xs:string"/>
			<xs:any namespace="##other" processContents="lax" minOccurs="0"/>
		</xs:sequence>
		<xs:anyAttribute namespace="##any" processContents="skip"/>
	</xs:complexType>`)

	open := typeAt(t, doc, "Open")
	assert.Equal(t, true, open["additionalProperties"])
	assert.Equal(t, map[string]any{"^@": map[string]any{}}, open["patternProperties"])
	assert.Contains(t, lookup(t, open, "properties"), "known")
}

func TestWildcardInChoiceNotImplemented(t *testing.T) {
	src := testSchema(`
	<xs:complexType name="T">
		<xs:choice>
			<xs:any/>
			<xs:element name="a" type="xs:string"/>
		</xs:choice>
	</xs:complexType>`)
	_, err := New().Convert(parseXSD(t, "test.xsd", src))
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestParseProcessContents(t *testing.T) {
	tests := map[string]ProcessContentsMode{
		"":       StrictProcess,
		"strict": StrictProcess,
		"lax":    LaxProcess,
		"skip":   SkipProcess,
	}
	for in, want := range tests {
		got, err := ParseProcessContents(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseProcessContents("loose")
	assert.Error(t, err)
}

func TestParseNamespaceConstraint(t *testing.T) {
	assert.Equal(t, &WildcardNamespaceConstraint{Mode: "##any"}, ParseNamespaceConstraint(""))
	assert.Equal(t, &WildcardNamespaceConstraint{Mode: "##other"}, ParseNamespaceConstraint("##other"))

	list := ParseNamespaceConstraint("urn:a  urn:b")
	assert.Equal(t, "list", list.Mode)
	assert.Equal(t, []string{"urn:a", "urn:b"}, list.Namespaces)
	assert.Equal(t, "urn:a urn:b", list.String())
	assert.Equal(t, "##local", ParseNamespaceConstraint("##local").String())
}
