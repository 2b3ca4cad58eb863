package xsd2jsonschema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

func TestLoadOptions(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(`
draft: draft-07
namespaceMode: definitions
uriDialect: rfc2396
`))
	require.NoError(t, err)
	assert.Equal(t, jsonschema.Draft07, opts.Draft)
	assert.Equal(t, NamespaceModeDefinitions, opts.NamespaceMode)
	assert.Equal(t, URIDialectRFC2396, opts.URIDialect)
}

func TestLoadOptionsDefaults(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	opts, err = LoadOptions(strings.NewReader("namespaceMode: definitions\n"))
	require.NoError(t, err)
	assert.Equal(t, jsonschema.DefaultDraft, opts.Draft)
	assert.Equal(t, NamespaceModeDefinitions, opts.NamespaceMode)
}

func TestLoadOptionsErrors(t *testing.T) {
	for _, src := range []string{
		"draft: draft-05\n",
		"namespaceMode: sideways\n",
		"uriDialect: rfc1738\n",
		"draft: [\n",
	} {
		_, err := LoadOptions(strings.NewReader(src))
		assert.Error(t, err, src)
	}
}

func TestParseNamespaceMode(t *testing.T) {
	for in, want := range map[string]NamespaceMode{
		"nested":      NamespaceModeNested,
		"":            NamespaceModeNested,
		"Definitions": NamespaceModeDefinitions,
		"flat":        NamespaceModeDefinitions,
	} {
		got, err := ParseNamespaceMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseNamespaceMode("tree")
	assert.Error(t, err)

	text, err := NamespaceModeDefinitions.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "definitions", string(text))
}

func TestParseURIDialect(t *testing.T) {
	got, err := ParseURIDialect(" RFC2396 ")
	require.NoError(t, err)
	assert.Equal(t, URIDialectRFC2396, got)
	assert.Equal(t, "rfc2396", got.String())
	assert.Equal(t, "rfc3986", URIDialectRFC3986.String())

	_, err = ParseURIDialect("rfc1")
	assert.Error(t, err)
}

func TestOptionFuncs(t *testing.T) {
	c := New(WithDraft(jsonschema.Draft06), WithNamespaceMode(NamespaceModeDefinitions), WithURIDialect(URIDialectRFC2396))
	assert.Equal(t, jsonschema.Draft06, c.Options().Draft)
	assert.Equal(t, NamespaceModeDefinitions, c.Options().NamespaceMode)
	assert.Equal(t, URIDialectRFC2396, c.Options().URIDialect)

	base := DefaultOptions()
	base.Draft = jsonschema.Draft07
	c = New(WithOptions(base))
	assert.Equal(t, jsonschema.Draft07, c.Options().Draft)
}
