package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-xsd2jsonschema"
	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

func newConvertCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "convert"}
	addConvertFlags(cmd)
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().String("color", "never", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "xsd2jsonschema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
draft: draft-07
namespaceMode: definitions
output: out
validate: false
check: true
`), 0o644))

	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, jsonschema.Draft07, cfg.Draft)
	assert.Equal(t, xsd2jsonschema.NamespaceModeDefinitions, cfg.NamespaceMode)
	assert.Equal(t, xsd2jsonschema.URIDialectRFC3986, cfg.URIDialect)
	assert.Equal(t, "out", cfg.Output)
	assert.False(t, cfg.Validate)
	assert.True(t, cfg.Check)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	cfg := defaultConfig()
	cfg.Draft = jsonschema.Draft07
	cfg.Output = "from-config"

	cmd := newConvertCmd(t, "--draft", "6", "--uri-dialect", "rfc2396", "--validate=false")
	require.NoError(t, applyFlags(cmd, &cfg))
	assert.Equal(t, jsonschema.Draft06, cfg.Draft)
	assert.Equal(t, xsd2jsonschema.URIDialectRFC2396, cfg.URIDialect)
	assert.False(t, cfg.Validate)
	// flags left at their defaults keep the configured values
	assert.Equal(t, "from-config", cfg.Output)
	assert.Equal(t, xsd2jsonschema.NamespaceModeNested, cfg.NamespaceMode)

	for _, args := range [][]string{
		{"--draft", "draft-05"},
		{"--namespace-mode", "tree"},
		{"--uri-dialect", "rfc1"},
	} {
		cfg := defaultConfig()
		assert.Error(t, applyFlags(newConvertCmd(t, args...), &cfg), args)
	}
}

func TestUseColor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, useColor(newConvertCmd(t), f))
	assert.True(t, useColor(newConvertCmd(t, "--color", "always"), f))
	// a regular file is never a terminal
	assert.False(t, useColor(newConvertCmd(t, "--color", "auto"), f))
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "order.xsd")
	require.NoError(t, os.WriteFile(src, []byte(`<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="http://example.com/order">
    <xs:element name="order">
        <xs:complexType>
            <xs:sequence>
                <xs:element name="id" type="xs:int"/>
            </xs:sequence>
        </xs:complexType>
    </xs:element>
</xs:schema>`), 0o644))
	out := filepath.Join(dir, "out")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"convert", "--color", "never", "--draft", "draft-07", "--check", "-o", out, src})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "order.json")

	data, err := os.ReadFile(filepath.Join(out, "order.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])
	assert.Equal(t, "order.json", doc["$id"])

	stdout.Reset()
	rootCmd.SetArgs([]string{"check", filepath.Join(out, "order.json")})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "order.json: ok")
}

func TestConvertCommandReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.xsd")
	require.NoError(t, os.WriteFile(src, []byte(`<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
    <xs:element name="e" type="missing:T"/>
</xs:schema>`), 0o644))

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"convert", "--color", "never", "-o", filepath.Join(dir, "out"), src})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr.String(), "error[E202]")
	assert.Contains(t, stderr.String(), "bad.xsd")
}
