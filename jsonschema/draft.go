package jsonschema

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Draft selects the JSON Schema dialect a Schema is rendered in.
type Draft int

const (
	Draft04 Draft = 4
	Draft06 Draft = 6
	Draft07 Draft = 7
)

// DefaultDraft is used when no draft is configured.
const DefaultDraft = Draft04

// ParseDraft accepts "4", "04", "draft-04", "draft04" and the like.
func ParseDraft(s string) (Draft, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "draft")
	v = strings.TrimPrefix(v, "-")
	v = strings.TrimLeft(v, "0")
	switch v {
	case "4":
		return Draft04, nil
	case "6":
		return Draft06, nil
	case "7":
		return Draft07, nil
	}
	return 0, fmt.Errorf("unknown json schema draft %q", s)
}

func (d Draft) String() string {
	return fmt.Sprintf("draft-%02d", int(d))
}

// URI is the $schema value written on document roots.
func (d Draft) URI() string {
	return fmt.Sprintf("http://json-schema.org/draft-%02d/schema#", int(d))
}

// Valid reports whether d is a supported draft.
func (d Draft) Valid() bool {
	_, ok := serializers[d]
	return ok
}

// UnmarshalText lets a Draft be read from configuration files.
func (d *Draft) UnmarshalText(text []byte) error {
	v, err := ParseDraft(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalText renders the draft as "draft-0N".
func (d Draft) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type object = sequencedmap.Map[string, any]

// keywordWriter renders one group of keywords of s into out.
type keywordWriter func(ctx *flattenContext, s *Schema, out *object)

type serializer struct {
	idKeyword string
	writers   []keywordWriter
}

var serializers = map[Draft]*serializer{
	Draft04: newSerializer("id", writeConstAsEnum, writeBoundsWithFlags),
	Draft06: newSerializer("$id", writeConstAndEnum, writeBoundsAsNumbers),
	Draft07: newSerializer("$id", writeConstAndEnum, writeBoundsAsNumbers),
}

func newSerializer(idKeyword string, values, bounds keywordWriter) *serializer {
	return &serializer{
		idKeyword: idKeyword,
		writers: []keywordWriter{
			writeHeader,
			writeRef,
			writeAnnotations,
			values,
			writeMultipleOf,
			bounds,
			writeStringKeywords,
			writeArrayKeywords,
			writeObjectKeywords,
			writeComposition,
			writeSubSchemas,
		},
	}
}

func serializerFor(d Draft) *serializer {
	if s, ok := serializers[d]; ok {
		return s
	}
	return serializers[DefaultDraft]
}

func writeHeader(ctx *flattenContext, s *Schema, out *object) {
	if !s.document {
		return
	}
	out.Set("$schema", ctx.draft.URI())
	if s.ID != "" {
		out.Set(ctx.serializer.idKeyword, s.ID)
	}
}

func writeRef(ctx *flattenContext, s *Schema, out *object) {
	if s.ref != nil {
		out.Set("$ref", s.ref.refString(ctx.doc))
	}
}

func writeAnnotations(_ *flattenContext, s *Schema, out *object) {
	if s.Title != "" {
		out.Set("title", s.Title)
	}
	if s.Description != "" {
		out.Set("description", s.Description)
	}
	if s.Type != "" {
		out.Set("type", s.Type)
	}
	if s.Format != "" {
		out.Set("format", s.Format)
	}
	if s.Default != nil {
		out.Set("default", s.Default)
	}
}

// Draft-04 has no const keyword.
func writeConstAsEnum(_ *flattenContext, s *Schema, out *object) {
	switch {
	case s.Const != nil:
		out.Set("enum", []any{s.Const})
	case len(s.Enum) > 0:
		out.Set("enum", s.Enum)
	}
}

func writeConstAndEnum(_ *flattenContext, s *Schema, out *object) {
	if s.Const != nil {
		out.Set("const", s.Const)
	}
	if len(s.Enum) > 0 {
		out.Set("enum", s.Enum)
	}
}

func writeMultipleOf(_ *flattenContext, s *Schema, out *object) {
	if s.MultipleOf != nil {
		out.Set("multipleOf", *s.MultipleOf)
	}
}

// Draft-04 exclusive bounds are a boolean modifier on minimum/maximum.
func writeBoundsWithFlags(_ *flattenContext, s *Schema, out *object) {
	switch {
	case s.ExclusiveMinimum != nil:
		out.Set("minimum", *s.ExclusiveMinimum)
		out.Set("exclusiveMinimum", true)
	case s.Minimum != nil:
		out.Set("minimum", *s.Minimum)
	}
	switch {
	case s.ExclusiveMaximum != nil:
		out.Set("maximum", *s.ExclusiveMaximum)
		out.Set("exclusiveMaximum", true)
	case s.Maximum != nil:
		out.Set("maximum", *s.Maximum)
	}
}

func writeBoundsAsNumbers(_ *flattenContext, s *Schema, out *object) {
	if s.Minimum != nil {
		out.Set("minimum", *s.Minimum)
	}
	if s.ExclusiveMinimum != nil {
		out.Set("exclusiveMinimum", *s.ExclusiveMinimum)
	}
	if s.Maximum != nil {
		out.Set("maximum", *s.Maximum)
	}
	if s.ExclusiveMaximum != nil {
		out.Set("exclusiveMaximum", *s.ExclusiveMaximum)
	}
}

func writeStringKeywords(_ *flattenContext, s *Schema, out *object) {
	if s.MinLength != nil {
		out.Set("minLength", *s.MinLength)
	}
	if s.MaxLength != nil {
		out.Set("maxLength", *s.MaxLength)
	}
	if s.Pattern != "" {
		out.Set("pattern", s.Pattern)
	}
}

func writeArrayKeywords(ctx *flattenContext, s *Schema, out *object) {
	if s.Items != nil {
		out.Set("items", s.Items.flatten(ctx))
	}
	if s.AdditionalItems != nil {
		out.Set("additionalItems", s.AdditionalItems.flatten(ctx))
	}
	if s.MinItems != nil {
		out.Set("minItems", *s.MinItems)
	}
	if s.MaxItems != nil {
		out.Set("maxItems", *s.MaxItems)
	}
	if s.UniqueItems {
		out.Set("uniqueItems", true)
	}
}

func writeObjectKeywords(ctx *flattenContext, s *Schema, out *object) {
	if len(s.Required) > 0 {
		out.Set("required", s.Required)
	}
	if s.properties.Len() > 0 {
		out.Set("properties", flattenMap(ctx, s.properties))
	}
	if s.patternProperties.Len() > 0 {
		out.Set("patternProperties", flattenMap(ctx, s.patternProperties))
	}
	if s.AdditionalProperties != nil {
		out.Set("additionalProperties", s.AdditionalProperties.flatten(ctx))
	}
	if s.dependencies.Len() > 0 {
		deps := sequencedmap.New[string, any]()
		for name, dep := range s.dependencies.All() {
			if sub, ok := dep.(*Schema); ok {
				deps.Set(name, sub.flatten(ctx))
				continue
			}
			deps.Set(name, dep)
		}
		out.Set("dependencies", deps)
	}
	if s.MinProperties != nil {
		out.Set("minProperties", *s.MinProperties)
	}
	if s.MaxProperties != nil {
		out.Set("maxProperties", *s.MaxProperties)
	}
}

func writeComposition(ctx *flattenContext, s *Schema, out *object) {
	if len(s.AllOf) > 0 {
		out.Set("allOf", flattenList(ctx, s.AllOf))
	}
	if len(s.AnyOf) > 0 {
		out.Set("anyOf", flattenList(ctx, s.AnyOf))
	}
	if len(s.OneOf) > 0 {
		out.Set("oneOf", flattenList(ctx, s.OneOf))
	}
	if s.Not != nil {
		out.Set("not", s.Not.flatten(ctx))
	}
}

var keywords = map[string]bool{
	"$schema": true, "id": true, "$id": true, "$ref": true,
	"title": true, "description": true, "type": true, "format": true, "default": true,
	"const": true, "enum": true, "multipleOf": true,
	"minimum": true, "maximum": true, "exclusiveMinimum": true, "exclusiveMaximum": true,
	"minLength": true, "maxLength": true, "pattern": true,
	"items": true, "additionalItems": true, "minItems": true, "maxItems": true, "uniqueItems": true,
	"required": true, "properties": true, "patternProperties": true, "additionalProperties": true,
	"dependencies": true, "minProperties": true, "maxProperties": true,
	"allOf": true, "anyOf": true, "oneOf": true, "not": true,
}

// IsKeyword reports whether name is a keyword some draft writes. A
// subschema stored under such a name would clash with it.
func IsKeyword(name string) bool {
	return keywords[name]
}

// EscapeSegment makes name safe to use as a subschema name: keywords, and
// names that would collide with an escaped keyword, gain a leading
// underscore.
func EscapeSegment(name string) string {
	if IsKeyword(strings.TrimLeft(name, "_")) {
		return "_" + name
	}
	return name
}

func writeSubSchemas(ctx *flattenContext, s *Schema, out *object) {
	for name, sub := range s.subSchemas.All() {
		if out.Has(name) {
			continue
		}
		out.Set(name, sub.flatten(ctx))
	}
}
