package jsonschema

import (
	"encoding/json"
	"reflect"
	"slices"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// IsBlank reports whether s carries nothing at all: no keyword, no
// collection entry, no subschema and no reference. Blank schemas are pruned
// from allOf/anyOf/oneOf.
func (s *Schema) IsBlank() bool {
	if s == nil {
		return true
	}
	return !s.truthy && s.ref == nil && s.subSchemas.Len() == 0 && s.keywordsEmpty()
}

func (s *Schema) isPureReference() bool {
	return s.ref != nil && s.subSchemas.Len() == 0 && s.keywordsEmpty()
}

func (s *Schema) keywordsEmpty() bool {
	return s.Title == "" && s.Description == "" && s.Type == "" && s.Format == "" &&
		s.Default == nil && s.Const == nil && len(s.Enum) == 0 &&
		s.MultipleOf == nil && s.Minimum == nil && s.Maximum == nil &&
		s.ExclusiveMinimum == nil && s.ExclusiveMaximum == nil &&
		s.MinLength == nil && s.MaxLength == nil && s.Pattern == "" &&
		s.Items == nil && s.AdditionalItems == nil && s.MinItems == nil && s.MaxItems == nil && !s.UniqueItems &&
		len(s.Required) == 0 && s.AdditionalProperties == nil && s.MinProperties == nil && s.MaxProperties == nil &&
		s.properties.Len() == 0 && s.patternProperties.Len() == 0 && s.dependencies.Len() == 0 &&
		len(s.AllOf) == 0 && len(s.AnyOf) == 0 && len(s.OneOf) == 0 && s.Not == nil
}

// PruneBlank returns list without its blank members.
func PruneBlank(list []*Schema) []*Schema {
	if len(list) == 0 {
		return list
	}
	return slices.DeleteFunc(slices.Clone(list), (*Schema).IsBlank)
}

// Prune removes blank members from every allOf/anyOf/oneOf below and
// including s, deepest first.
func (s *Schema) Prune() {
	if s == nil {
		return
	}
	for _, child := range s.children() {
		child.Prune()
	}
	s.AllOf = PruneBlank(s.AllOf)
	s.AnyOf = PruneBlank(s.AnyOf)
	s.OneOf = PruneBlank(s.OneOf)
}

func (s *Schema) children() []*Schema {
	var out []*Schema
	add := func(c *Schema) {
		if c != nil {
			out = append(out, c)
		}
	}
	add(s.Items)
	add(s.Not)
	if s.AdditionalItems != nil {
		add(s.AdditionalItems.Schema)
	}
	if s.AdditionalProperties != nil {
		add(s.AdditionalProperties.Schema)
	}
	for c := range s.properties.Values() {
		add(c)
	}
	for c := range s.patternProperties.Values() {
		add(c)
	}
	for d := range s.dependencies.Values() {
		if c, ok := d.(*Schema); ok {
			add(c)
		}
	}
	for c := range s.subSchemas.Values() {
		add(c)
	}
	out = append(out, s.AllOf...)
	out = append(out, s.AnyOf...)
	out = append(out, s.OneOf...)
	return out
}

// Clone returns a deep copy of s. References in the copy share their
// handles with the original; the definition location is not copied.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.self = nil
	c.location = nil
	c.document = false
	c.Enum = slices.Clone(s.Enum)
	c.Required = slices.Clone(s.Required)
	c.MultipleOf = cloneFloat(s.MultipleOf)
	c.Minimum = cloneFloat(s.Minimum)
	c.Maximum = cloneFloat(s.Maximum)
	c.ExclusiveMinimum = cloneFloat(s.ExclusiveMinimum)
	c.ExclusiveMaximum = cloneFloat(s.ExclusiveMaximum)
	c.MinLength = cloneInt(s.MinLength)
	c.MaxLength = cloneInt(s.MaxLength)
	c.MinItems = cloneInt(s.MinItems)
	c.MaxItems = cloneInt(s.MaxItems)
	c.MinProperties = cloneInt(s.MinProperties)
	c.MaxProperties = cloneInt(s.MaxProperties)
	c.Items = s.Items.Clone()
	c.Not = s.Not.Clone()
	c.AdditionalItems = cloneAdditional(s.AdditionalItems)
	c.AdditionalProperties = cloneAdditional(s.AdditionalProperties)
	c.AllOf = cloneList(s.AllOf)
	c.AnyOf = cloneList(s.AnyOf)
	c.OneOf = cloneList(s.OneOf)
	c.properties = cloneMap(s.properties)
	c.patternProperties = cloneMap(s.patternProperties)
	c.subSchemas = cloneMap(s.subSchemas)
	if s.dependencies != nil {
		c.dependencies = sequencedmap.New[string, any]()
		for k, v := range s.dependencies.All() {
			switch d := v.(type) {
			case *Schema:
				c.dependencies.Set(k, d.Clone())
			case []string:
				c.dependencies.Set(k, slices.Clone(d))
			default:
				c.dependencies.Set(k, v)
			}
		}
	}
	return &c
}

// Merge copies every keyword set on src into s, overwriting scalars and
// appending to lists. References and subschemas are not merged;
// properties and dependencies of src replace those of the same name.
func (s *Schema) Merge(src *Schema) {
	if src == nil {
		return
	}
	src = src.Clone()
	if src.Title != "" {
		s.Title = src.Title
	}
	if src.Description != "" {
		s.Description = src.Description
	}
	if src.Type != "" {
		s.Type = src.Type
	}
	if src.Format != "" {
		s.Format = src.Format
	}
	if src.Pattern != "" {
		s.Pattern = src.Pattern
	}
	if src.Default != nil {
		s.Default = src.Default
	}
	if src.Const != nil {
		s.Const = src.Const
	}
	for _, e := range src.Enum {
		s.AddEnum(e)
	}
	s.MultipleOf = firstFloat(src.MultipleOf, s.MultipleOf)
	s.Minimum = firstFloat(src.Minimum, s.Minimum)
	s.Maximum = firstFloat(src.Maximum, s.Maximum)
	s.ExclusiveMinimum = firstFloat(src.ExclusiveMinimum, s.ExclusiveMinimum)
	s.ExclusiveMaximum = firstFloat(src.ExclusiveMaximum, s.ExclusiveMaximum)
	s.MinLength = firstInt(src.MinLength, s.MinLength)
	s.MaxLength = firstInt(src.MaxLength, s.MaxLength)
	s.MinItems = firstInt(src.MinItems, s.MinItems)
	s.MaxItems = firstInt(src.MaxItems, s.MaxItems)
	s.MinProperties = firstInt(src.MinProperties, s.MinProperties)
	s.MaxProperties = firstInt(src.MaxProperties, s.MaxProperties)
	if src.Items != nil {
		s.Items = src.Items
	}
	if src.Not != nil {
		s.Not = src.Not
	}
	if src.AdditionalItems != nil {
		s.AdditionalItems = src.AdditionalItems
	}
	if src.AdditionalProperties != nil {
		s.AdditionalProperties = src.AdditionalProperties
	}
	s.UniqueItems = s.UniqueItems || src.UniqueItems
	s.AddRequired(src.Required...)
	s.AllOf = append(s.AllOf, src.AllOf...)
	s.AnyOf = append(s.AnyOf, src.AnyOf...)
	s.OneOf = append(s.OneOf, src.OneOf...)
	for k, v := range src.properties.All() {
		s.SetProperty(k, v)
	}
	for k, v := range src.patternProperties.All() {
		s.SetPatternProperty(k, v)
	}
	for k, v := range src.dependencies.All() {
		switch d := v.(type) {
		case *Schema:
			s.SetSchemaDependency(k, d)
		case []string:
			s.SetPropertyDependency(k, d...)
		}
	}
	s.truthy = s.truthy || src.truthy
}

// Equal reports whether a and b render to the same JSON under draft d.
// Object key order is ignored.
func Equal(a, b *Schema, d Draft) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(plain(a, d), plain(b, d))
}

func plain(s *Schema, d Draft) any {
	data, err := json.Marshal(s.Flatten(d))
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func firstFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

func firstInt(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}

func cloneAdditional(a *Additional) *Additional {
	if a == nil {
		return nil
	}
	return &Additional{Allowed: a.Allowed, Schema: a.Schema.Clone()}
}

func cloneList(list []*Schema) []*Schema {
	if list == nil {
		return nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

func cloneMap(m *sequencedmap.Map[string, *Schema]) *sequencedmap.Map[string, *Schema] {
	if m == nil {
		return nil
	}
	out := sequencedmap.New[string, *Schema]()
	for k, v := range m.All() {
		out.Set(k, v.Clone())
	}
	return out
}
