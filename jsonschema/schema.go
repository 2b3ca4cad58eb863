// Package jsonschema is the mutable JSON Schema document model the XSD
// converter builds into. A Schema is either a definition (a set of keywords)
// or a reference to a named definition held through a Handle.
package jsonschema

import (
	"slices"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// JSON Schema primitive type names.
const (
	TypeArray   = "array"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNull    = "null"
	TypeNumber  = "number"
	TypeObject  = "object"
	TypeString  = "string"
)

// Additional is the value of additionalItems/additionalProperties: either a
// boolean or a subschema.
type Additional struct {
	Allowed bool
	Schema  *Schema
}

// Schema is one JSON Schema fragment.
type Schema struct {
	// ID is only rendered on document roots.
	ID          string
	Title       string
	Description string
	Type        string
	Format      string
	Default     any
	Const       any
	Enum        []any

	MultipleOf       *float64
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64

	MinLength *int
	MaxLength *int
	Pattern   string

	Items           *Schema
	AdditionalItems *Additional
	MinItems        *int
	MaxItems        *int
	UniqueItems     bool

	Required             []string
	AdditionalProperties *Additional
	MinProperties        *int
	MaxProperties        *int

	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema
	Not   *Schema

	properties        *sequencedmap.Map[string, *Schema]
	patternProperties *sequencedmap.Map[string, *Schema]
	dependencies      *sequencedmap.Map[string, any]
	subSchemas        *sequencedmap.Map[string, *Schema]

	// ref makes this node a reference; self is the handle naming this node
	// when it is a registered definition.
	ref  *Handle
	self *Handle

	location *location
	document bool
	truthy   bool
}

type location struct {
	doc  *Schema
	path []string
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{}
}

// NewDocument returns a top-level document schema with the given id.
func NewDocument(id string) *Schema {
	return &Schema{ID: id, document: true}
}

// NewTruthy returns the always-valid empty schema. Unlike New it is never
// considered blank, so pruning keeps it.
func NewTruthy() *Schema {
	return &Schema{truthy: true}
}

// NewReference returns a schema that renders as a $ref to the handle target.
func NewReference(h *Handle) *Schema {
	return &Schema{ref: h}
}

// IsReference reports whether s renders as a $ref.
func (s *Schema) IsReference() bool { return s.ref != nil }

// Ref returns the handle s refers to, or nil.
func (s *Schema) Ref() *Handle { return s.ref }

// SetRef turns s into a reference to h.
func (s *Schema) SetRef(h *Handle) { s.ref = h }

// Handle returns the handle naming s, or nil when s is not a registered
// definition.
func (s *Schema) Handle() *Handle { return s.self }

// RefToSchema returns a new reference node pointing at s. s must have been
// bound to a handle.
func (s *Schema) RefToSchema() *Schema {
	if s.self == nil {
		return nil
	}
	return NewReference(s.self)
}

// Pointer returns the document and path s was defined at.
func (s *Schema) Pointer() (*Schema, []string) {
	if s.location == nil {
		return nil, nil
	}
	return s.location.doc, slices.Clone(s.location.path)
}

// SetProperty sets a property subschema, keeping first-insertion order.
func (s *Schema) SetProperty(name string, value *Schema) {
	s.properties = setOrdered(s.properties, name, value)
}

// Property returns the named property subschema.
func (s *Schema) Property(name string) (*Schema, bool) {
	return s.properties.Get(name)
}

// HasProperty reports whether the named property is set.
func (s *Schema) HasProperty(name string) bool {
	return s.properties.Has(name)
}

// PropertyNames returns the property names in insertion order.
func (s *Schema) PropertyNames() []string {
	return slices.Collect(s.properties.Keys())
}

// PropertyCount returns the number of properties.
func (s *Schema) PropertyCount() int {
	return s.properties.Len()
}

// SetPatternProperty sets a patternProperties entry.
func (s *Schema) SetPatternProperty(pattern string, value *Schema) {
	s.patternProperties = setOrdered(s.patternProperties, pattern, value)
}

// PatternProperty returns a patternProperties entry.
func (s *Schema) PatternProperty(pattern string) (*Schema, bool) {
	return s.patternProperties.Get(pattern)
}

// SetPropertyDependency records that name requires the given properties.
func (s *Schema) SetPropertyDependency(name string, requires ...string) {
	s.dependencies = setOrdered(s.dependencies, name, any(slices.Clone(requires)))
}

// SetSchemaDependency records a schema dependency for name.
func (s *Schema) SetSchemaDependency(name string, dep *Schema) {
	s.dependencies = setOrdered(s.dependencies, name, any(dep))
}

// AddRequired appends names to required, skipping duplicates.
func (s *Schema) AddRequired(names ...string) {
	for _, n := range names {
		if !s.IsRequired(n) {
			s.Required = append(s.Required, n)
		}
	}
}

// IsRequired reports whether name is listed in required.
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// AddEnum appends an enum value unless already present.
func (s *Schema) AddEnum(v any) {
	if slices.Contains(s.Enum, v) {
		return
	}
	s.Enum = append(s.Enum, v)
}

// SubSchema returns a named child subschema.
func (s *Schema) SubSchema(name string) (*Schema, bool) {
	return s.subSchemas.Get(name)
}

// SetSubSchema stores child under name.
func (s *Schema) SetSubSchema(name string, child *Schema) {
	s.subSchemas = setOrdered(s.subSchemas, name, child)
}

// Define creates (or returns the existing) definition at path below the
// document s, creating intermediate containers as needed.
func (s *Schema) Define(path ...string) *Schema {
	if existing, ok := s.Lookup(path...); ok {
		return existing
	}
	node := New()
	s.Attach(node, path...)
	return node
}

// Attach places node at path below the document s and records its location.
// An existing entry at that path is replaced.
func (s *Schema) Attach(node *Schema, path ...string) {
	if len(path) == 0 {
		return
	}
	container := s
	for _, seg := range path[:len(path)-1] {
		next, ok := container.subSchemas.Get(seg)
		if !ok {
			next = New()
			container.SetSubSchema(seg, next)
		}
		container = next
	}
	container.SetSubSchema(path[len(path)-1], node)
	node.location = &location{doc: s, path: slices.Clone(path)}
}

// Lookup walks the subschema tree of s along path.
func (s *Schema) Lookup(path ...string) (*Schema, bool) {
	node := s
	for _, seg := range path {
		next, ok := node.subSchemas.Get(seg)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, len(path) > 0
}

// SetAdditionalProperties sets additionalProperties to a boolean.
func (s *Schema) SetAdditionalProperties(allowed bool) {
	s.AdditionalProperties = &Additional{Allowed: allowed}
}

// Float returns a pointer to v, for the numeric keyword fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for the count keyword fields.
func Int(v int) *int { return &v }

func setOrdered[V any](m *sequencedmap.Map[string, V], key string, value V) *sequencedmap.Map[string, V] {
	if m == nil {
		m = sequencedmap.New[string, V]()
	}
	if !m.Has(key) {
		m.Set(key, value)
		return m
	}
	// Set appends, so rebuild to keep the original position.
	rebuilt := sequencedmap.New[string, V]()
	for k, v := range m.All() {
		if k == key {
			v = value
		}
		rebuilt.Set(k, v)
	}
	return rebuilt
}
