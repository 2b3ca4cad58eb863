package jsonschema

import (
	"encoding/json"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

type flattenContext struct {
	draft      Draft
	serializer *serializer
	// doc is the document being rendered; $refs into it are local.
	doc *Schema
}

// Flatten renders s as ordered plain data for the given draft. The result
// marshals directly to JSON. References that are still unbound render as
// forward-reference placeholders.
func (s *Schema) Flatten(d Draft) *sequencedmap.Map[string, any] {
	ctx := &flattenContext{draft: d, serializer: serializerFor(d)}
	switch {
	case s.document:
		ctx.doc = s
	case s.location != nil:
		ctx.doc = s.location.doc
	}
	return s.flatten(ctx)
}

// MarshalIndent renders s as indented JSON followed by a newline.
func (s *Schema) MarshalIndent(d Draft) ([]byte, error) {
	data, err := json.MarshalIndent(s.Flatten(d), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (s *Schema) flatten(ctx *flattenContext) *sequencedmap.Map[string, any] {
	out := sequencedmap.New[string, any]()
	if s == nil {
		return out
	}
	for _, write := range ctx.serializer.writers {
		write(ctx, s, out)
	}
	return out
}

func (a *Additional) flatten(ctx *flattenContext) any {
	if a.Schema != nil {
		return a.Schema.flatten(ctx)
	}
	return a.Allowed
}

func flattenList(ctx *flattenContext, list []*Schema) []any {
	out := make([]any, 0, len(list))
	for _, s := range list {
		out = append(out, s.flatten(ctx))
	}
	return out
}

func flattenMap(ctx *flattenContext, m *sequencedmap.Map[string, *Schema]) *sequencedmap.Map[string, any] {
	out := sequencedmap.New[string, any]()
	for name, s := range m.All() {
		out.Set(name, s.flatten(ctx))
	}
	return out
}
