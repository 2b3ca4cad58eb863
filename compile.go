package xsd2jsonschema

import (
	"bytes"
	"fmt"

	jsv "github.com/santhosh-tekuri/jsonschema/v6"
)

// Compile loads every document of r into a JSON Schema compiler and compiles
// it. This checks the output against its draft's meta-schema and resolves
// every $ref, including those between documents of the run.
func (r *Result) Compile() (map[string]*jsv.Schema, error) {
	c := jsv.NewCompiler()
	for _, d := range r.Documents {
		data, err := d.JSON()
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", d.Name, err)
		}
		doc, err := jsv.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read back %s: %w", d.Name, err)
		}
		if err := c.AddResource(d.Name, doc); err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", d.Name, err)
		}
	}
	compiled := make(map[string]*jsv.Schema, len(r.Documents))
	for _, d := range r.Documents {
		s, err := c.Compile(d.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s: %w", d.Name, err)
		}
		compiled[d.Name] = s
	}
	return compiled, nil
}
