// Package xsd2jsonschema converts XML Schema documents into JSON Schema
// documents (draft-04, draft-06 or draft-07).
//
// A conversion walks every XSD document depth first, building one JSON
// Schema per input. Named types are registered per XML namespace so that a
// document may use a type defined later or in another document of the same
// run; those references are resolved once all documents have been walked.
// XSD idioms JSON Schema cannot state directly (optional choices, optional
// sequences, "any non-empty subset" choices) are rewritten afterwards, and
// empty combinator branches are pruned.
package xsd2jsonschema

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// Converter converts sets of XSD documents. It may be reused; every Convert
// call owns its own registry and parsing state.
type Converter struct {
	opts Options
}

// New returns a converter configured by opts over DefaultOptions.
func New(opts ...Option) *Converter {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Converter{opts: o}
}

// Options returns the effective options.
func (c *Converter) Options() Options {
	return c.opts
}

// Document is the JSON Schema produced for one XSD document.
type Document struct {
	// Name is the output file name, also used as the schema id.
	Name string
	// Source is the location of the XSD document.
	Source string
	Schema *jsonschema.Schema

	draft jsonschema.Draft
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return d.Schema.MarshalIndent(d.draft)
}

// Result holds the documents of one conversion run in input order.
type Result struct {
	Documents []*Document
	Draft     jsonschema.Draft
}

// Document returns the document with the given output name.
func (r *Result) Document(name string) (*Document, bool) {
	for _, d := range r.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Convert converts files together: references between them are resolved
// within the run.
func (c *Converter) Convert(files ...*XsdFile) (*Result, error) {
	if !c.opts.Draft.Valid() {
		return nil, fmt.Errorf("unsupported JSON Schema draft %d", c.opts.Draft)
	}
	logger := c.opts.logger()
	ns := NewNamespaceManager(c.opts)
	special := NewSpecialCaseIdentifier(logger)
	visitor := NewConversionVisitor(c.opts, ns, special)
	visitor.Index(files...)

	result := &Result{Draft: c.opts.Draft}
	names := make(map[string]int)
	for _, xsd := range files {
		name := uniqueName(xsd.OutputName(), names)
		doc := &Document{
			Name:   name,
			Source: xsd.Name,
			Schema: jsonschema.NewDocument(name),
			draft:  c.opts.Draft,
		}
		if err := Traverse(visitor, doc.Schema, xsd); err != nil {
			return nil, err
		}
		result.Documents = append(result.Documents, doc)
	}

	if err := ns.ResolveForwardReferences(); err != nil {
		return nil, err
	}
	if err := special.FixSpecialCases(); err != nil {
		return nil, err
	}
	for _, doc := range result.Documents {
		doc.Schema.Prune()
	}
	logger.Debug("conversion finished", "documents", len(result.Documents), "draft", c.opts.Draft.String())
	return result, nil
}

// ConvertFiles loads the XSD documents at paths, together with everything
// they include or import, and converts them.
func (c *Converter) ConvertFiles(ctx context.Context, paths ...string) (*Result, error) {
	loader := NewSchemaLoader("")
	loader.Logger = c.opts.logger()
	files, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	return c.Convert(files...)
}

// uniqueName suffixes repeated output names: a.json, a-2.json, ...
func uniqueName(name string, seen map[string]int) string {
	seen[name]++
	n := seen[name]
	if n == 1 {
		return name
	}
	base := strings.TrimSuffix(name, ".json")
	return base + "-" + strconv.Itoa(n) + ".json"
}
