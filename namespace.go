package xsd2jsonschema

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// XMLNamespace is the namespace bound to the reserved xml prefix.
const XMLNamespace = "http://www.w3.org/XML/1998/namespace"

// ForwardReference stands in for a named type that was used before it was
// defined.
type ForwardReference struct {
	Namespace string
	TypeName  string
	// Document is the XSD the first use was found in.
	Document *XsdFile
	Handle   *jsonschema.Handle
}

// Placeholder is the $ref rendered until the type is defined.
func (f *ForwardReference) Placeholder() string {
	return f.Handle.Placeholder()
}

type typeEntry struct {
	handle  *jsonschema.Handle
	schema  *jsonschema.Schema
	forward *ForwardReference
}

type namespaceEntry struct {
	uri   string
	types map[string]*typeEntry
	order []string
}

func (n *namespaceEntry) lookup(name string) (*typeEntry, bool) {
	e, ok := n.types[name]
	return e, ok
}

func (n *namespaceEntry) add(name string, e *typeEntry) {
	if _, ok := n.types[name]; !ok {
		n.order = append(n.order, name)
	}
	n.types[name] = e
}

// NamespaceManager registers the named types of every namespace seen in a
// conversion run and resolves references between them, including
// references to types defined later or in another document.
type NamespaceManager struct {
	mode       NamespaceMode
	dialect    URIDialect
	logger     *slog.Logger
	namespaces map[string]*namespaceEntry
	forward    []*ForwardReference
	builtins   map[string]*jsonschema.Schema
}

// NewNamespaceManager returns a registry seeded with the XML Schema and
// global-attribute namespaces.
func NewNamespaceManager(opts Options) *NamespaceManager {
	m := &NamespaceManager{
		mode:       opts.NamespaceMode,
		dialect:    opts.URIDialect,
		logger:     opts.logger(),
		namespaces: make(map[string]*namespaceEntry),
		builtins:   make(map[string]*jsonschema.Schema),
	}
	m.AddNamespace(XSDNamespace)
	m.AddNamespace(GlobalAttributesNamespace)
	return m
}

// AddNamespace makes sure uri has a registry entry.
func (m *NamespaceManager) AddNamespace(uri string) {
	if _, ok := m.namespaces[uri]; ok {
		return
	}
	m.namespaces[uri] = &namespaceEntry{uri: uri, types: make(map[string]*typeEntry)}
}

// AddNamespaces registers the target namespace and every namespace declared
// on the root of xsd.
func (m *NamespaceManager) AddNamespaces(xsd *XsdFile) {
	m.AddNamespace(xsd.TargetNamespace)
	for _, uri := range xsd.namespaces {
		m.AddNamespace(uri)
	}
}

// HasNamespace reports whether uri has been registered.
func (m *NamespaceManager) HasNamespace(uri string) bool {
	_, ok := m.namespaces[uri]
	return ok
}

// TypeNames returns the names registered in uri, in registration order.
func (m *NamespaceManager) TypeNames(uri string) []string {
	ns, ok := m.namespaces[uri]
	if !ok {
		return nil
	}
	return append([]string(nil), ns.order...)
}

// ForwardReferences returns the references still waiting for a definition.
func (m *NamespaceManager) ForwardReferences() []*ForwardReference {
	return append([]*ForwardReference(nil), m.forward...)
}

// GetBuiltInType returns a fresh copy of the fragment for an XML Schema
// built-in type.
func (m *NamespaceManager) GetBuiltInType(name string) (*jsonschema.Schema, error) {
	cached, ok := m.builtins[name]
	if !ok {
		bt := GetBuiltinType(name)
		if bt == nil {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownBuiltInType)
		}
		cached = jsonschema.New()
		bt.Convert(cached, m.dialect)
		m.builtins[name] = cached
	}
	return cached.Clone(), nil
}

// GetType returns the definition for the named type, creating it in doc
// when it does not exist yet. A type that was only referenced so far is
// promoted to a definition and its forward reference is dropped.
func (m *NamespaceManager) GetType(name string, xsd *XsdFile, doc *jsonschema.Schema) (*jsonschema.Schema, error) {
	qname, err := xsd.ResolveQName(name)
	if err != nil {
		return nil, err
	}
	if qname.Namespace == XSDNamespace {
		return m.GetBuiltInType(qname.Local)
	}
	ns := m.namespace(qname.Namespace)
	entry, ok := ns.lookup(qname.Local)
	if ok && entry.schema != nil {
		m.logger.Debug("type already defined", "type", qname.String(), "file", xsd.Name)
		return entry.schema, nil
	}
	if !ok {
		entry = &typeEntry{handle: jsonschema.NewHandle(qname.Namespace, qname.Local)}
		ns.add(qname.Local, entry)
	}
	schema := doc.Define(m.path(qname.Namespace, qname.Local)...)
	m.define(entry, schema)
	m.expose(doc, qname.Local, entry.handle)
	return schema, nil
}

// GetTypeReference returns a node that uses the named type: a copy of the
// fragment for built-in types, otherwise a $ref. Unknown types get a
// forward reference.
func (m *NamespaceManager) GetTypeReference(name string, xsd *XsdFile) (*jsonschema.Schema, error) {
	qname, err := xsd.ResolveQName(name)
	if err != nil {
		return nil, err
	}
	return m.reference(qname, xsd)
}

func (m *NamespaceManager) reference(qname QName, xsd *XsdFile) (*jsonschema.Schema, error) {
	if qname.Namespace == XSDNamespace {
		return m.GetBuiltInType(qname.Local)
	}
	ns := m.namespace(qname.Namespace)
	if entry, ok := ns.lookup(qname.Local); ok {
		if entry.schema != nil {
			return entry.schema.RefToSchema(), nil
		}
		return jsonschema.NewReference(entry.handle), nil
	}
	entry := m.addForward(ns, qname, xsd)
	return jsonschema.NewReference(entry.handle), nil
}

// AddTypeReference registers an already built node under name and exposes
// it at the top of doc. An existing definition wins; the new registration
// is ignored.
func (m *NamespaceManager) AddTypeReference(name string, schema *jsonschema.Schema, xsd *XsdFile, doc *jsonschema.Schema) error {
	qname, err := xsd.ResolveQName(name)
	if err != nil {
		return err
	}
	ns := m.namespace(qname.Namespace)
	entry, ok := ns.lookup(qname.Local)
	switch {
	case ok && entry.schema != nil:
		m.logger.Debug("namespace already defines type", "type", qname.String(), "file", xsd.Name)
		return nil
	case ok && schema.Ref() == entry.handle:
		// An element named after its own type; the type definition will
		// claim the entry.
		m.logger.Debug("element aliases a type of the same name", "type", qname.String(), "file", xsd.Name)
		return nil
	case !ok:
		entry = &typeEntry{handle: jsonschema.NewHandle(qname.Namespace, qname.Local)}
		ns.add(qname.Local, entry)
	}
	doc.Attach(schema, m.path(qname.Namespace, qname.Local)...)
	m.define(entry, schema)
	m.expose(doc, qname.Local, entry.handle)
	return nil
}

// GlobalAttribute returns the definition of a global attribute declared in
// xsd, creating it in doc.
func (m *NamespaceManager) GlobalAttribute(name string, xsd *XsdFile, doc *jsonschema.Schema) (*jsonschema.Schema, error) {
	qname := QName{Namespace: xsd.TargetNamespace, Local: name}
	ns := m.namespaces[GlobalAttributesNamespace]
	key := qname.String()
	entry, ok := ns.lookup(key)
	if ok && entry.schema != nil {
		m.logger.Debug("global attribute already defined", "attribute", key, "file", xsd.Name)
		return entry.schema, nil
	}
	if !ok {
		entry = &typeEntry{handle: jsonschema.NewHandle(GlobalAttributesNamespace, key)}
		ns.add(key, entry)
	}
	schema := doc.Define(m.path(qname.Namespace, "@"+qname.Local)...)
	m.define(entry, schema)
	return schema, nil
}

// GetGlobalAttribute returns a copy of the referenced global attribute, or a
// $ref when it has not been declared yet.
func (m *NamespaceManager) GetGlobalAttribute(name string, xsd *XsdFile) (*jsonschema.Schema, error) {
	qname, err := xsd.ResolveQName(name)
	if err != nil {
		return nil, err
	}
	if qname.Namespace == XMLNamespace {
		// xml:lang, xml:space, xml:base and xml:id are plain strings.
		return &jsonschema.Schema{Type: jsonschema.TypeString}, nil
	}
	ns := m.namespaces[GlobalAttributesNamespace]
	key := qname.String()
	if entry, ok := ns.lookup(key); ok {
		if entry.schema != nil {
			return entry.schema.Clone(), nil
		}
		return jsonschema.NewReference(entry.handle), nil
	}
	m.logger.Debug("global attribute used before its declaration", "attribute", key, "file", xsd.Name)
	entry := m.addForward(ns, QName{Namespace: GlobalAttributesNamespace, Local: key}, xsd)
	return jsonschema.NewReference(entry.handle), nil
}

// ResolveForwardReferences checks that every forward reference has been
// bound to a definition and that no definition only refers to itself
// through other references.
func (m *NamespaceManager) ResolveForwardReferences() error {
	var errs []error
	for _, f := range m.forward {
		if !f.Handle.Resolved() {
			errs = append(errs, fmt.Errorf("type %s referenced from %s: %w",
				f.Handle, f.Document.Name, ErrUnresolvedReference))
		}
	}
	m.forward = m.forward[:0]
	for _, ns := range m.namespaces {
		for _, name := range ns.order {
			entry := ns.types[name]
			if !entry.handle.Resolved() {
				continue
			}
			if _, err := entry.handle.Follow(); errors.Is(err, jsonschema.ErrReferenceLoop) {
				errs = append(errs, fmt.Errorf("type %s: %w: %w", entry.handle, ErrCircularReference, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (m *NamespaceManager) namespace(uri string) *namespaceEntry {
	m.AddNamespace(uri)
	return m.namespaces[uri]
}

func (m *NamespaceManager) addForward(ns *namespaceEntry, qname QName, xsd *XsdFile) *typeEntry {
	entry := &typeEntry{handle: jsonschema.NewHandle(qname.Namespace, qname.Local)}
	entry.forward = &ForwardReference{
		Namespace: qname.Namespace,
		TypeName:  qname.Local,
		Document:  xsd,
		Handle:    entry.handle,
	}
	ns.add(qname.Local, entry)
	m.forward = append(m.forward, entry.forward)
	return entry
}

func (m *NamespaceManager) define(entry *typeEntry, schema *jsonschema.Schema) {
	entry.schema = schema
	entry.handle.Bind(schema)
	if entry.forward == nil {
		return
	}
	for i, f := range m.forward {
		if f == entry.forward {
			m.forward = append(m.forward[:i], m.forward[i+1:]...)
			break
		}
	}
	entry.forward = nil
}

// expose adds name as a selectable top-level option of doc.
func (m *NamespaceManager) expose(doc *jsonschema.Schema, name string, h *jsonschema.Handle) {
	option := jsonschema.New()
	option.SetProperty(name, jsonschema.NewReference(h))
	option.AddRequired(name)
	doc.AnyOf = append(doc.AnyOf, option)
}

// path is where a type of the given namespace is placed inside a document.
func (m *NamespaceManager) path(namespace, name string) []string {
	if m.mode == NamespaceModeDefinitions || namespace == "" {
		return []string{"definitions", jsonschema.EscapeSegment(name)}
	}
	segs := namespaceSegments(namespace)
	for i, seg := range segs {
		segs[i] = jsonschema.EscapeSegment(seg)
	}
	return append(segs, jsonschema.EscapeSegment(name))
}

func namespaceSegments(uri string) []string {
	rest := uri
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	} else if scheme, after, ok := strings.Cut(rest, ":"); ok && !strings.Contains(scheme, "/") {
		rest = after
	}
	var segs []string
	for _, s := range strings.Split(rest, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return []string{"definitions"}
	}
	return segs
}
