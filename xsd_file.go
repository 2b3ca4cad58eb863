package xsd2jsonschema

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// XsdFile is one parsed XML Schema document together with its root
// namespace declarations.
type XsdFile struct {
	// Name is the location the document was loaded from.
	Name            string
	TargetNamespace string

	doc        xmldom.Document
	root       xmldom.Element
	namespaces map[string]string
}

// ParseXsdFile decodes an XSD document from r.
func ParseXsdFile(name string, r io.Reader) (*XsdFile, error) {
	doc, err := xmldom.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file %s: %w", name, err)
	}
	return NewXsdFile(name, doc)
}

// ParseXsdBytes decodes an XSD document held in memory.
func ParseXsdBytes(name string, data []byte) (*XsdFile, error) {
	doc, err := xmldom.NewDecoderFromBytes(data).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file %s: %w", name, err)
	}
	return NewXsdFile(name, doc)
}

// NewXsdFile wraps an already decoded document. The root element must be
// xs:schema.
func NewXsdFile(name string, doc xmldom.Document) (*XsdFile, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.DocumentElement()
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	if string(root.NamespaceURI()) != XSDNamespace || string(root.LocalName()) != "schema" {
		return nil, fmt.Errorf("%s is not an XSD schema document", name)
	}

	f := &XsdFile{
		Name:            name,
		TargetNamespace: attr(root, "targetNamespace"),
		doc:             doc,
		root:            root,
		namespaces:      make(map[string]string),
	}

	attrs := root.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		a := attrs.Item(i)
		if a == nil {
			continue
		}
		name := string(a.NodeName())
		switch ns := string(a.NamespaceURI()); {
		case ns == "xmlns" || ns == xmlnsNamespace:
			// the decoder keeps xmlns:p as local name p in the xmlns space
			f.namespaces[strings.TrimPrefix(string(a.LocalName()), "xmlns:")] = string(a.NodeValue())
		case name == "xmlns":
			f.namespaces[""] = string(a.NodeValue())
		case strings.HasPrefix(name, "xmlns:"):
			f.namespaces[strings.TrimPrefix(name, "xmlns:")] = string(a.NodeValue())
		}
	}
	return f, nil
}

// Document returns the underlying DOM document.
func (f *XsdFile) Document() xmldom.Document { return f.doc }

// Root returns the xs:schema element.
func (f *XsdFile) Root() xmldom.Element { return f.root }

// Namespaces returns a copy of the root prefix declarations. The default
// namespace is keyed by the empty prefix.
func (f *XsdFile) Namespaces() map[string]string {
	out := make(map[string]string, len(f.namespaces))
	for k, v := range f.namespaces {
		out[k] = v
	}
	return out
}

// LookupNamespace returns the URI declared for prefix on the root element.
func (f *XsdFile) LookupNamespace(prefix string) (string, bool) {
	uri, ok := f.namespaces[prefix]
	return uri, ok
}

// ResolveQName resolves a prefix:local token against the root declarations.
// Undeclared xs/xsd prefixes name the XML Schema namespace and xml is always
// bound. An unprefixed name without a default namespace belongs to the
// target namespace.
func (f *XsdFile) ResolveQName(s string) (QName, error) {
	p := ParseQName(s)
	if p.Local == "" {
		return QName{}, fmt.Errorf("empty qualified name %q", s)
	}
	if uri, ok := f.namespaces[p.Prefix]; ok {
		return QName{Namespace: uri, Local: p.Local}, nil
	}
	switch p.Prefix {
	case "":
		return QName{Namespace: f.TargetNamespace, Local: p.Local}, nil
	case "xs", "xsd":
		return QName{Namespace: XSDNamespace, Local: p.Local}, nil
	case "xml":
		return QName{Namespace: XMLNamespace, Local: p.Local}, nil
	}
	return QName{}, fmt.Errorf("prefix %q of %q in %s: %w", p.Prefix, s, f.Name, ErrUnresolvedPrefix)
}

// OutputName is the file name of the JSON Schema written for f.
func (f *XsdFile) OutputName() string {
	base := path.Base(strings.ReplaceAll(f.Name, "\\", "/"))
	if ext := path.Ext(base); strings.EqualFold(ext, ".xsd") {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".json"
}

// SchemaReference is an include, import or redefine found at the top level
// of a document.
type SchemaReference struct {
	Kind      string
	Namespace string
	Location  string
}

// References lists the include/import/redefine/override declarations of f
// that carry a schemaLocation.
func (f *XsdFile) References() []SchemaReference {
	var refs []SchemaReference
	for _, child := range xsdChildren(f.root) {
		switch kind := localName(child); kind {
		case "include", "import", "redefine", "override":
			loc := attr(child, "schemaLocation")
			if loc == "" {
				continue
			}
			refs = append(refs, SchemaReference{
				Kind:      kind,
				Namespace: attr(child, "namespace"),
				Location:  loc,
			})
		}
	}
	return refs
}

func attr(elem xmldom.Element, name string) string {
	return strings.TrimSpace(string(elem.GetAttribute(xmldom.DOMString(name))))
}

// rawAttr returns an attribute value untrimmed, for facet values where
// whitespace is significant.
func rawAttr(elem xmldom.Element, name string) string {
	return string(elem.GetAttribute(xmldom.DOMString(name)))
}

func hasAttr(elem xmldom.Element, name string) bool {
	return elem.HasAttribute(xmldom.DOMString(name))
}

func localName(elem xmldom.Element) string {
	return string(elem.LocalName())
}

func isXSD(elem xmldom.Element) bool {
	return string(elem.NamespaceURI()) == XSDNamespace
}

// elementChildren returns all element children in document order.
func elementChildren(elem xmldom.Element) []xmldom.Element {
	children := elem.Children()
	out := make([]xmldom.Element, 0, children.Length())
	for i := uint(0); i < children.Length(); i++ {
		if child := children.Item(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// xsdChildren returns the XML Schema element children of elem, leaving out
// annotations.
func xsdChildren(elem xmldom.Element) []xmldom.Element {
	var out []xmldom.Element
	for _, child := range elementChildren(elem) {
		if isXSD(child) && localName(child) != "annotation" {
			out = append(out, child)
		}
	}
	return out
}

func xsdChildrenNamed(elem xmldom.Element, name string) []xmldom.Element {
	var out []xmldom.Element
	for _, child := range xsdChildren(elem) {
		if localName(child) == name {
			out = append(out, child)
		}
	}
	return out
}

func parentElement(elem xmldom.Element) xmldom.Element {
	parent, _ := elem.ParentNode().(xmldom.Element)
	return parent
}

// Unbounded is the maxOccurs value of "unbounded".
const Unbounded = -1

// parseOccurs parses minOccurs/maxOccurs attributes
func parseOccurs(elem xmldom.Element, name string, defaultValue int) int {
	value := attr(elem, name)
	if value == "" {
		return defaultValue
	}
	if value == "unbounded" {
		return Unbounded
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

// isArray reports whether maxOccurs allows more than one occurrence.
func isArray(elem xmldom.Element) bool {
	maxOcc := parseOccurs(elem, "maxOccurs", 1)
	return maxOcc == Unbounded || maxOcc > 1
}

func describeElement(elem xmldom.Element) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(string(elem.NodeName()))
	attrs := elem.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		a := attrs.Item(i)
		if a == nil {
			continue
		}
		fmt.Fprintf(&sb, " %s=%q", a.NodeName(), a.NodeValue())
	}
	sb.WriteString(">")
	return sb.String()
}
