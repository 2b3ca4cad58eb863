package jsonschema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnbound is returned when following a handle that has no target.
	ErrUnbound = errors.New("reference is not bound")
	// ErrReferenceLoop is returned when definitions only refer to each other.
	ErrReferenceLoop = errors.New("reference loop")
)

// ForwardReferencePrefix marks a $ref whose target has not been bound yet.
const ForwardReferencePrefix = "FORWARD_REFERENCE#"

// Handle is a stable indirection to a named definition. Reference nodes hold
// the handle, never the target, so binding a handle once resolves every
// reference and every clone of one.
type Handle struct {
	namespace string
	name      string
	target    *Schema
}

// NewHandle returns an unbound handle for the named type.
func NewHandle(namespace, name string) *Handle {
	return &Handle{namespace: namespace, name: name}
}

// Namespace returns the XML namespace of the named type.
func (h *Handle) Namespace() string { return h.namespace }

// Name returns the local name of the named type.
func (h *Handle) Name() string { return h.name }

// Target returns the bound definition, or nil.
func (h *Handle) Target() *Schema { return h.target }

// Resolved reports whether the handle has been bound.
func (h *Handle) Resolved() bool { return h.target != nil }

// Bind points the handle at target and makes target answer RefToSchema with
// this handle.
func (h *Handle) Bind(target *Schema) {
	h.target = target
	if target.self == nil {
		target.self = h
	}
}

// Placeholder is the $ref rendered while the handle is unbound.
func (h *Handle) Placeholder() string {
	return ForwardReferencePrefix + "/to/" + h.namespace + "/" + h.name
}

// Follow dereferences h through definitions that are themselves pure
// references and returns the first concrete definition. It fails on unbound
// handles and on cycles.
func (h *Handle) Follow() (*Schema, error) {
	seen := map[*Handle]bool{}
	cur := h
	for {
		if seen[cur] {
			return nil, fmt.Errorf("chain through %s: %w", cur, ErrReferenceLoop)
		}
		seen[cur] = true
		if cur.target == nil {
			return nil, fmt.Errorf("%s: %w", cur, ErrUnbound)
		}
		if !cur.target.isPureReference() {
			return cur.target, nil
		}
		cur = cur.target.ref
	}
}

func (h *Handle) String() string {
	if h.namespace == "" {
		return h.name
	}
	return "{" + h.namespace + "}" + h.name
}

// refString renders the $ref for h as seen from inside doc.
func (h *Handle) refString(doc *Schema) string {
	if h.target == nil || h.target.location == nil {
		return h.Placeholder()
	}
	loc := h.target.location
	pointer := "#/" + JSONPointer(loc.path)
	if loc.doc == doc {
		return pointer
	}
	return loc.doc.ID + pointer
}

// JSONPointer joins path segments into an escaped JSON pointer body.
func JSONPointer(path []string) string {
	escaped := make([]string, len(path))
	for i, seg := range path {
		seg = strings.ReplaceAll(seg, "~", "~0")
		escaped[i] = strings.ReplaceAll(seg, "/", "~1")
	}
	return strings.Join(escaped, "/")
}
