package xsd2jsonschema

import (
	"fmt"
	"strings"
)

// XSDNamespace is the XML Schema namespace
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"

const xmlnsNamespace = "http://www.w3.org/2000/xmlns/"

// GlobalAttributesNamespace is the synthetic namespace global attributes are
// registered under, keeping them apart from types of the same name.
const GlobalAttributesNamespace = "urn:xsd2jsonschema:global-attributes"

// QName represents a resolved qualified XML name
type QName struct {
	Namespace string
	Local     string
}

// String returns the string representation of a QName
func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return fmt.Sprintf("{%s}%s", q.Namespace, q.Local)
}

// PrefixedName is an unresolved prefix:local token.
type PrefixedName struct {
	Prefix string
	Local  string
}

// ParseQName splits a prefix:local token. A token without a colon has an
// empty prefix.
func ParseQName(s string) PrefixedName {
	s = strings.TrimSpace(s)
	if prefix, local, ok := strings.Cut(s, ":"); ok {
		return PrefixedName{Prefix: prefix, Local: local}
	}
	return PrefixedName{Local: s}
}

func (p PrefixedName) String() string {
	if p.Prefix == "" {
		return p.Local
	}
	return p.Prefix + ":" + p.Local
}
