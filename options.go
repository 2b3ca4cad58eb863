package xsd2jsonschema

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// NamespaceMode selects where named types are placed in the output.
type NamespaceMode int

const (
	// NamespaceModeNested places each type under the segments of its
	// namespace URI, e.g. /example.com/po/OrderType.
	NamespaceModeNested NamespaceMode = iota
	// NamespaceModeDefinitions places every type under one definitions
	// container.
	NamespaceModeDefinitions
)

// ParseNamespaceMode accepts "nested" or "definitions".
func ParseNamespaceMode(s string) (NamespaceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nested", "namespace", "":
		return NamespaceModeNested, nil
	case "definitions", "flat":
		return NamespaceModeDefinitions, nil
	}
	return 0, fmt.Errorf("unknown namespace mode %q", s)
}

func (m NamespaceMode) String() string {
	if m == NamespaceModeDefinitions {
		return "definitions"
	}
	return "nested"
}

func (m *NamespaceMode) UnmarshalText(text []byte) error {
	v, err := ParseNamespaceMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m NamespaceMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// URIDialect selects how xs:anyURI is rendered.
type URIDialect int

const (
	// URIDialectRFC3986 renders anyURI as format "uri".
	URIDialectRFC3986 URIDialect = iota
	// URIDialectRFC2396 renders anyURI as a pattern.
	URIDialectRFC2396
)

// ParseURIDialect accepts "rfc3986" or "rfc2396".
func ParseURIDialect(s string) (URIDialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rfc3986", "3986", "":
		return URIDialectRFC3986, nil
	case "rfc2396", "2396":
		return URIDialectRFC2396, nil
	}
	return 0, fmt.Errorf("unknown uri dialect %q", s)
}

func (u URIDialect) String() string {
	if u == URIDialectRFC2396 {
		return "rfc2396"
	}
	return "rfc3986"
}

func (u *URIDialect) UnmarshalText(text []byte) error {
	v, err := ParseURIDialect(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u URIDialect) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// Options configures a Converter.
type Options struct {
	Draft         jsonschema.Draft `yaml:"draft"`
	NamespaceMode NamespaceMode    `yaml:"namespaceMode"`
	URIDialect    URIDialect       `yaml:"uriDialect"`

	Logger *slog.Logger `yaml:"-"`
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns draft-04 output with nested namespaces and
// RFC 3986 URIs.
func DefaultOptions() Options {
	return Options{
		Draft:         jsonschema.DefaultDraft,
		NamespaceMode: NamespaceModeNested,
		URIDialect:    URIDialectRFC3986,
	}
}

// LoadOptions reads YAML options over the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.NewDecoder(r).Decode(&opts); err != nil && err != io.EOF {
		return opts, fmt.Errorf("failed to decode options: %w", err)
	}
	return opts, nil
}

func WithDraft(d jsonschema.Draft) Option {
	return func(o *Options) { o.Draft = d }
}

func WithNamespaceMode(m NamespaceMode) Option {
	return func(o *Options) { o.NamespaceMode = m }
}

func WithURIDialect(u URIDialect) Option {
	return func(o *Options) { o.URIDialect = u }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithOptions replaces every setting with opts.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
