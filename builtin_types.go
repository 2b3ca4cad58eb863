package xsd2jsonschema

import (
	"math"
	"strings"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// BuiltinType is an XML Schema built-in type and the JSON Schema keywords
// it converts to.
type BuiltinType struct {
	Name    string
	Convert func(target *jsonschema.Schema, dialect URIDialect)
}

var builtinTypes = map[string]*BuiltinType{}

func init() {
	registerBuiltinTypes()
}

func registerBuiltinTypes() {
	// Primitive types
	builtinTypes["string"] = &BuiltinType{"string", stringType("")}
	builtinTypes["boolean"] = &BuiltinType{"boolean", convertBoolean}
	builtinTypes["decimal"] = &BuiltinType{"decimal", numberType}
	builtinTypes["float"] = &BuiltinType{"float", numberType}
	builtinTypes["double"] = &BuiltinType{"double", numberType}
	builtinTypes["duration"] = &BuiltinType{"duration", stringType(durationPattern)}
	builtinTypes["dateTime"] = &BuiltinType{"dateTime", formattedString("date-time")}
	builtinTypes["time"] = &BuiltinType{"time", stringType(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)}
	builtinTypes["date"] = &BuiltinType{"date", stringType(`^-?\d{4,}-\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)}
	builtinTypes["gYearMonth"] = &BuiltinType{"gYearMonth", stringType(`^-?\d{4,}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)}
	builtinTypes["gYear"] = &BuiltinType{"gYear", stringType(`^-?\d{4,}(Z|[+-]\d{2}:\d{2})?$`)}
	builtinTypes["gMonthDay"] = &BuiltinType{"gMonthDay", stringType(`^--\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)}
	builtinTypes["gDay"] = &BuiltinType{"gDay", stringType(`^---\d{2}(Z|[+-]\d{2}:\d{2})?$`)}
	builtinTypes["gMonth"] = &BuiltinType{"gMonth", stringType(`^--\d{2}(Z|[+-]\d{2}:\d{2})?$`)}
	builtinTypes["hexBinary"] = &BuiltinType{"hexBinary", stringType(`^([0-9a-fA-F]{2})*$`)}
	builtinTypes["base64Binary"] = &BuiltinType{"base64Binary", stringType(`^((\s*[A-Za-z0-9+/]){4})*((\s*[A-Za-z0-9+/]){2}\s*==|(\s*[A-Za-z0-9+/]){3}\s*=)?\s*$`)}
	builtinTypes["anyURI"] = &BuiltinType{"anyURI", convertAnyURI}
	builtinTypes["QName"] = &BuiltinType{"QName", stringType(`^(` + ncNamePattern + `:)?` + ncNamePattern + `$`)}
	builtinTypes["NOTATION"] = &BuiltinType{"NOTATION", stringType(`^(` + ncNamePattern + `:)?` + ncNamePattern + `$`)}

	// Derived types - strings
	builtinTypes["normalizedString"] = &BuiltinType{"normalizedString", stringType(`^[^\r\n\t]*$`)}
	builtinTypes["token"] = &BuiltinType{"token", stringType(`^([^\s]+( [^\s]+)*)?$`)}
	builtinTypes["language"] = &BuiltinType{"language", stringType(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)}
	builtinTypes["Name"] = &BuiltinType{"Name", stringType(`^` + namePattern + `$`)}
	builtinTypes["NCName"] = &BuiltinType{"NCName", stringType(`^` + ncNamePattern + `$`)}
	builtinTypes["ID"] = &BuiltinType{"ID", stringType(`^` + ncNamePattern + `$`)}
	builtinTypes["IDREF"] = &BuiltinType{"IDREF", stringType(`^` + ncNamePattern + `$`)}
	builtinTypes["IDREFS"] = &BuiltinType{"IDREFS", listOf("IDREF")}
	builtinTypes["ENTITY"] = &BuiltinType{"ENTITY", stringType(`^` + ncNamePattern + `$`)}
	builtinTypes["ENTITIES"] = &BuiltinType{"ENTITIES", listOf("ENTITY")}
	builtinTypes["NMTOKEN"] = &BuiltinType{"NMTOKEN", stringType(`^[\w.\-:]+$`)}
	builtinTypes["NMTOKENS"] = &BuiltinType{"NMTOKENS", listOf("NMTOKEN")}

	// Derived types - numeric
	builtinTypes["integer"] = &BuiltinType{"integer", integerRange(nil, nil)}
	builtinTypes["nonPositiveInteger"] = &BuiltinType{"nonPositiveInteger", integerRange(nil, jsonschema.Float(0))}
	builtinTypes["negativeInteger"] = &BuiltinType{"negativeInteger", integerRange(nil, jsonschema.Float(-1))}
	builtinTypes["long"] = &BuiltinType{"long", integerRange(jsonschema.Float(math.MinInt64), jsonschema.Float(math.MaxInt64))}
	builtinTypes["int"] = &BuiltinType{"int", integerRange(jsonschema.Float(math.MinInt32), jsonschema.Float(math.MaxInt32))}
	builtinTypes["short"] = &BuiltinType{"short", integerRange(jsonschema.Float(math.MinInt16), jsonschema.Float(math.MaxInt16))}
	builtinTypes["byte"] = &BuiltinType{"byte", integerRange(jsonschema.Float(math.MinInt8), jsonschema.Float(math.MaxInt8))}
	builtinTypes["nonNegativeInteger"] = &BuiltinType{"nonNegativeInteger", integerRange(jsonschema.Float(0), nil)}
	builtinTypes["unsignedLong"] = &BuiltinType{"unsignedLong", integerRange(jsonschema.Float(0), jsonschema.Float(math.MaxUint64))}
	builtinTypes["unsignedInt"] = &BuiltinType{"unsignedInt", integerRange(jsonschema.Float(0), jsonschema.Float(math.MaxUint32))}
	builtinTypes["unsignedShort"] = &BuiltinType{"unsignedShort", integerRange(jsonschema.Float(0), jsonschema.Float(math.MaxUint16))}
	builtinTypes["unsignedByte"] = &BuiltinType{"unsignedByte", integerRange(jsonschema.Float(0), jsonschema.Float(math.MaxUint8))}
	builtinTypes["positiveInteger"] = &BuiltinType{"positiveInteger", integerRange(jsonschema.Float(1), nil)}

	// XSD 1.1 additions that have a plain JSON rendering
	builtinTypes["dateTimeStamp"] = &BuiltinType{"dateTimeStamp", formattedString("date-time")}
	builtinTypes["dayTimeDuration"] = &BuiltinType{"dayTimeDuration", stringType(`^-?P(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)}
	builtinTypes["yearMonthDuration"] = &BuiltinType{"yearMonthDuration", stringType(`^-?P(\d+Y)?(\d+M)?$`)}

	// Ur-types accept anything
	builtinTypes["anyType"] = &BuiltinType{"anyType", func(*jsonschema.Schema, URIDialect) {}}
	builtinTypes["anySimpleType"] = &BuiltinType{"anySimpleType", func(*jsonschema.Schema, URIDialect) {}}
	builtinTypes["anyAtomicType"] = &BuiltinType{"anyAtomicType", func(*jsonschema.Schema, URIDialect) {}}
}

const (
	ncNamePattern   = `[A-Za-z_][\w.\-]*`
	namePattern     = `[A-Za-z_:][\w.\-:]*`
	durationPattern = `^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`
	// RFC 2396 URI reference, loosely: no spaces, optional scheme.
	rfc2396Pattern = `^(([a-zA-Z][0-9a-zA-Z+\-.]*:)?/{0,2}[0-9a-zA-Z;/?:@&=+$.\-_!~*'()%]+)?(#[0-9a-zA-Z;/?:@&=+$.\-_!~*'()%]+)?$`
)

// GetBuiltinType returns a built-in type by local name
func GetBuiltinType(name string) *BuiltinType {
	// Strip namespace prefix if present
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	return builtinTypes[name]
}

// IsBuiltinType checks if a type is a built-in XSD type
func IsBuiltinType(name string) bool {
	return GetBuiltinType(name) != nil
}

func stringType(pattern string) func(*jsonschema.Schema, URIDialect) {
	return func(s *jsonschema.Schema, _ URIDialect) {
		s.Type = jsonschema.TypeString
		if pattern != "" {
			s.Pattern = pattern
		}
	}
}

func formattedString(format string) func(*jsonschema.Schema, URIDialect) {
	return func(s *jsonschema.Schema, _ URIDialect) {
		s.Type = jsonschema.TypeString
		s.Format = format
	}
}

func numberType(s *jsonschema.Schema, _ URIDialect) {
	s.Type = jsonschema.TypeNumber
}

func integerRange(minimum, maximum *float64) func(*jsonschema.Schema, URIDialect) {
	return func(s *jsonschema.Schema, _ URIDialect) {
		s.Type = jsonschema.TypeInteger
		if minimum != nil {
			s.Minimum = jsonschema.Float(*minimum)
		}
		if maximum != nil {
			s.Maximum = jsonschema.Float(*maximum)
		}
	}
}

// XSD booleans also accept the literals 0 and 1.
func convertBoolean(s *jsonschema.Schema, _ URIDialect) {
	s.OneOf = append(s.OneOf,
		&jsonschema.Schema{Type: jsonschema.TypeBoolean},
		&jsonschema.Schema{Type: jsonschema.TypeInteger, Minimum: jsonschema.Float(0), Maximum: jsonschema.Float(1)},
	)
}

func convertAnyURI(s *jsonschema.Schema, dialect URIDialect) {
	s.Type = jsonschema.TypeString
	if dialect == URIDialectRFC2396 {
		s.Pattern = rfc2396Pattern
		return
	}
	s.Format = "uri"
}

func listOf(item string) func(*jsonschema.Schema, URIDialect) {
	return func(s *jsonschema.Schema, dialect URIDialect) {
		s.Type = jsonschema.TypeArray
		s.Items = jsonschema.New()
		builtinTypes[item].Convert(s.Items, dialect)
	}
}
