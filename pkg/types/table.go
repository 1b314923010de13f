// Package types defines the catalog-side structures exchanged between the
// query engine's connector layer and the schema registry bridge.
package types

import "strings"

// CatalogType is a column type in the query engine's type vocabulary.
type CatalogType string

const (
	TypeVarchar CatalogType = "VARCHAR"
	TypeDouble  CatalogType = "DOUBLE"
	TypeBigint  CatalogType = "BIGINT"
	TypeInteger CatalogType = "INTEGER"
	TypeBoolean CatalogType = "BOOLEAN"
)

// ParseCatalogType normalizes a type name to its canonical catalog form.
// The boolean result is false when the name is not a known catalog type.
func ParseCatalogType(name string) (CatalogType, bool) {
	switch strings.ToUpper(name) {
	case "VARCHAR":
		return TypeVarchar, true
	case "DOUBLE":
		return TypeDouble, true
	case "BIGINT":
		return TypeBigint, true
	case "INTEGER":
		return TypeInteger, true
	case "BOOLEAN":
		return TypeBoolean, true
	default:
		return "", false
	}
}

// Column is a single table column. Name comparison is case-sensitive and
// declaration order is significant for listing reconstruction.
type Column struct {
	// Name is the column name
	Name string `json:"name"`

	// Type is the catalog type of the column
	Type CatalogType `json:"type"`
}

// Table property keys recognized during table creation. Matching on keys
// is case-insensitive.
const (
	PropFormat           = "format"
	PropFieldDelimiter   = "field_delimiter"
	PropRecordDelimiter  = "record_delimiter"
	PropHasHeaderRow     = "has_header_row"
	PropExternalLocation = "external_location"
)

// Defaults applied when the corresponding table property is absent.
const (
	DefaultHasHeaderRow    = "false"
	DefaultRecordDelimiter = "\n"
	DefaultFieldDelimiter  = ","
)

// supportedFormats is the set of object data formats a table may declare.
var supportedFormats = map[string]bool{
	"csv":  true,
	"tsv":  true,
	"json": true,
	"text": true,
}

// IsSupportedFormat reports whether format names an object data format the
// bridge can describe. Comparison is case-insensitive.
func IsSupportedFormat(format string) bool {
	return supportedFormats[strings.ToLower(format)]
}

// TableMetadata is the connector-provided description of a table being
// created: its namespace, name, ordered columns, and key-value properties.
type TableMetadata struct {
	// Namespace is the containing database/schema name
	Namespace string `json:"namespace"`

	// Table is the table name, unique within the namespace
	Table string `json:"table"`

	// Columns lists the table columns in declaration order
	Columns []Column `json:"columns"`

	// Properties holds the creation properties (format, delimiters,
	// external_location). Keys are matched case-insensitively.
	Properties map[string]string `json:"properties"`
}

// Property returns the value for key, matching case-insensitively, and
// whether it was present.
func (m *TableMetadata) Property(key string) (string, bool) {
	for k, v := range m.Properties {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// FormatHints carries the non-column table facts stored alongside the
// column definitions: data format, header flag, and delimiters.
type FormatHints struct {
	// ObjectDataFormat is the lower-cased data format (csv, tsv, json, text)
	ObjectDataFormat string `json:"objectDataFormat,omitempty"`

	// HasHeaderRow is "true" when the first row holds column names
	HasHeaderRow string `json:"hasHeaderRow,omitempty"`

	// RecordDelimiter separates records in delimited formats
	RecordDelimiter string `json:"recordDelimiter,omitempty"`

	// FieldDelimiter separates fields in delimited formats
	FieldDelimiter string `json:"fieldDelimiter,omitempty"`
}
