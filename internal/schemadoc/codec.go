// Package schemadoc translates between catalog table metadata and the
// JSON-Schema documents stored in the schema registry.
//
// A stored document is a JSON-Schema object with three semantically
// required members: a $comment string carrying the table's metadata block,
// a properties object mapping column names to JSON types, and fixed
// description/type literals. The metadata block is embedded as an escaped
// JSON string, not a nested object — that double encoding is the registry's
// storage convention and must survive round-trips unchanged.
package schemadoc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opencatalog/schemabridge/internal/errors"
	"github.com/opencatalog/schemabridge/internal/location"
	"github.com/opencatalog/schemabridge/pkg/types"
)

// Fixed document literals.
const (
	docDescription = "Format of row of data"
	docType        = "object"
)

// document is the top-level wire shape of a stored schema document.
// Pointer members distinguish absent from empty during decode.
type document struct {
	Comment     *string     `json:"$comment"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Properties  *Properties `json:"properties"`
}

// metadataBlock is the embedded table metadata, serialized compactly and
// stored as the document's $comment string.
type metadataBlock struct {
	Database         string              `json:"database"`
	Tablename        string              `json:"tablename"`
	Sources          map[string][]string `json:"sources,omitempty"`
	HasHeaderRow     string              `json:"hasHeaderRow,omitempty"`
	FieldDelimiter   string              `json:"fieldDelimiter,omitempty"`
	RecordDelimiter  string              `json:"recordDelimiter,omitempty"`
	ObjectDataFormat string              `json:"objectDataFormat,omitempty"`
}

// DecodedTable is the catalog-shaped result of decoding a stored document.
type DecodedTable struct {
	Database string
	Table    string
	Columns  []types.Column
	Hints    types.FormatHints
	Sources  map[string][]string
}

// Encode builds the schema document for a table. It fails with
// UNSUPPORTED_FORMAT when the declared format is outside the supported
// set, INVALID_LOCATION when storageLocation is not a
// scheme://bucket/prefix URI, and UNSUPPORTED_TYPE when any column's
// catalog type is unmapped. No partial document is produced on failure.
func Encode(database, table string, columns []types.Column, hints types.FormatHints, storageLocation string) ([]byte, error) {
	if !types.IsSupportedFormat(hints.ObjectDataFormat) {
		return nil, errors.NewValidationError(errors.CodeUnsupportedFormat,
			fmt.Sprintf("unsupported table format for query: %s", hints.ObjectDataFormat))
	}

	src, err := location.Parse(storageLocation)
	if err != nil {
		return nil, err
	}

	props := make(Properties, 0, len(columns))
	for _, col := range columns {
		jsonType, err := ToJSONType(col.Type)
		if err != nil {
			return nil, errors.NewTranslationError(errors.CodeUnsupportedType,
				fmt.Sprintf("unsupported type %q for column name %q", col.Type, col.Name))
		}
		props = append(props, Property{Name: col.Name, JSONType: jsonType})
	}

	meta := metadataBlock{
		Database:         database,
		Tablename:        table,
		Sources:          src.Sources(),
		HasHeaderRow:     hints.HasHeaderRow,
		FieldDelimiter:   hints.FieldDelimiter,
		RecordDelimiter:  hints.RecordDelimiter,
		ObjectDataFormat: strings.ToLower(hints.ObjectDataFormat),
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, errors.NewInternalError("failed to serialize metadata block", err)
	}

	comment := string(metaJSON)
	doc := document{
		Comment:     &comment,
		Description: docDescription,
		Type:        docType,
		Properties:  &props,
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.NewInternalError("failed to serialize schema document", err)
	}
	return encoded, nil
}

// Decode parses a stored schema document back into catalog-shaped records.
// It fails with PARSE_ERROR on invalid JSON (top level or embedded
// metadata), MISSING_FIELD when the properties object or the metadata
// block is absent, and UNSUPPORTED_TYPE when any property type is outside
// the supported JSON type set. Column order follows the stored order.
func Decode(data []byte) (*DecodedTable, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCategoryTranslation, errors.CodeParseError,
			"schema document is not valid JSON", err)
	}
	if doc.Properties == nil {
		return nil, errors.NewTranslationError(errors.CodeMissingField,
			"schema document has no properties member")
	}
	if doc.Comment == nil {
		return nil, errors.NewTranslationError(errors.CodeMissingField,
			"schema document has no metadata block")
	}

	var meta metadataBlock
	if err := json.Unmarshal([]byte(*doc.Comment), &meta); err != nil {
		return nil, errors.Wrap(errors.ErrCategoryTranslation, errors.CodeParseError,
			"metadata block is not valid JSON", err)
	}
	if meta.Database == "" || meta.Tablename == "" {
		return nil, errors.NewTranslationError(errors.CodeMissingField,
			"metadata block is missing database or tablename")
	}

	columns := make([]types.Column, 0, len(*doc.Properties))
	for _, prop := range *doc.Properties {
		catalogType, err := ToCatalogType(prop.JSONType)
		if err != nil {
			return nil, errors.NewTranslationError(errors.CodeUnsupportedType,
				fmt.Sprintf("unknown type %q for column name %q", prop.JSONType, prop.Name))
		}
		columns = append(columns, types.Column{Name: prop.Name, Type: catalogType})
	}

	return &DecodedTable{
		Database: meta.Database,
		Table:    meta.Tablename,
		Columns:  columns,
		Hints: types.FormatHints{
			ObjectDataFormat: meta.ObjectDataFormat,
			HasHeaderRow:     meta.HasHeaderRow,
			RecordDelimiter:  meta.RecordDelimiter,
			FieldDelimiter:   meta.FieldDelimiter,
		},
		Sources: meta.Sources,
	}, nil
}
