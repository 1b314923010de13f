package schemadoc

import (
	"fmt"
	"strings"

	"github.com/opencatalog/schemabridge/internal/errors"
	"github.com/opencatalog/schemabridge/pkg/types"
)

// JSON-Schema primitive type names used in stored documents.
const (
	JSONString  = "string"
	JSONNumber  = "number"
	JSONInteger = "integer"
	JSONBoolean = "boolean"
)

// ToJSONType maps a catalog column type to its JSON-Schema primitive.
// BIGINT and INTEGER both map to "integer"; see ToCatalogType for the
// resulting decode ambiguity. Unknown types are a hard error.
func ToJSONType(t types.CatalogType) (string, error) {
	switch types.CatalogType(strings.ToUpper(string(t))) {
	case types.TypeVarchar:
		return JSONString, nil
	case types.TypeDouble:
		return JSONNumber, nil
	case types.TypeBigint, types.TypeInteger:
		return JSONInteger, nil
	case types.TypeBoolean:
		return JSONBoolean, nil
	default:
		return "", errors.NewTranslationError(errors.CodeUnsupportedType,
			fmt.Sprintf("unsupported catalog type %q", t))
	}
}

// ToCatalogType maps a JSON-Schema primitive back to a catalog type.
// "integer" always yields BIGINT: a column declared INTEGER is not
// recoverable after a round-trip. This is a known lossy collapse, not a
// disambiguation to be guessed at. Unknown JSON types are a hard error.
func ToCatalogType(jsonType string) (types.CatalogType, error) {
	switch strings.ToLower(jsonType) {
	case JSONString:
		return types.TypeVarchar, nil
	case JSONNumber:
		return types.TypeDouble, nil
	case JSONInteger:
		return types.TypeBigint, nil
	case JSONBoolean:
		return types.TypeBoolean, nil
	default:
		return "", errors.NewTranslationError(errors.CodeUnsupportedType,
			fmt.Sprintf("unknown json type %q", jsonType))
	}
}
