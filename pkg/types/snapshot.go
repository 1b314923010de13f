package types

// CatalogSnapshot is a full point-in-time reconstruction of the catalog's
// namespace/table/column listing derived solely from registry contents.
// Its JSON shape mirrors the static schemas config file consumed elsewhere
// in the catalog layer, so the two sources are interchangeable.
type CatalogSnapshot struct {
	// Schemas lists every reconstructed entry in group-then-table
	// traversal order. A nil/empty slice is a valid empty snapshot.
	Schemas []SnapshotEntry `json:"schemas,omitempty"`
}

// SnapshotEntry describes one namespace/table pair. A namespace with no
// tables appears with only SchemaTableName.SchemaName populated and a nil
// Table.
type SnapshotEntry struct {
	// SchemaTableName identifies the namespace and, when present, the table
	SchemaTableName SchemaTableName `json:"schemaTableName"`

	// Table holds the reconstructed table listing; nil for a
	// namespace-only entry
	Table *TableListing `json:"s3Table,omitempty"`
}

// SchemaTableName is the namespace/table identifier pair.
type SchemaTableName struct {
	// SchemaName is the namespace (database) name
	SchemaName string `json:"schema_name"`

	// TableName is the table name; empty for a namespace-only entry
	TableName string `json:"table_name,omitempty"`
}

// TableListing is the reconstructed view of one table: its columns in
// stored order, format hints, and source location mapping.
type TableListing struct {
	// Name is the table name
	Name string `json:"name"`

	// Columns lists the columns in their stored order
	Columns []Column `json:"columns"`

	// ObjectDataFormat is the lower-cased data format, when recorded
	ObjectDataFormat string `json:"objectDataFormat,omitempty"`

	// HasHeaderRow is the stored header hint, when recorded
	HasHeaderRow string `json:"hasHeaderRow,omitempty"`

	// RecordDelimiter is the stored record delimiter, when recorded
	RecordDelimiter string `json:"recordDelimiter,omitempty"`

	// FieldDelimiter is the stored field delimiter, when recorded
	FieldDelimiter string `json:"fieldDelimiter,omitempty"`

	// Sources maps one bucket to a one-element list of prefixes. The
	// current document shape supports a single source location per table.
	Sources map[string][]string `json:"sources,omitempty"`
}

// IsEmpty reports whether the snapshot contains no entries.
func (s *CatalogSnapshot) IsEmpty() bool {
	return len(s.Schemas) == 0
}
