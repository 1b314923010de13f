package catalog

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/opencatalog/schemabridge/internal/registry"
	"github.com/opencatalog/schemabridge/pkg/types"
)

func TestSnapshot_EmptyRegistry(t *testing.T) {
	fake := newFakeRegistry()
	builder := NewSnapshotBuilder(fake, zaptest.NewLogger(t))

	snapshot := builder.Build(context.Background())
	if snapshot == nil {
		t.Fatal("Build returned nil")
	}
	if !snapshot.IsEmpty() {
		t.Errorf("snapshot has %d entries, want 0", len(snapshot.Schemas))
	}
}

func TestSnapshot_UnreachableRegistry(t *testing.T) {
	fake := newFakeRegistry()
	fake.unreachable = true
	builder := NewSnapshotBuilder(fake, zaptest.NewLogger(t))

	snapshot := builder.Build(context.Background())
	if !snapshot.IsEmpty() {
		t.Errorf("snapshot has %d entries against an unreachable registry, want 0", len(snapshot.Schemas))
	}
}

func TestSnapshot_NamespaceOnlyEntry(t *testing.T) {
	fake := newFakeRegistry()
	ctx := context.Background()
	if err := fake.CreateGroup(ctx, "empty_db", registry.DefaultGroupProperties()); err != nil {
		t.Fatalf("failed to seed group: %v", err)
	}

	snapshot := NewSnapshotBuilder(fake, zaptest.NewLogger(t)).Build(ctx)
	if len(snapshot.Schemas) != 1 {
		t.Fatalf("got %d entries, want 1", len(snapshot.Schemas))
	}

	entry := snapshot.Schemas[0]
	if entry.SchemaTableName.SchemaName != "empty_db" {
		t.Errorf("schema_name = %q, want empty_db", entry.SchemaTableName.SchemaName)
	}
	if entry.SchemaTableName.TableName != "" {
		t.Errorf("table_name = %q, want empty", entry.SchemaTableName.TableName)
	}
	if entry.Table != nil {
		t.Error("namespace-only entry should have no table listing")
	}
}

// Create namespace sales, create table orders with three typed columns,
// then rebuild the catalog view purely from registry state.
func TestSnapshot_ExampleScenario(t *testing.T) {
	fake := newFakeRegistry()
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	ns := NewNamespaces(fake, log)
	tables := NewTables(fake, nil, log)

	if err := ns.Create(ctx, "sales", "alice"); err != nil {
		t.Fatalf("namespace create failed: %v", err)
	}
	err := tables.Create(ctx, types.TableMetadata{
		Namespace: "sales",
		Table:     "orders",
		Columns: []types.Column{
			{Name: "id", Type: types.TypeBigint},
			{Name: "amount", Type: types.TypeDouble},
			{Name: "note", Type: types.TypeVarchar},
		},
		Properties: map[string]string{
			"format":            "csv",
			"external_location": "s3://mybucket/orders/",
		},
	})
	if err != nil {
		t.Fatalf("table create failed: %v", err)
	}

	snapshot := NewSnapshotBuilder(fake, log).Build(ctx)
	if len(snapshot.Schemas) != 1 {
		t.Fatalf("got %d entries, want 1", len(snapshot.Schemas))
	}

	entry := snapshot.Schemas[0]
	if entry.SchemaTableName.SchemaName != "sales" {
		t.Errorf("schema_name = %q, want sales", entry.SchemaTableName.SchemaName)
	}
	if entry.SchemaTableName.TableName != "orders" {
		t.Errorf("table_name = %q, want orders", entry.SchemaTableName.TableName)
	}
	if entry.Table == nil {
		t.Fatal("entry has no table listing")
	}

	wantColumns := []types.Column{
		{Name: "id", Type: types.TypeBigint},
		{Name: "amount", Type: types.TypeDouble},
		{Name: "note", Type: types.TypeVarchar},
	}
	if len(entry.Table.Columns) != len(wantColumns) {
		t.Fatalf("got %d columns, want %d", len(entry.Table.Columns), len(wantColumns))
	}
	for i, col := range entry.Table.Columns {
		if col != wantColumns[i] {
			t.Errorf("column %d = %+v, want %+v", i, col, wantColumns[i])
		}
	}

	prefixes := entry.Table.Sources["mybucket"]
	if len(prefixes) != 1 || prefixes[0] != "/orders/" {
		t.Errorf("sources = %v, want {mybucket: [/orders/]}", entry.Table.Sources)
	}
	if entry.Table.ObjectDataFormat != "csv" {
		t.Errorf("objectDataFormat = %q, want csv", entry.Table.ObjectDataFormat)
	}
}

// A table with several stored versions contributes exactly one snapshot
// entry, built from its latest version.
func TestSnapshot_LatestVersionPerTable(t *testing.T) {
	fake := newFakeRegistry()
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	ns := NewNamespaces(fake, log)
	tables := NewTables(fake, nil, log)

	if err := ns.Create(ctx, "sales", "alice"); err != nil {
		t.Fatalf("namespace create failed: %v", err)
	}

	meta := types.TableMetadata{
		Namespace: "sales",
		Table:     "orders",
		Columns:   []types.Column{{Name: "id", Type: types.TypeBigint}},
		Properties: map[string]string{
			"format":            "csv",
			"external_location": "s3://mybucket/orders/",
		},
	}
	if err := tables.Create(ctx, meta); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	meta.Columns = append(meta.Columns, types.Column{Name: "amount", Type: types.TypeDouble})
	if err := tables.Create(ctx, meta); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	snapshot := NewSnapshotBuilder(fake, log).Build(ctx)
	if len(snapshot.Schemas) != 1 {
		t.Fatalf("got %d entries, want 1", len(snapshot.Schemas))
	}
	if got := len(snapshot.Schemas[0].Table.Columns); got != 2 {
		t.Errorf("snapshot built from %d-column version, want the 2-column latest", got)
	}
}

// A malformed stored document stops the walk; entries accumulated before
// the failure are returned, nothing after it is.
func TestSnapshot_DecodeFailureReturnsPartial(t *testing.T) {
	fake := newFakeRegistry()
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	ns := NewNamespaces(fake, log)
	tables := NewTables(fake, nil, log)

	if err := ns.Create(ctx, "good_db", "alice"); err != nil {
		t.Fatalf("namespace create failed: %v", err)
	}
	if err := tables.Create(ctx, types.TableMetadata{
		Namespace: "good_db",
		Table:     "events",
		Columns:   []types.Column{{Name: "id", Type: types.TypeBigint}},
		Properties: map[string]string{
			"format":            "json",
			"external_location": "s3://bucket/events/",
		},
	}); err != nil {
		t.Fatalf("table create failed: %v", err)
	}

	// Second group holds a document that does not decode, then a valid
	// table that should never be reached.
	if err := ns.Create(ctx, "rotten_db", "alice"); err != nil {
		t.Fatalf("namespace create failed: %v", err)
	}
	if _, err := fake.AddSchema(ctx, "rotten_db", registry.SchemaInfo{
		Type:   "broken",
		Format: registry.FormatJSON,
		Data:   []byte(`{"type":"object"}`), // no properties, no metadata
	}); err != nil {
		t.Fatalf("failed to seed broken schema: %v", err)
	}
	if err := tables.Create(ctx, types.TableMetadata{
		Namespace: "rotten_db",
		Table:     "unreached",
		Columns:   []types.Column{{Name: "id", Type: types.TypeBigint}},
		Properties: map[string]string{
			"format":            "csv",
			"external_location": "s3://bucket/unreached/",
		},
	}); err != nil {
		t.Fatalf("table create failed: %v", err)
	}

	snapshot := NewSnapshotBuilder(fake, log).Build(ctx)

	if len(snapshot.Schemas) != 1 {
		t.Fatalf("got %d entries, want 1 (the pre-failure accumulation)", len(snapshot.Schemas))
	}
	if snapshot.Schemas[0].SchemaTableName.SchemaName != "good_db" {
		t.Errorf("surviving entry = %q, want good_db", snapshot.Schemas[0].SchemaTableName.SchemaName)
	}
}

// Two tables in one group and a trailing empty group: entries follow
// group-then-table traversal order.
func TestSnapshot_TraversalOrder(t *testing.T) {
	fake := newFakeRegistry()
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	ns := NewNamespaces(fake, log)
	tables := NewTables(fake, nil, log)

	if err := ns.Create(ctx, "sales", "alice"); err != nil {
		t.Fatalf("namespace create failed: %v", err)
	}
	for _, table := range []string{"orders", "customers"} {
		if err := tables.Create(ctx, types.TableMetadata{
			Namespace: "sales",
			Table:     table,
			Columns:   []types.Column{{Name: "id", Type: types.TypeBigint}},
			Properties: map[string]string{
				"format":            "csv",
				"external_location": "s3://bucket/" + table + "/",
			},
		}); err != nil {
			t.Fatalf("create %s failed: %v", table, err)
		}
	}
	if err := ns.Create(ctx, "staging", "bob"); err != nil {
		t.Fatalf("namespace create failed: %v", err)
	}

	snapshot := NewSnapshotBuilder(fake, log).Build(ctx)
	if len(snapshot.Schemas) != 3 {
		t.Fatalf("got %d entries, want 3", len(snapshot.Schemas))
	}

	want := []struct {
		schema string
		table  string
	}{
		{"sales", "orders"},
		{"sales", "customers"},
		{"staging", ""},
	}
	for i, w := range want {
		got := snapshot.Schemas[i].SchemaTableName
		if got.SchemaName != w.schema || got.TableName != w.table {
			t.Errorf("entry %d = %s/%s, want %s/%s", i, got.SchemaName, got.TableName, w.schema, w.table)
		}
	}
}
