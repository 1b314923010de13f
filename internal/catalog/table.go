package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/opencatalog/schemabridge/internal/errors"
	"github.com/opencatalog/schemabridge/internal/location"
	"github.com/opencatalog/schemabridge/internal/registry"
	"github.com/opencatalog/schemabridge/internal/schemadoc"
	"github.com/opencatalog/schemabridge/pkg/types"
)

// Tables manages schema versions within registry groups as catalog
// tables. Every call opens its own registry session.
type Tables struct {
	sessions registry.SessionFactory
	probe    *location.Probe
	defaults types.FormatHints
	log      *zap.Logger
}

// NewTables creates the table operations handle with the system-wide
// format hint defaults. probe may be nil to skip the advisory
// external-location check.
func NewTables(sessions registry.SessionFactory, probe *location.Probe, log *zap.Logger) *Tables {
	return NewTablesWithDefaults(sessions, probe, types.FormatHints{
		HasHeaderRow:    types.DefaultHasHeaderRow,
		RecordDelimiter: types.DefaultRecordDelimiter,
		FieldDelimiter:  types.DefaultFieldDelimiter,
	}, log)
}

// NewTablesWithDefaults creates the table operations handle with
// configured hint defaults. The ObjectDataFormat member of defaults is
// ignored; format is always an explicit table property.
func NewTablesWithDefaults(sessions registry.SessionFactory, probe *location.Probe, defaults types.FormatHints, log *zap.Logger) *Tables {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tables{sessions: sessions, probe: probe, defaults: defaults, log: log}
}

// Create encodes the table's metadata into a schema document and appends
// it to the namespace's group as a new version. Existing versions are
// never mutated. The declared format is validated before any document is
// built.
func (t *Tables) Create(ctx context.Context, meta types.TableMetadata) error {
	format, ok := meta.Property(types.PropFormat)
	if !ok {
		return errors.NewValidationError(errors.CodeMissingProperty,
			fmt.Sprintf("table %s.%s declares no format property", meta.Namespace, meta.Table))
	}
	if !types.IsSupportedFormat(format) {
		return errors.NewValidationError(errors.CodeUnsupportedFormat,
			fmt.Sprintf("unsupported table format for query: %s", format))
	}

	loc, ok := meta.Property(types.PropExternalLocation)
	if !ok {
		return errors.NewValidationError(errors.CodeMissingProperty,
			fmt.Sprintf("table %s.%s declares no external_location property", meta.Namespace, meta.Table))
	}

	hints := t.defaults
	hints.ObjectDataFormat = format
	if v, ok := meta.Property(types.PropHasHeaderRow); ok {
		hints.HasHeaderRow = v
	}
	if v, ok := meta.Property(types.PropRecordDelimiter); ok {
		hints.RecordDelimiter = v
	}
	if v, ok := meta.Property(types.PropFieldDelimiter); ok {
		hints.FieldDelimiter = v
	}

	doc, err := schemadoc.Encode(meta.Namespace, meta.Table, meta.Columns, hints, loc)
	if err != nil {
		return err
	}

	if t.probe != nil {
		if src, perr := location.Parse(loc); perr == nil {
			t.probe.Check(ctx, src)
		}
	}

	t.log.Info("creating table schema",
		zap.String("namespace", meta.Namespace),
		zap.String("table", meta.Table),
		zap.Int("columns", len(meta.Columns)))

	client := t.sessions.Session()
	_, err = client.AddSchema(ctx, meta.Namespace, registry.SchemaInfo{
		Type:   meta.Table,
		Format: registry.FormatJSON,
		Data:   doc,
	})
	return err
}

// Drop deletes every stored version whose type matches the table name,
// case-insensitively. Deletion is client-orchestrated: the registry has
// no drop-all-versions primitive. A missing group, unreachable registry,
// or rejected request all complete silently, treated as already dropped.
func (t *Tables) Drop(ctx context.Context, namespace, table string) error {
	t.log.Info("dropping table",
		zap.String("namespace", namespace),
		zap.String("table", table))

	client := t.sessions.Session()
	versions, err := client.GetSchemas(ctx, namespace)
	if err != nil {
		t.log.Debug("drop skipped, schema listing failed", zap.Error(err))
		return nil
	}

	for _, v := range versions {
		if !strings.EqualFold(v.SchemaInfo.Type, table) {
			continue
		}
		t.log.Info("deleting schema version",
			zap.String("type", v.VersionInfo.Type),
			zap.Int("version", v.VersionInfo.Version))
		if err := client.DeleteSchemaVersion(ctx, namespace, v.VersionInfo); err != nil {
			t.log.Debug("drop skipped, version delete failed", zap.Error(err))
			return nil
		}
	}
	return nil
}

// Exists reports whether the namespace's group holds any schema whose type
// matches the table name, case-insensitively. It fails closed: an
// unreachable registry or a missing group yields false, never an error.
func (t *Tables) Exists(ctx context.Context, namespace, table string) bool {
	client := t.sessions.Session()
	groups, err := registry.CollectGroups(ctx, client.ListGroups(ctx))
	if err != nil {
		t.log.Warn("cannot list registry groups", zap.Error(err))
		return false
	}
	if len(groups) == 0 {
		t.log.Warn("no groups found at registry, or it is down")
		return false
	}

	for _, g := range groups {
		if !strings.EqualFold(g.Name, namespace) {
			continue
		}
		schemas, err := client.GetSchemas(ctx, g.Name)
		if err != nil {
			t.log.Warn("cannot list schemas for group",
				zap.String("group", g.Name),
				zap.Error(err))
			return false
		}
		for _, s := range schemas {
			if strings.EqualFold(s.SchemaInfo.Type, table) {
				return true
			}
		}
		// Group found but table is not in it.
		return false
	}
	return false
}
