package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/opencatalog/schemabridge/internal/registry"
	"github.com/opencatalog/schemabridge/internal/schemadoc"
	"github.com/opencatalog/schemabridge/pkg/types"
)

// SnapshotBuilder reconstructs the full catalog listing from registry
// contents. Every Build opens its own session and walks the registry from
// scratch; snapshots are never cached and concurrent builders never share
// state.
type SnapshotBuilder struct {
	sessions registry.SessionFactory
	log      *zap.Logger
}

// NewSnapshotBuilder creates a snapshot builder.
func NewSnapshotBuilder(sessions registry.SessionFactory, log *zap.Logger) *SnapshotBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &SnapshotBuilder{sessions: sessions, log: log}
}

// Build walks every group and reconstructs the catalog listing from the
// latest stored version of each schema type. It never returns an error:
// an unreachable or empty registry yields an empty snapshot, and a
// decode or fetch failure mid-walk stops the traversal and returns
// whatever has been accumulated. A broken document means something is
// wrong registry-side; the partial result surfaces instead of the entry
// being silently skipped.
func (b *SnapshotBuilder) Build(ctx context.Context) *types.CatalogSnapshot {
	snapshot := &types.CatalogSnapshot{}

	client := b.sessions.Session()
	groups, err := registry.CollectGroups(ctx, client.ListGroups(ctx))
	if err != nil {
		// Expected operating condition during reads, not an error.
		b.log.Debug("cannot list registry groups", zap.Error(err))
		return snapshot
	}
	if len(groups) == 0 {
		b.log.Debug("no groups found at registry, or it is down")
		return snapshot
	}

	for _, group := range groups {
		b.log.Debug("found group in registry", zap.String("group", group.Name))

		versions, err := client.GetSchemas(ctx, group.Name)
		if err != nil {
			b.log.Error("schema listing failed mid-snapshot",
				zap.String("group", group.Name),
				zap.Error(err))
			return snapshot
		}

		if len(versions) == 0 {
			// Database with no tables: emit a namespace-only entry.
			b.log.Debug("no tables defined for group", zap.String("group", group.Name))
			snapshot.Schemas = append(snapshot.Schemas, types.SnapshotEntry{
				SchemaTableName: types.SchemaTableName{SchemaName: group.Name},
			})
			continue
		}

		for _, schemaType := range distinctTypes(versions) {
			latest, err := client.GetLatestSchemaVersion(ctx, group.Name, schemaType)
			if err != nil {
				b.log.Error("latest version fetch failed mid-snapshot",
					zap.String("group", group.Name),
					zap.String("type", schemaType),
					zap.Error(err))
				return snapshot
			}

			decoded, err := schemadoc.Decode(latest.SchemaInfo.Data)
			if err != nil {
				b.log.Error("schema document decode failed mid-snapshot",
					zap.String("group", group.Name),
					zap.String("type", schemaType),
					zap.Error(err))
				return snapshot
			}

			snapshot.Schemas = append(snapshot.Schemas, types.SnapshotEntry{
				SchemaTableName: types.SchemaTableName{
					SchemaName: decoded.Database,
					TableName:  decoded.Table,
				},
				Table: &types.TableListing{
					Name:             decoded.Table,
					Columns:          decoded.Columns,
					ObjectDataFormat: decoded.Hints.ObjectDataFormat,
					HasHeaderRow:     decoded.Hints.HasHeaderRow,
					RecordDelimiter:  decoded.Hints.RecordDelimiter,
					FieldDelimiter:   decoded.Hints.FieldDelimiter,
					Sources:          decoded.Sources,
				},
			})
		}
	}

	return snapshot
}

// distinctTypes returns the schema types present in a version listing, in
// first-seen order. Type names are deduplicated case-insensitively since
// table matching elsewhere is case-insensitive.
func distinctTypes(versions []registry.SchemaWithVersion) []string {
	seen := make(map[string]bool, len(versions))
	var out []string
	for _, v := range versions {
		key := strings.ToLower(v.SchemaInfo.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v.SchemaInfo.Type)
	}
	return out
}
