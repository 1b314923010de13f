// Package registry defines the schema registry capability consumed by the
// bridge and provides its REST transport implementation.
//
// A registry stores named groups, each holding an ordered sequence of
// immutable schema versions. The bridge maps catalog databases onto groups
// and catalog tables onto schema types within a group.
package registry

import (
	"context"
	"errors"
)

// Done is returned by GroupIterator.Next when no more groups remain.
var Done = errors.New("no more groups")

// Serialization format and compatibility settings for created groups.
const (
	FormatJSON            = "Json"
	CompatibilityAllowAny = "AllowAny"
)

// GroupProperties configures a registry group at creation time.
type GroupProperties struct {
	// SerializationFormat is the schema format stored in the group
	SerializationFormat string `json:"serializationFormat"`

	// Compatibility is the group's schema compatibility policy
	Compatibility string `json:"compatibility"`

	// Versioned enables per-schema-name version sequences
	Versioned bool `json:"versioned"`
}

// DefaultGroupProperties returns the properties the bridge applies to every
// group it creates: JSON documents, any-compatibility, versioning enabled.
func DefaultGroupProperties() GroupProperties {
	return GroupProperties{
		SerializationFormat: FormatJSON,
		Compatibility:       CompatibilityAllowAny,
		Versioned:           true,
	}
}

// Group is one listed registry group.
type Group struct {
	Name       string
	Properties GroupProperties
}

// SchemaInfo is a schema document as submitted to or returned by the
// registry. Type is the schema's name within its group (the table name).
type SchemaInfo struct {
	Type   string `json:"type"`
	Format string `json:"serializationFormat"`
	Data   []byte `json:"schemaData"`
}

// VersionInfo identifies one stored version of a schema type.
type VersionInfo struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	ID      int    `json:"id"`
}

// SchemaWithVersion pairs a stored schema document with its version token.
type SchemaWithVersion struct {
	SchemaInfo  SchemaInfo  `json:"schemaInfo"`
	VersionInfo VersionInfo `json:"versionInfo"`
}

// GroupIterator yields listed groups one at a time. The listing call that
// produces an iterator can appear to succeed while the registry is down;
// the failure then surfaces on the first Next. Callers must treat an
// iteration error exactly like a listing error.
type GroupIterator interface {
	// Next returns the next group, or Done when the listing is exhausted.
	Next(ctx context.Context) (Group, error)
}

// Client is the registry capability interface the bridge operates
// against. Implementations handle transport concerns (connections,
// timeouts); the bridge performs no retries of its own.
type Client interface {
	// CreateGroup creates a new group with the given properties.
	CreateGroup(ctx context.Context, name string, props GroupProperties) error

	// RemoveGroup removes a group. Returns a NOT_FOUND registry error when
	// the group does not exist.
	RemoveGroup(ctx context.Context, name string) error

	// ListGroups returns an iterator over all groups in the namespace.
	ListGroups(ctx context.Context) GroupIterator

	// GetSchemas returns every stored schema version in a group, across
	// all schema types.
	GetSchemas(ctx context.Context, group string) ([]SchemaWithVersion, error)

	// AddSchema appends a new version of info.Type to the group.
	AddSchema(ctx context.Context, group string, info SchemaInfo) (VersionInfo, error)

	// DeleteSchemaVersion deletes one stored schema version.
	DeleteSchemaVersion(ctx context.Context, group string, version VersionInfo) error

	// GetLatestSchemaVersion returns the newest stored version of the
	// given schema type.
	GetLatestSchemaVersion(ctx context.Context, group, schemaType string) (SchemaWithVersion, error)
}

// CollectGroups drains an iterator into a slice. Any iteration error is
// returned as-is so callers can apply their fail-open policies uniformly.
func CollectGroups(ctx context.Context, it GroupIterator) ([]Group, error) {
	var groups []Group
	for {
		g, err := it.Next(ctx)
		if err == Done {
			return groups, nil
		}
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
}
