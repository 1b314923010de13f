package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencatalog/schemabridge/internal/errors"
	"github.com/opencatalog/schemabridge/internal/registry"
)

// fakeRegistry is an in-memory registry.Client used by the operation
// tests. It doubles as its own SessionFactory. Setting unreachable makes
// every call fail the way a down endpoint does, including the listing
// quirk where ListGroups succeeds and the first Next fails.
type fakeRegistry struct {
	order       []string
	groups      map[string]registry.GroupProperties
	schemas     map[string][]registry.SchemaWithVersion
	nextID      int
	unreachable bool
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		groups:  make(map[string]registry.GroupProperties),
		schemas: make(map[string][]registry.SchemaWithVersion),
	}
}

func (f *fakeRegistry) Session() registry.Client { return f }

func (f *fakeRegistry) down() error {
	return errors.NewRegistryError(errors.CodeUnreachable, "registry is down", nil)
}

func (f *fakeRegistry) CreateGroup(ctx context.Context, name string, props registry.GroupProperties) error {
	if f.unreachable {
		return f.down()
	}
	if _, ok := f.groups[name]; ok {
		return errors.NewRegistryError(errors.CodeRequestFailed,
			fmt.Sprintf("group %s already exists", name), nil)
	}
	f.groups[name] = props
	f.order = append(f.order, name)
	return nil
}

func (f *fakeRegistry) RemoveGroup(ctx context.Context, name string) error {
	if f.unreachable {
		return f.down()
	}
	if _, ok := f.groups[name]; !ok {
		return errors.NewRegistryError(errors.CodeNotFound,
			fmt.Sprintf("group %s not found", name), nil)
	}
	delete(f.groups, name)
	delete(f.schemas, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeGroupIterator struct {
	f      *fakeRegistry
	groups []registry.Group
	pos    int
}

func (it *fakeGroupIterator) Next(ctx context.Context) (registry.Group, error) {
	if it.f.unreachable {
		return registry.Group{}, it.f.down()
	}
	if it.pos >= len(it.groups) {
		return registry.Group{}, registry.Done
	}
	g := it.groups[it.pos]
	it.pos++
	return g, nil
}

func (f *fakeRegistry) ListGroups(ctx context.Context) registry.GroupIterator {
	// Snapshot the listing eagerly; the unreachable check still happens
	// per Next to model the listing-succeeds-iteration-fails quirk.
	groups := make([]registry.Group, 0, len(f.order))
	for _, name := range f.order {
		groups = append(groups, registry.Group{Name: name, Properties: f.groups[name]})
	}
	return &fakeGroupIterator{f: f, groups: groups}
}

func (f *fakeRegistry) GetSchemas(ctx context.Context, group string) ([]registry.SchemaWithVersion, error) {
	if f.unreachable {
		return nil, f.down()
	}
	if _, ok := f.groups[group]; !ok {
		return nil, errors.NewRegistryError(errors.CodeNotFound,
			fmt.Sprintf("group %s not found", group), nil)
	}
	return append([]registry.SchemaWithVersion(nil), f.schemas[group]...), nil
}

func (f *fakeRegistry) AddSchema(ctx context.Context, group string, info registry.SchemaInfo) (registry.VersionInfo, error) {
	if f.unreachable {
		return registry.VersionInfo{}, f.down()
	}
	if _, ok := f.groups[group]; !ok {
		return registry.VersionInfo{}, errors.NewRegistryError(errors.CodeNotFound,
			fmt.Sprintf("group %s not found", group), nil)
	}

	version := 0
	for _, v := range f.schemas[group] {
		if strings.EqualFold(v.SchemaInfo.Type, info.Type) {
			version++
		}
	}
	f.nextID++
	stored := registry.SchemaWithVersion{
		SchemaInfo:  info,
		VersionInfo: registry.VersionInfo{Type: info.Type, Version: version, ID: f.nextID},
	}
	f.schemas[group] = append(f.schemas[group], stored)
	return stored.VersionInfo, nil
}

func (f *fakeRegistry) DeleteSchemaVersion(ctx context.Context, group string, version registry.VersionInfo) error {
	if f.unreachable {
		return f.down()
	}
	versions := f.schemas[group]
	for i, v := range versions {
		if v.VersionInfo.Type == version.Type && v.VersionInfo.Version == version.Version {
			f.schemas[group] = append(versions[:i], versions[i+1:]...)
			return nil
		}
	}
	return errors.NewRegistryError(errors.CodeNotFound,
		fmt.Sprintf("version %d of %s not found", version.Version, version.Type), nil)
}

func (f *fakeRegistry) GetLatestSchemaVersion(ctx context.Context, group, schemaType string) (registry.SchemaWithVersion, error) {
	if f.unreachable {
		return registry.SchemaWithVersion{}, f.down()
	}
	var latest *registry.SchemaWithVersion
	for i, v := range f.schemas[group] {
		if !strings.EqualFold(v.SchemaInfo.Type, schemaType) {
			continue
		}
		if latest == nil || v.VersionInfo.Version > latest.VersionInfo.Version {
			latest = &f.schemas[group][i]
		}
	}
	if latest == nil {
		return registry.SchemaWithVersion{}, errors.NewRegistryError(errors.CodeNotFound,
			fmt.Sprintf("schema %s not found in group %s", schemaType, group), nil)
	}
	return *latest, nil
}
