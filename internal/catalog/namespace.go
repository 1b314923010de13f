// Package catalog implements the bridge's catalog-facing operations:
// namespace and table lifecycle against the registry, and full catalog
// snapshot reconstruction from registry state.
//
// Write paths fail hard on validation and translation problems. Read
// paths fail open: an unreachable registry degrades to false/empty
// results, because the bridge must keep serving catalog queries while the
// registry is down. Drop paths swallow not-found conditions and behave
// idempotently. These three postures are deliberate and must not be
// unified.
package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/opencatalog/schemabridge/internal/errors"
	"github.com/opencatalog/schemabridge/internal/registry"
)

// Namespaces manages registry groups as catalog databases. Every call
// opens its own registry session and holds no state across calls.
type Namespaces struct {
	sessions registry.SessionFactory
	log      *zap.Logger
}

// NewNamespaces creates the namespace operations handle.
func NewNamespaces(sessions registry.SessionFactory, log *zap.Logger) *Namespaces {
	if log == nil {
		log = zap.NewNop()
	}
	return &Namespaces{sessions: sessions, log: log}
}

// Create creates a new group for the namespace with the bridge's standard
// group properties. The owner is recorded in logs only; group properties
// carry no owner field. Idempotency is registry-defined and not enforced
// here.
func (n *Namespaces) Create(ctx context.Context, name, owner string) error {
	n.log.Info("creating namespace",
		zap.String("namespace", name),
		zap.String("owner", owner))

	client := n.sessions.Session()
	return client.CreateGroup(ctx, name, registry.DefaultGroupProperties())
}

// Drop removes the namespace's group. Removal is best effort: a missing
// group is treated as already dropped.
func (n *Namespaces) Drop(ctx context.Context, name string) error {
	n.log.Info("dropping namespace", zap.String("namespace", name))

	client := n.sessions.Session()
	if err := client.RemoveGroup(ctx, name); err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}

// Exists reports whether a group case-insensitively matching name is
// listed. It fails open: an unreachable registry or an empty listing
// yields false, never an error.
func (n *Namespaces) Exists(ctx context.Context, name string) bool {
	client := n.sessions.Session()
	groups, err := registry.CollectGroups(ctx, client.ListGroups(ctx))
	if err != nil {
		n.log.Warn("cannot list registry groups", zap.Error(err))
		return false
	}
	if len(groups) == 0 {
		n.log.Warn("no groups found at registry, or it is down")
		return false
	}

	for _, g := range groups {
		if strings.EqualFold(g.Name, name) {
			return true
		}
	}
	return false
}
