package syncer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/EDEN0412/techquiz/internal/schema"
)

// Hooks is the glue an entity's write path calls after its own insert,
// update or delete. Registration is explicit: each write path constructs
// hooks for its own entity instead of a global listener filtering every
// write by type. The calls run inline with the triggering write, trading
// write latency for consistency by default; a deployment that cannot accept
// that moves them onto a queue without changing the Synchronizer.
type Hooks struct {
	entity  *schema.Entity
	sync    *Synchronizer
	enabled bool
	log     *logrus.Logger
}

// NewHooks binds hooks for one entity. With enabled false every hook is a
// no-op, which is how event-driven sync is switched off globally.
func NewHooks(e *schema.Entity, s *Synchronizer, enabled bool, log *logrus.Logger) *Hooks {
	return &Hooks{entity: e, sync: s, enabled: enabled, log: log}
}

// AfterSave mirrors a created or updated source row.
func (h *Hooks) AfterSave(ctx context.Context, row map[string]any) error {
	if !h.enabled {
		return nil
	}
	_, err := h.sync.Upsert(ctx, h.entity, row)
	if err != nil {
		h.log.WithField("table", h.entity.Table).WithError(err).Error("post-save mirror sync failed")
	}
	return err
}

// AfterDelete removes the mirror row for a deleted source row. The caller
// invokes this while the identifier is still resolvable in its own
// transaction model.
func (h *Hooks) AfterDelete(ctx context.Context, id any) error {
	if !h.enabled {
		return nil
	}
	_, err := h.sync.Remove(ctx, h.entity, id)
	if err != nil {
		h.log.WithField("table", h.entity.Table).WithError(err).Error("post-delete mirror sync failed")
	}
	return err
}
