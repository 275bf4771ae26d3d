package syncer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/EDEN0412/techquiz/internal/mirror"
	"github.com/EDEN0412/techquiz/internal/schema"
)

// Synchronizer pushes one source-of-record row at a time to its mirror row.
// It is stateless per call, so it is equally safe inline on a write path or
// from a background worker.
type Synchronizer struct {
	Client mirror.Client
	Retry  mirror.Policy
	Log    *logrus.Logger
}

// Flatten produces the SyncRecord for one source row: foreign keys collapse
// to the referenced key scalar, temporal values to canonical strings, and
// the key set matches the mirror columns exactly. Keys in row that no
// descriptor column claims are skipped relations and ignored.
func Flatten(e *schema.Entity, row map[string]any) (mirror.Record, error) {
	rec := make(mirror.Record, len(e.Columns))
	for _, c := range e.Columns {
		v, ok := row[c.Name]
		if !ok || v == nil {
			if !c.Nullable && c.Default == nil && c.Name != e.PrimaryKey {
				return nil, mirror.Fail(mirror.DataFailure, nil,
					"flatten %s: required column %s missing from row", e.Table, c.Name)
			}
			if !ok && c.Default != nil {
				// Let the store apply its own default.
				continue
			}
			rec[c.Name] = nil
			continue
		}
		fv, err := flattenValue(c, v)
		if err != nil {
			return nil, mirror.Fail(mirror.DataFailure, err, "flatten %s: column %s", e.Table, c.Name)
		}
		rec[c.Name] = fv
	}
	return rec, nil
}

func flattenValue(c *schema.Column, v any) (any, error) {
	switch c.Kind {
	case schema.KindTimestamp:
		if t, ok := v.(time.Time); ok {
			return t.UTC().Format(time.RFC3339Nano), nil
		}
	case schema.KindDate:
		if t, ok := v.(time.Time); ok {
			return t.Format("2006-01-02"), nil
		}
	case schema.KindTime:
		if t, ok := v.(time.Time); ok {
			return t.Format("15:04:05"), nil
		}
	case schema.KindJSON:
		switch v.(type) {
		case string, []byte:
			return v, nil
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			return string(b), nil
		}
	}
	return v, nil
}

// Upsert synchronizes one row. It always re-checks current mirror state
// before writing: a prior call's result may be stale under concurrent
// writers. On success it returns the mirror's echo of the record.
func (s *Synchronizer) Upsert(ctx context.Context, e *schema.Entity, row map[string]any) (mirror.Record, error) {
	rec, err := Flatten(e, row)
	if err != nil {
		return nil, err
	}
	id, ok := rec[e.PrimaryKey]
	if !ok || id == nil {
		return nil, mirror.Fail(mirror.DataFailure, nil, "upsert %s: row has no %s value", e.Table, e.PrimaryKey)
	}

	var existing []mirror.Record
	err = s.Retry.Do(ctx, "lookup "+e.Table, func() error {
		var lerr error
		existing, lerr = s.Client.Select(ctx, e.Table, []string{e.PrimaryKey}, mirror.Record{e.PrimaryKey: id}, 1)
		return lerr
	})
	if err != nil {
		return nil, err
	}

	var echoed mirror.Record
	if len(existing) > 0 {
		err = s.Retry.Do(ctx, "update "+e.Table, func() error {
			var werr error
			echoed, werr = s.Client.Update(ctx, e.Table, e.PrimaryKey, id, rec)
			return werr
		})
	} else {
		err = s.Retry.Do(ctx, "insert "+e.Table, func() error {
			var werr error
			echoed, werr = s.Client.Insert(ctx, e.Table, rec)
			return werr
		})
	}
	if err != nil {
		// Field values stay out of the error: report shape, not content.
		return nil, mirror.Fail(mirror.DataFailure, err, "upsert %s: write of %d fields failed", e.Table, len(rec))
	}
	s.Log.WithFields(logrus.Fields{"table": e.Table, "id": id}).Debug("row synchronized")
	return echoed, nil
}

// Remove deletes the mirror row for id. Deleting an already-absent id is not
// an error; it reports zero affected rows.
func (s *Synchronizer) Remove(ctx context.Context, e *schema.Entity, id any) (int64, error) {
	var affected int64
	err := s.Retry.Do(ctx, "delete "+e.Table, func() error {
		var derr error
		affected, derr = s.Client.Delete(ctx, e.Table, e.PrimaryKey, id)
		return derr
	})
	if err != nil {
		return 0, err
	}
	s.Log.WithFields(logrus.Fields{"table": e.Table, "id": id, "affected": affected}).Debug("row removed")
	return affected, nil
}
