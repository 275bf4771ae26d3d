package audit

import (
	"context"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/EDEN0412/techquiz/internal/mirror"
	"github.com/EDEN0412/techquiz/internal/schema"
)

// SourceReader is what the auditor needs from the source of record.
type SourceReader interface {
	// IDs returns every primary-key value for the entity.
	IDs(ctx context.Context, e *schema.Entity) ([]int64, error)
	// Row returns one row as a column name to value map.
	Row(ctx context.Context, e *schema.Entity, id int64) (map[string]any, error)
}

// RowComparer reports whether a mirror record still matches its source row.
// Setting one upgrades the audit from presence-only to value comparison;
// stale rows are reported, not repaired.
type RowComparer func(source map[string]any, mirrored mirror.Record) bool

// AuditResult is the outcome of one presence audit, produced fresh per call.
type AuditResult struct {
	Entity     string
	Table      string
	Matched    int
	Mismatched int
	MissingIDs []int64
	StaleIDs   []int64 // only populated when a RowComparer is set
}

// Auditor compares the source of record's identifier set against the
// mirror's for one entity. The default audit is presence-only by primary
// key; Comparer is the documented extension point for value-level drift.
type Auditor struct {
	Client   mirror.Client
	Source   SourceReader
	Retry    mirror.Policy
	Log      *logrus.Logger
	Comparer RowComparer
}

// Audit reads both identifier sets and reports source-minus-mirror as the
// mismatched set, ordered ascending.
func (a *Auditor) Audit(ctx context.Context, e *schema.Entity) (*AuditResult, error) {
	sourceIDs, err := a.Source.IDs(ctx, e)
	if err != nil {
		return nil, mirror.Fail(mirror.QueryFailure, err, "read source ids for %s", e.Table)
	}

	columns := []string{e.PrimaryKey}
	if a.Comparer != nil {
		columns = nil // need full rows for value comparison
	}
	var mirrorRows []mirror.Record
	err = a.Retry.Do(ctx, "audit read "+e.Table, func() error {
		var rerr error
		mirrorRows, rerr = a.Client.Select(ctx, e.Table, columns, nil, 0)
		return rerr
	})
	if err != nil {
		return nil, err
	}

	mirrored := make(map[int64]mirror.Record, len(mirrorRows))
	for _, r := range mirrorRows {
		if id, ok := asID(r[e.PrimaryKey]); ok {
			mirrored[id] = r
		}
	}

	res := &AuditResult{Entity: e.Name, Table: e.Table}
	for _, id := range sourceIDs {
		rec, ok := mirrored[id]
		if !ok {
			res.MissingIDs = append(res.MissingIDs, id)
			continue
		}
		res.Matched++
		if a.Comparer != nil {
			row, err := a.Source.Row(ctx, e, id)
			if err != nil {
				return nil, mirror.Fail(mirror.QueryFailure, err, "read source row %s/%d", e.Table, id)
			}
			if !a.Comparer(row, rec) {
				res.StaleIDs = append(res.StaleIDs, id)
			}
		}
	}
	sort.Slice(res.MissingIDs, func(i, j int) bool { return res.MissingIDs[i] < res.MissingIDs[j] })
	res.Mismatched = len(res.MissingIDs)

	a.Log.WithFields(logrus.Fields{
		"table": e.Table, "matched": res.Matched, "mismatched": res.Mismatched,
	}).Debug("audit finished")
	return res, nil
}

// asID coerces a mirror primary-key value to int64. Drivers report numeric
// keys as int64 but RPC paths can surface them as other widths or strings.
func asID(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}
