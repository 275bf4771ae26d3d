package audit

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/EDEN0412/techquiz/internal/provision"
	"github.com/EDEN0412/techquiz/internal/schema"
	"github.com/EDEN0412/techquiz/internal/syncer"
)

// RowFailure records one identifier that could not be repaired and why.
type RowFailure struct {
	ID     int64
	Reason string
}

// ReconciliationOutcome aggregates one reconciliation pass, produced fresh
// per run.
type ReconciliationOutcome struct {
	Entity    string
	Table     string
	Untouched int // already consistent
	Repaired  int
	Failed    int
	Failures  []RowFailure
}

// Reconciler repairs the drift an audit finds: it fetches each missing row
// from the source of record and upserts it into the mirror. Rows are
// processed sequentially so mirror-side error attribution stays per-row;
// a single row's failure never aborts the run.
type Reconciler struct {
	Auditor     *Auditor
	Provisioner *provision.Provisioner
	Sync        *syncer.Synchronizer
	Log         *logrus.Logger
}

// Reconcile audits the entity and repairs every missing identifier,
// best-effort. If the table does not exist yet it is provisioned first so a
// brand-new mirror self-heals. progress, when non-nil, is called once per
// repaired-or-failed row.
func (r *Reconciler) Reconcile(ctx context.Context, e *schema.Entity, progress func()) (*ReconciliationOutcome, error) {
	exists, err := r.Provisioner.Probe.TableExists(ctx, e.Table, e.PrimaryKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := r.Provisioner.Ensure(ctx, e); err != nil {
			return nil, err
		}
	}

	res, err := r.Auditor.Audit(ctx, e)
	if err != nil {
		return nil, err
	}

	out := &ReconciliationOutcome{Entity: e.Name, Table: e.Table, Untouched: res.Matched}
	for _, id := range res.MissingIDs {
		if err := r.repairRow(ctx, e, id); err != nil {
			out.Failed++
			out.Failures = append(out.Failures, RowFailure{ID: id, Reason: err.Error()})
			r.Log.WithFields(logrus.Fields{"table": e.Table, "id": id}).
				WithError(err).Warn("row repair failed, continuing")
		} else {
			out.Repaired++
		}
		if progress != nil {
			progress()
		}
	}

	r.Log.WithFields(logrus.Fields{
		"table": e.Table, "untouched": out.Untouched, "repaired": out.Repaired, "failed": out.Failed,
	}).Info("reconciliation finished")
	return out, nil
}

func (r *Reconciler) repairRow(ctx context.Context, e *schema.Entity, id int64) error {
	row, err := r.Auditor.Source.Row(ctx, e, id)
	if err != nil {
		return err
	}
	_, err = r.Sync.Upsert(ctx, e, row)
	return err
}
