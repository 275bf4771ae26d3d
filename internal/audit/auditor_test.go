package audit

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/EDEN0412/techquiz/internal/mirror"
	"github.com/EDEN0412/techquiz/internal/schema"
)

// fakeMirror is an in-memory store for the audit/reconcile cycle. With exists
// false it answers every table read with the driver's missing-relation
// message; a create statement flips it to present.
type fakeMirror struct {
	exists       bool
	rows         map[int64]mirror.Record
	executed     []string
	failInsertID int64
}

func newFakeMirror(exists bool) *fakeMirror {
	return &fakeMirror{exists: exists, rows: make(map[int64]mirror.Record)}
}

func (m *fakeMirror) Select(ctx context.Context, table string, columns []string, filters mirror.Record, limit int) ([]mirror.Record, error) {
	if !m.exists {
		return nil, fmt.Errorf(`relation "%s" does not exist`, table)
	}
	var out []mirror.Record
	for _, r := range m.rows {
		match := true
		for k, v := range filters {
			if r[k] != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, r)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *fakeMirror) Insert(ctx context.Context, table string, rec mirror.Record) (mirror.Record, error) {
	id, _ := rec["id"].(int64)
	if m.failInsertID != 0 && id == m.failInsertID {
		return nil, mirror.Fail(mirror.DataFailure, errors.New("check constraint"), "insert %s", table)
	}
	m.rows[id] = rec
	return rec, nil
}

func (m *fakeMirror) Update(ctx context.Context, table, keyColumn string, id any, rec mirror.Record) (mirror.Record, error) {
	n, _ := id.(int64)
	m.rows[n] = rec
	return rec, nil
}

func (m *fakeMirror) Delete(ctx context.Context, table, keyColumn string, id any) (int64, error) {
	n, _ := id.(int64)
	if _, ok := m.rows[n]; !ok {
		return 0, nil
	}
	delete(m.rows, n)
	return 1, nil
}

func (m *fakeMirror) Execute(ctx context.Context, stmt string) ([]mirror.Record, error) {
	m.executed = append(m.executed, stmt)
	if strings.HasPrefix(stmt, "CREATE TABLE") {
		m.exists = true
	}
	return nil, nil
}

func (m *fakeMirror) Call(ctx context.Context, procedure string, params mirror.Record) ([]mirror.Record, error) {
	return nil, errors.New("no rpc surface")
}

// fakeSource serves rows for the identifiers it holds, in insertion order.
type fakeSource struct {
	ids  []int64
	rows map[int64]map[string]any
}

func newFakeSource(ids ...int64) *fakeSource {
	s := &fakeSource{ids: ids, rows: make(map[int64]map[string]any)}
	for _, id := range ids {
		s.rows[id] = map[string]any{"id": id, "name": fmt.Sprintf("row-%d", id)}
	}
	return s
}

func (s *fakeSource) IDs(ctx context.Context, e *schema.Entity) ([]int64, error) {
	return s.ids, nil
}

func (s *fakeSource) Row(ctx context.Context, e *schema.Entity, id int64) (map[string]any, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("no row %d", id)
	}
	return row, nil
}

func auditEntity(t *testing.T) *schema.Entity {
	t.Helper()
	e, err := schema.NewEntity("quiz.Category", "quiz_category", "id", []*schema.Column{
		{Name: "id", Kind: schema.KindBigInt},
		{Name: "name", Kind: schema.KindVarChar, MaxLength: 100},
	})
	if err != nil {
		t.Fatalf("entity: %v", err)
	}
	return e
}

func newAuditor(store *fakeMirror, src SourceReader) *Auditor {
	log, _ := test.NewNullLogger()
	return &Auditor{Client: store, Source: src, Retry: mirror.Policy{MaxAttempts: 1, Log: log}, Log: log}
}

func TestAudit_PresenceOnly(t *testing.T) {
	store := newFakeMirror(true)
	store.rows[1] = mirror.Record{"id": int64(1)}
	store.rows[3] = mirror.Record{"id": int64(3)}
	a := newAuditor(store, newFakeSource(1, 2, 3))

	res, err := a.Audit(context.Background(), auditEntity(t))
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if res.Matched != 2 || res.Mismatched != 1 {
		t.Errorf("matched=%d mismatched=%d, want 2/1", res.Matched, res.Mismatched)
	}
	if !reflect.DeepEqual(res.MissingIDs, []int64{2}) {
		t.Errorf("missing ids = %v, want [2]", res.MissingIDs)
	}
	if len(res.StaleIDs) != 0 {
		t.Errorf("presence-only audit reported stale ids: %v", res.StaleIDs)
	}
}

func TestAudit_MissingIDsSorted(t *testing.T) {
	store := newFakeMirror(true)
	a := newAuditor(store, newFakeSource(9, 1, 5))

	res, err := a.Audit(context.Background(), auditEntity(t))
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !reflect.DeepEqual(res.MissingIDs, []int64{1, 5, 9}) {
		t.Errorf("missing ids = %v, want ascending", res.MissingIDs)
	}
}

func TestAudit_IDCoercion(t *testing.T) {
	// RPC-shaped reads can surface keys as float64 or strings.
	store := newFakeMirror(true)
	store.rows[1] = mirror.Record{"id": float64(1)}
	store.rows[2] = mirror.Record{"id": "2"}
	a := newAuditor(store, newFakeSource(1, 2))

	res, err := a.Audit(context.Background(), auditEntity(t))
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if res.Mismatched != 0 {
		t.Errorf("coercible keys reported missing: %v", res.MissingIDs)
	}
}

func TestAudit_ComparerReportsStale(t *testing.T) {
	store := newFakeMirror(true)
	store.rows[1] = mirror.Record{"id": int64(1), "name": "row-1"}
	store.rows[2] = mirror.Record{"id": int64(2), "name": "outdated"}
	a := newAuditor(store, newFakeSource(1, 2))
	a.Comparer = func(source map[string]any, mirrored mirror.Record) bool {
		return source["name"] == mirrored["name"]
	}

	res, err := a.Audit(context.Background(), auditEntity(t))
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !reflect.DeepEqual(res.StaleIDs, []int64{2}) {
		t.Errorf("stale ids = %v, want [2]", res.StaleIDs)
	}
	// Stale rows are reported, not counted as mismatches.
	if res.Mismatched != 0 || res.Matched != 2 {
		t.Errorf("matched=%d mismatched=%d, want 2/0", res.Matched, res.Mismatched)
	}
}

func TestAsID(t *testing.T) {
	for _, v := range []any{int64(7), int(7), int32(7), float64(7), "7"} {
		id, ok := asID(v)
		if !ok || id != 7 {
			t.Errorf("asID(%T %v) = (%d, %v)", v, v, id, ok)
		}
	}
	if _, ok := asID("not-a-number"); ok {
		t.Error("garbage string coerced")
	}
	if _, ok := asID(nil); ok {
		t.Error("nil coerced")
	}
}
