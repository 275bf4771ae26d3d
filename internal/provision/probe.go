package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/EDEN0412/techquiz/internal/mirror"
)

// existenceRPC is the procedure the mirror is expected to expose for
// existence checks when neither a direct read nor the catalog is visible.
const existenceRPC = "check_table_exists"

// Probe answers "does this table exist in the mirror?". No single detection
// method is available in every environment (privilege level, RPC surface and
// catalog visibility all vary between local and hosted stores), so it tries
// a fixed ladder of strategies and falls through on non-definitive failures:
//
//  1. a trivial bounded read against the table itself
//  2. a catalog lookup in pg_catalog.pg_tables
//  3. the check_table_exists remote procedure
//
// A definitive answer from any strategy is terminal. If every strategy fails,
// SuppressFailures decides between a logged false and a SchemaFailure.
type Probe struct {
	Client           mirror.Client
	Log              *logrus.Logger
	SuppressFailures bool
}

// TableExists runs the detection ladder for table, probing with keyColumn
// for the bounded read.
func (p *Probe) TableExists(ctx context.Context, table, keyColumn string) (bool, error) {
	var failures []string

	// Strategy 1: bounded read. A recognizable "relation does not exist"
	// error is a definitive no.
	_, err := p.Client.Select(ctx, table, []string{keyColumn}, nil, 1)
	if err == nil {
		return true, nil
	}
	if isMissingRelation(err) {
		return false, nil
	}
	p.Log.WithFields(logrus.Fields{"table": table, "strategy": "select"}).
		WithError(err).Warn("existence probe strategy failed, falling back")
	failures = append(failures, fmt.Sprintf("select: %v", err))

	// Strategy 2: catalog lookup in the default namespace.
	rows, err := p.Client.Select(ctx, "pg_catalog.pg_tables", []string{"tablename"},
		mirror.Record{"schemaname": "public", "tablename": table}, 1)
	if err == nil {
		return len(rows) > 0, nil
	}
	p.Log.WithFields(logrus.Fields{"table": table, "strategy": "catalog"}).
		WithError(err).Warn("existence probe strategy failed, falling back")
	failures = append(failures, fmt.Sprintf("catalog: %v", err))

	// Strategy 3: purpose-built RPC.
	rows, err = p.Client.Call(ctx, existenceRPC, mirror.Record{"p_table_name": table})
	if err == nil {
		return parseExistsResult(rows), nil
	}
	p.Log.WithFields(logrus.Fields{"table": table, "strategy": "rpc"}).
		WithError(err).Warn("existence probe strategy failed")
	failures = append(failures, fmt.Sprintf("rpc: %v", err))

	if p.SuppressFailures {
		p.Log.WithField("table", table).
			Errorf("all existence probe strategies failed, assuming absent: %s", strings.Join(failures, "; "))
		return false, nil
	}
	return false, mirror.Fail(mirror.SchemaFailure, nil,
		"could not determine existence of %s: %s", table, strings.Join(failures, "; "))
}

func parseExistsResult(rows []mirror.Record) bool {
	if len(rows) == 0 {
		return false
	}
	if v, ok := rows[0]["table_exists"]; ok {
		b, _ := v.(bool)
		return b
	}
	// Single-column boolean results come back under the function's name.
	for _, v := range rows[0] {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// isMissingRelation recognizes the store's "relation does not exist"
// signature, by SQLSTATE when the driver error survived wrapping and by
// message otherwise.
func isMissingRelation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01" // undefined_table
	}
	msg := err.Error()
	return strings.Contains(msg, "does not exist") &&
		(strings.Contains(msg, "relation") || strings.Contains(msg, "table"))
}
