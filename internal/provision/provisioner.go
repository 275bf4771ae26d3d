package provision

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/EDEN0412/techquiz/internal/mirror"
	"github.com/EDEN0412/techquiz/internal/schema"
)

// columnsRPC is the fallback procedure for column introspection, mirroring
// the existence-check RPC for environments without catalog visibility.
const columnsRPC = "get_table_columns"

// MirrorColumnInfo is the store's reported shape of one column, used only
// transiently during the alter pass.
type MirrorColumnInfo struct {
	Name     string
	DataType string
	Nullable bool
}

// Provisioner issues create/alter operations against the mirror from built
// table definitions. It adds columns, widens types and toggles nullability
// but never drops a column: deleting data over a possibly false-positive
// schema diff is left to a human operator.
type Provisioner struct {
	Client mirror.Client
	Probe  *Probe
	Retry  mirror.Policy
	Log    *logrus.Logger
}

// Ensure makes the mirror table for e match its definition: create when
// absent, alter when present. Calling it twice with an unchanged entity
// performs no destructive or duplicate work the second time.
func (p *Provisioner) Ensure(ctx context.Context, e *schema.Entity) error {
	def, err := schema.Build(e)
	if err != nil {
		return err
	}
	exists, err := p.Probe.TableExists(ctx, e.Table, e.PrimaryKey)
	if err != nil {
		return err
	}
	if !exists {
		return p.create(ctx, def)
	}
	return p.alter(ctx, def)
}

func (p *Provisioner) create(ctx context.Context, def *schema.TableDefinition) error {
	stmt := def.CreateSQL()
	err := p.Retry.Do(ctx, "create "+def.Table, func() error {
		_, err := p.Client.Execute(ctx, stmt)
		return err
	})
	if err != nil {
		return mirror.Fail(mirror.SchemaFailure, err, "create table %s", def.Table)
	}
	p.Log.WithField("table", def.Table).Info("created mirror table")

	// Constraint syntax is the most version-sensitive DDL across store
	// variants; the table is usable without it, so degrade instead of fail.
	for _, fk := range def.ForeignKeys {
		stmt := def.AddConstraintSQL(fk)
		err := p.Retry.Do(ctx, "constraint "+fk.Name, func() error {
			_, err := p.Client.Execute(ctx, stmt)
			return err
		})
		if err != nil {
			p.Log.WithFields(logrus.Fields{"table": def.Table, "constraint": fk.Name}).
				WithError(err).Warn("could not add foreign key constraint")
		}
	}
	return nil
}

func (p *Provisioner) alter(ctx context.Context, def *schema.TableDefinition) error {
	existing, err := p.fetchColumns(ctx, def.Table)
	if err != nil {
		return err
	}

	// Columns in the target but not the mirror: add, one failure must not
	// block the others.
	for _, col := range def.Columns {
		if _, ok := existing[col.Name]; ok {
			continue
		}
		stmt := def.AddColumnSQL(col)
		err := p.Retry.Do(ctx, "add column "+col.Name, func() error {
			_, err := p.Client.Execute(ctx, stmt)
			return err
		})
		if err != nil {
			p.Log.WithFields(logrus.Fields{"table": def.Table, "column": col.Name}).
				WithError(err).Warn("could not add column")
			continue
		}
		p.Log.WithFields(logrus.Fields{"table": def.Table, "column": col.Name}).Info("added column")
	}

	// Columns in both: reconcile type and nullability, per-column non-fatal.
	for _, col := range def.Columns {
		info, ok := existing[col.Name]
		if !ok {
			continue
		}
		if normalizeType(info.DataType) != normalizeType(col.SQLType) {
			stmt := def.AlterTypeSQL(col)
			err := p.Retry.Do(ctx, "alter type "+col.Name, func() error {
				_, err := p.Client.Execute(ctx, stmt)
				return err
			})
			if err != nil {
				p.Log.WithFields(logrus.Fields{"table": def.Table, "column": col.Name, "want": col.SQLType, "got": info.DataType}).
					WithError(err).Warn("could not change column type")
			} else {
				p.Log.WithFields(logrus.Fields{"table": def.Table, "column": col.Name, "type": col.SQLType}).Info("changed column type")
			}
		}
		if info.Nullable != col.Nullable && col.Name != def.PrimaryKey {
			stmt := def.AlterNullSQL(col)
			err := p.Retry.Do(ctx, "alter null "+col.Name, func() error {
				_, err := p.Client.Execute(ctx, stmt)
				return err
			})
			if err != nil {
				p.Log.WithFields(logrus.Fields{"table": def.Table, "column": col.Name}).
					WithError(err).Warn("could not change column nullability")
			}
		}
	}

	// Columns only the mirror has are never dropped automatically.
	var extra []string
	for name := range existing {
		if def.Column(name) == nil {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		p.Log.WithField("table", def.Table).
			Warnf("mirror has columns absent from the source schema: %s; not dropping, remove manually if intended",
				strings.Join(extra, ", "))
	}
	return nil
}

// fetchColumns introspects the mirror's current shape of table, falling back
// from the information schema to the columns RPC, with the same visibility
// concerns as the existence probe.
func (p *Provisioner) fetchColumns(ctx context.Context, table string) (map[string]MirrorColumnInfo, error) {
	var rows []mirror.Record
	err := p.Retry.Do(ctx, "columns "+table, func() error {
		var rerr error
		rows, rerr = p.Client.Select(ctx, "information_schema.columns",
			[]string{"column_name", "data_type", "is_nullable"},
			mirror.Record{"table_schema": "public", "table_name": table}, 0)
		return rerr
	})
	if err != nil {
		p.Log.WithField("table", table).WithError(err).
			Warn("information schema not readable, falling back to RPC")
		err = p.Retry.Do(ctx, "columns rpc "+table, func() error {
			var rerr error
			rows, rerr = p.Client.Call(ctx, columnsRPC, mirror.Record{"p_table_name": table})
			return rerr
		})
		if err != nil {
			return nil, mirror.Fail(mirror.SchemaFailure, err, "fetch column metadata for %s", table)
		}
	}
	out := make(map[string]MirrorColumnInfo, len(rows))
	for _, r := range rows {
		name, _ := r["column_name"].(string)
		if name == "" {
			continue
		}
		dataType, _ := r["data_type"].(string)
		nullable, _ := r["is_nullable"].(string)
		out[name] = MirrorColumnInfo{
			Name:     name,
			DataType: dataType,
			Nullable: strings.EqualFold(nullable, "YES"),
		}
	}
	return out, nil
}

// normalizeType reduces a reported or rendered type to a canonical base so
// equivalent spellings (varchar(100) vs character varying, int8 vs bigint)
// do not churn the alter pass.
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "character varying", "varchar":
		return "varchar"
	case "character", "bpchar", "char":
		return "char"
	case "int2", "smallint":
		return "smallint"
	case "int4", "int", "integer":
		return "integer"
	case "int8", "bigint":
		return "bigint"
	case "float4", "real":
		return "real"
	case "float8", "double precision":
		return "double precision"
	case "timestamptz", "timestamp with time zone":
		return "timestamp with time zone"
	case "timetz", "time with time zone":
		return "time with time zone"
	case "decimal", "numeric":
		return "numeric"
	default:
		return t
	}
}
