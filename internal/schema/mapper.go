package schema

import (
	"fmt"
	"strings"
)

// ForeignKeyConstraint is the recorded reference for constraint generation.
// The name is derived deterministically so repeated builds are idempotent.
type ForeignKeyConstraint struct {
	Name   string
	Column string
	Ref    Reference
}

// MappedColumn is the mirror-side rendering of one column descriptor.
type MappedColumn struct {
	SQLType    string
	Constraint *ForeignKeyConstraint // foreign keys only
}

// MapColumn translates a column descriptor into its mirror type. The mapping
// table is fixed; table is the owning mirror table, needed only for the
// constraint name.
func MapColumn(table string, c *Column) (MappedColumn, error) {
	switch c.Kind {
	case KindSmallInt:
		return MappedColumn{SQLType: "smallint"}, nil
	case KindInteger:
		return MappedColumn{SQLType: "integer"}, nil
	case KindBigInt:
		return MappedColumn{SQLType: "bigint"}, nil
	case KindFloat:
		return MappedColumn{SQLType: "double precision"}, nil
	case KindDecimal:
		if c.Scale > 0 {
			return MappedColumn{SQLType: fmt.Sprintf("numeric(%d,%d)", c.Precision, c.Scale)}, nil
		}
		return MappedColumn{SQLType: fmt.Sprintf("numeric(%d)", c.Precision)}, nil
	case KindBoolean:
		return MappedColumn{SQLType: "boolean"}, nil
	case KindVarChar:
		return MappedColumn{SQLType: fmt.Sprintf("varchar(%d)", c.MaxLength)}, nil
	case KindText:
		return MappedColumn{SQLType: "text"}, nil
	case KindDate:
		return MappedColumn{SQLType: "date"}, nil
	case KindTime:
		return MappedColumn{SQLType: "time"}, nil
	case KindTimestamp:
		return MappedColumn{SQLType: "timestamp with time zone"}, nil
	case KindBinary:
		return MappedColumn{SQLType: "bytea"}, nil
	case KindJSON:
		return MappedColumn{SQLType: "jsonb"}, nil
	case KindForeignKey:
		// Foreign keys collapse to the referenced primary key's scalar type.
		return MappedColumn{
			SQLType: "bigint",
			Constraint: &ForeignKeyConstraint{
				Name:   fmt.Sprintf("%s_%s_fkey", table, c.Name),
				Column: c.Name,
				Ref:    *c.Ref,
			},
		}, nil
	case KindManyToMany:
		return MappedColumn{}, fmt.Errorf("column %s: many-to-many relations are not mapped to a mirror column", c.Name)
	default:
		return MappedColumn{}, fmt.Errorf("column %s: unmapped kind %s", c.Name, c.Kind)
	}
}

// DefaultSQL renders a column default for DDL. Literals are quoted and
// escaped, expressions pass through verbatim.
func DefaultSQL(d *Default) (string, error) {
	if d == nil {
		return "", nil
	}
	if d.Expr != "" {
		return d.Expr, nil
	}
	switch v := d.Value.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32, float64:
		return fmt.Sprintf("%v", v), nil
	default:
		return "", fmt.Errorf("unsupported default literal %T", d.Value)
	}
}
