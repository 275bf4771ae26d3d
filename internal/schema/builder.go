package schema

import (
	"fmt"
	"strings"
)

// ColumnDef is one rendered column of a table definition.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	DefaultSQL string // empty = no default
}

// TableDefinition is the full mirror schema for one entity: rendered columns,
// the primary key and the foreign-key constraints. It is a pure value; the
// provisioner turns it into statements against the store.
type TableDefinition struct {
	Table       string
	Columns     []ColumnDef
	PrimaryKey  string
	ForeignKeys []ForeignKeyConstraint
}

// Build assembles the table definition for an entity.
func Build(e *Entity) (*TableDefinition, error) {
	def := &TableDefinition{Table: e.Table, PrimaryKey: e.PrimaryKey}
	for _, c := range e.Columns {
		mapped, err := MapColumn(e.Table, c)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", e.Table, err)
		}
		defaultSQL, err := DefaultSQL(c.Default)
		if err != nil {
			return nil, fmt.Errorf("build %s: column %s: %w", e.Table, c.Name, err)
		}
		def.Columns = append(def.Columns, ColumnDef{
			Name:       c.Name,
			SQLType:    mapped.SQLType,
			Nullable:   c.Nullable,
			DefaultSQL: defaultSQL,
		})
		if mapped.Constraint != nil {
			def.ForeignKeys = append(def.ForeignKeys, *mapped.Constraint)
		}
	}
	return def, nil
}

// Column returns the rendered column by name, or nil.
func (d *TableDefinition) Column(name string) *ColumnDef {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

func (c ColumnDef) render() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString(" ")
	b.WriteString(c.SQLType)
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.DefaultSQL != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.DefaultSQL)
	}
	return b.String()
}

// CreateSQL renders the single create statement: all columns plus the
// primary-key constraint. IF NOT EXISTS keeps the statement itself idempotent
// so two callers racing on "table absent" both succeed.
func (d *TableDefinition) CreateSQL() string {
	lines := make([]string, 0, len(d.Columns)+1)
	for _, c := range d.Columns {
		lines = append(lines, "  "+c.render())
	}
	if d.PrimaryKey != "" {
		lines = append(lines, fmt.Sprintf("  PRIMARY KEY (%s)", d.PrimaryKey))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", d.Table, strings.Join(lines, ",\n"))
}

// AddConstraintSQL renders one foreign-key constraint addition. Constraint
// syntax is the most version-sensitive DDL across store variants, which is
// why the provisioner issues these separately and tolerates their failure.
func (d *TableDefinition) AddConstraintSQL(fk ForeignKeyConstraint) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		d.Table, fk.Name, fk.Column, fk.Ref.Table, fk.Ref.Column)
}

// AddColumnSQL renders an additive column change.
func (d *TableDefinition) AddColumnSQL(c ColumnDef) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s", d.Table, c.render())
}

// AlterTypeSQL renders a type change with an explicit cast of existing data.
func (d *TableDefinition) AlterTypeSQL(c ColumnDef) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s",
		d.Table, c.Name, c.SQLType, c.Name, c.SQLType)
}

// AlterNullSQL renders a nullability toggle.
func (d *TableDefinition) AlterNullSQL(c ColumnDef) string {
	if c.Nullable {
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", d.Table, c.Name)
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", d.Table, c.Name)
}
