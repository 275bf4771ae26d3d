package schema

import "fmt"

// Reference points a foreign-key column at the referenced table's key column.
type Reference struct {
	Table  string
	Column string
}

// Default is a column default carried into the mirror DDL. Exactly one of
// Value/Expr is set: Value is a literal rendered into the statement, Expr is
// a raw server-side expression (e.g. "now()") evaluated per insert by the
// store itself, never snapshotted at build time.
type Default struct {
	Value any
	Expr  string
}

// Column describes one source-of-record column.
type Column struct {
	Name      string
	Kind      Kind
	Nullable  bool
	MaxLength int // KindVarChar only
	Precision int // KindDecimal only
	Scale     int // KindDecimal only
	Default   *Default
	Ref       *Reference // KindForeignKey only
}

// Entity is the static metadata for one synchronized type: a stable name,
// the ordered column list, the primary-key column and the mirror table name.
// Entities are built once at process start and read-only afterwards.
type Entity struct {
	Name       string // e.g. "quiz.Category"
	Table      string // mirror table, e.g. "quiz_category"
	PrimaryKey string
	Columns    []*Column
}

// NewEntity validates the descriptor shape. Validation errors here are
// programmer mistakes in the registry, so they are plain errors rather than
// classified sync failures.
func NewEntity(name, table, primaryKey string, columns []*Column) (*Entity, error) {
	if name == "" || table == "" {
		return nil, fmt.Errorf("entity requires a name and a mirror table")
	}
	if primaryKey == "" {
		return nil, fmt.Errorf("entity %s: primary key column is required", name)
	}
	seen := make(map[string]bool, len(columns))
	pkFound := false
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("entity %s: column with empty name", name)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("entity %s: duplicate column %s", name, c.Name)
		}
		seen[c.Name] = true
		if c.Name == primaryKey {
			pkFound = true
		}
		switch c.Kind {
		case KindVarChar:
			if c.MaxLength <= 0 {
				return nil, fmt.Errorf("entity %s: varchar column %s requires max length", name, c.Name)
			}
		case KindDecimal:
			if c.Precision <= 0 {
				return nil, fmt.Errorf("entity %s: decimal column %s requires precision", name, c.Name)
			}
		case KindForeignKey:
			if c.Ref == nil || c.Ref.Table == "" || c.Ref.Column == "" {
				return nil, fmt.Errorf("entity %s: foreign key column %s requires a reference", name, c.Name)
			}
		case KindManyToMany:
			return nil, fmt.Errorf("entity %s: column %s: many-to-many relations need a junction table and are not synchronized", name, c.Name)
		case KindUnknown:
			return nil, fmt.Errorf("entity %s: column %s has no kind", name, c.Name)
		}
		if c.Default != nil && c.Default.Expr != "" && c.Default.Value != nil {
			return nil, fmt.Errorf("entity %s: column %s: default must be a literal or an expression, not both", name, c.Name)
		}
	}
	if !pkFound {
		return nil, fmt.Errorf("entity %s: primary key column %s not in column list", name, primaryKey)
	}
	return &Entity{Name: name, Table: table, PrimaryKey: primaryKey, Columns: columns}, nil
}

// Column returns the named column descriptor, or nil.
func (e *Entity) Column(name string) *Column {
	for _, c := range e.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ForeignKeys returns the foreign-key columns in declaration order.
func (e *Entity) ForeignKeys() []*Column {
	var fks []*Column
	for _, c := range e.Columns {
		if c.Kind == KindForeignKey {
			fks = append(fks, c)
		}
	}
	return fks
}
