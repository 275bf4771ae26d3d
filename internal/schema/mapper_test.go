package schema_test

import (
	"strings"
	"testing"

	"github.com/EDEN0412/techquiz/internal/schema"
)

func TestMapColumn_TypeTable(t *testing.T) {
	cases := []struct {
		name string
		col  *schema.Column
		want string
	}{
		{"smallint", &schema.Column{Name: "level", Kind: schema.KindSmallInt}, "smallint"},
		{"integer", &schema.Column{Name: "points", Kind: schema.KindInteger}, "integer"},
		{"bigint", &schema.Column{Name: "id", Kind: schema.KindBigInt}, "bigint"},
		{"float", &schema.Column{Name: "avg_score", Kind: schema.KindFloat}, "double precision"},
		{"decimal", &schema.Column{Name: "price", Kind: schema.KindDecimal, Precision: 10, Scale: 2}, "numeric(10,2)"},
		{"boolean", &schema.Column{Name: "is_active", Kind: schema.KindBoolean}, "boolean"},
		{"varchar", &schema.Column{Name: "title", Kind: schema.KindVarChar, MaxLength: 200}, "varchar(200)"},
		{"text", &schema.Column{Name: "description", Kind: schema.KindText}, "text"},
		{"date", &schema.Column{Name: "date_of_birth", Kind: schema.KindDate}, "date"},
		{"time", &schema.Column{Name: "starts", Kind: schema.KindTime}, "time"},
		{"timestamp", &schema.Column{Name: "created_at", Kind: schema.KindTimestamp}, "timestamp with time zone"},
		{"binary", &schema.Column{Name: "blob", Kind: schema.KindBinary}, "bytea"},
		{"json", &schema.Column{Name: "payload", Kind: schema.KindJSON}, "jsonb"},
	}
	for _, tc := range cases {
		mapped, err := schema.MapColumn("quiz_quiz", tc.col)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if mapped.SQLType != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, mapped.SQLType)
		}
		if mapped.Constraint != nil {
			t.Errorf("%s: unexpected constraint for non-fk column", tc.name)
		}
	}
}

func TestMapColumn_ForeignKey(t *testing.T) {
	col := &schema.Column{
		Name: "category_id",
		Kind: schema.KindForeignKey,
		Ref:  &schema.Reference{Table: "quiz_category", Column: "id"},
	}
	mapped, err := schema.MapColumn("quiz_quiz", col)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mapped.SQLType != "bigint" {
		t.Errorf("expected fk to collapse to bigint, got %q", mapped.SQLType)
	}
	if mapped.Constraint == nil {
		t.Fatal("expected a recorded constraint")
	}
	if mapped.Constraint.Name != "quiz_quiz_category_id_fkey" {
		t.Errorf("constraint name not deterministic: %q", mapped.Constraint.Name)
	}
	if mapped.Constraint.Ref.Table != "quiz_category" || mapped.Constraint.Ref.Column != "id" {
		t.Errorf("constraint reference wrong: %+v", mapped.Constraint.Ref)
	}

	// Repeated builds must derive the same name.
	again, _ := schema.MapColumn("quiz_quiz", col)
	if again.Constraint.Name != mapped.Constraint.Name {
		t.Errorf("constraint name changed between builds: %q vs %q", again.Constraint.Name, mapped.Constraint.Name)
	}
}

func TestMapColumn_ManyToManyRejected(t *testing.T) {
	_, err := schema.MapColumn("quiz_quiz", &schema.Column{Name: "tags", Kind: schema.KindManyToMany})
	if err == nil {
		t.Fatal("expected an error for many-to-many columns")
	}
}

func TestDefaultSQL(t *testing.T) {
	cases := []struct {
		name string
		def  *schema.Default
		want string
	}{
		{"none", nil, ""},
		{"string", &schema.Default{Value: "single_choice"}, "'single_choice'"},
		{"escaped", &schema.Default{Value: "it's"}, "'it''s'"},
		{"true", &schema.Default{Value: true}, "true"},
		{"false", &schema.Default{Value: false}, "false"},
		{"int", &schema.Default{Value: 600}, "600"},
		{"float", &schema.Default{Value: 0.5}, "0.5"},
		{"null", &schema.Default{Value: nil}, "NULL"},
		{"expr", &schema.Default{Expr: "now()"}, "now()"},
	}
	for _, tc := range cases {
		got, err := schema.DefaultSQL(tc.def)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRegistryIsValid(t *testing.T) {
	entities := schema.Registry()
	if len(entities) == 0 {
		t.Fatal("registry is empty")
	}
	seen := make(map[string]bool)
	for _, e := range entities {
		if seen[e.Table] {
			t.Errorf("duplicate mirror table %s", e.Table)
		}
		seen[e.Table] = true
		if _, err := schema.Build(e); err != nil {
			t.Errorf("entity %s does not build: %v", e.Name, err)
		}
	}
	// Every foreign key must point at a registered mirror table so constraint
	// generation can resolve.
	for _, e := range entities {
		for _, fk := range e.ForeignKeys() {
			if !seen[fk.Ref.Table] {
				t.Errorf("%s.%s references unregistered table %s", e.Table, fk.Name, fk.Ref.Table)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	if e := schema.Lookup("quiz.Category"); e == nil || e.Table != "quiz_category" {
		t.Errorf("lookup by name failed: %+v", e)
	}
	if e := schema.Lookup("quiz_category"); e == nil || e.Name != "quiz.Category" {
		t.Errorf("lookup by table failed: %+v", e)
	}
	if e := schema.Lookup("nope"); e != nil {
		t.Errorf("expected nil for unknown entity, got %+v", e)
	}
}

func TestNewEntity_Validation(t *testing.T) {
	if _, err := schema.NewEntity("x", "x_table", "id", []*schema.Column{
		{Name: "id", Kind: schema.KindBigInt},
		{Name: "name", Kind: schema.KindVarChar},
	}); err == nil || !strings.Contains(err.Error(), "max length") {
		t.Errorf("expected varchar max length error, got %v", err)
	}
	if _, err := schema.NewEntity("x", "x_table", "id", []*schema.Column{
		{Name: "id", Kind: schema.KindBigInt},
		{Name: "other_id", Kind: schema.KindForeignKey},
	}); err == nil || !strings.Contains(err.Error(), "reference") {
		t.Errorf("expected missing reference error, got %v", err)
	}
	if _, err := schema.NewEntity("x", "x_table", "missing", []*schema.Column{
		{Name: "id", Kind: schema.KindBigInt},
	}); err == nil {
		t.Error("expected error for primary key not in column list")
	}
	if _, err := schema.NewEntity("x", "x_table", "id", []*schema.Column{
		{Name: "id", Kind: schema.KindBigInt},
		{Name: "tags", Kind: schema.KindManyToMany},
	}); err == nil {
		t.Error("expected error for many-to-many column")
	}
}
