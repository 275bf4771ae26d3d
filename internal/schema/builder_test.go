package schema_test

import (
	"strings"
	"testing"

	"github.com/EDEN0412/techquiz/internal/schema"
)

func testEntity(t *testing.T) *schema.Entity {
	t.Helper()
	e, err := schema.NewEntity("quiz.Quiz", "quiz_quiz", "id", []*schema.Column{
		{Name: "id", Kind: schema.KindBigInt},
		{Name: "category_id", Kind: schema.KindForeignKey, Ref: &schema.Reference{Table: "quiz_category", Column: "id"}},
		{Name: "title", Kind: schema.KindVarChar, MaxLength: 200},
		{Name: "pass_score", Kind: schema.KindInteger, Default: &schema.Default{Value: 70}},
		{Name: "thumbnail_url", Kind: schema.KindVarChar, MaxLength: 200, Nullable: true},
		{Name: "created_at", Kind: schema.KindTimestamp, Default: &schema.Default{Expr: "now()"}},
	})
	if err != nil {
		t.Fatalf("entity: %v", err)
	}
	return e
}

func TestBuild_CreateSQL(t *testing.T) {
	def, err := schema.Build(testEntity(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sql := def.CreateSQL()

	if !strings.HasPrefix(sql, "CREATE TABLE IF NOT EXISTS quiz_quiz") {
		t.Errorf("create statement not idempotent at the statement level:\n%s", sql)
	}
	for _, want := range []string{
		"id bigint NOT NULL",
		"category_id bigint NOT NULL",
		"title varchar(200) NOT NULL",
		"pass_score integer NOT NULL DEFAULT 70",
		"thumbnail_url varchar(200)",
		"created_at timestamp with time zone NOT NULL DEFAULT now()",
		"PRIMARY KEY (id)",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("create statement missing %q:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, "thumbnail_url varchar(200) NOT NULL") {
		t.Errorf("nullable column rendered NOT NULL:\n%s", sql)
	}
	// Foreign keys go out as separate constraint statements, not inline.
	if strings.Contains(sql, "REFERENCES") {
		t.Errorf("foreign key rendered inline:\n%s", sql)
	}
}

func TestBuild_ForeignKeyStatements(t *testing.T) {
	def, err := schema.Build(testEntity(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(def.ForeignKeys) != 1 {
		t.Fatalf("expected 1 foreign key, got %d", len(def.ForeignKeys))
	}
	got := def.AddConstraintSQL(def.ForeignKeys[0])
	want := "ALTER TABLE quiz_quiz ADD CONSTRAINT quiz_quiz_category_id_fkey FOREIGN KEY (category_id) REFERENCES quiz_category(id)"
	if got != want {
		t.Errorf("constraint statement:\nwant %s\ngot  %s", want, got)
	}
}

func TestBuild_AlterStatements(t *testing.T) {
	def, err := schema.Build(testEntity(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	col := *def.Column("title")

	if got := def.AddColumnSQL(col); !strings.Contains(got, "ADD COLUMN IF NOT EXISTS title varchar(200) NOT NULL") {
		t.Errorf("add column statement: %s", got)
	}
	if got := def.AlterTypeSQL(col); got != "ALTER TABLE quiz_quiz ALTER COLUMN title TYPE varchar(200) USING title::varchar(200)" {
		t.Errorf("alter type statement: %s", got)
	}
	if got := def.AlterNullSQL(col); got != "ALTER TABLE quiz_quiz ALTER COLUMN title SET NOT NULL" {
		t.Errorf("set not null statement: %s", got)
	}
	col.Nullable = true
	if got := def.AlterNullSQL(col); got != "ALTER TABLE quiz_quiz ALTER COLUMN title DROP NOT NULL" {
		t.Errorf("drop not null statement: %s", got)
	}
}

func TestBuild_DeterministicAcrossCalls(t *testing.T) {
	e := testEntity(t)
	first, err := schema.Build(e)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := schema.Build(e)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if first.CreateSQL() != second.CreateSQL() {
		t.Error("create statement differs between builds of the same entity")
	}
}
