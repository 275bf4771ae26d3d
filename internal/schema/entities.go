package schema

// Static descriptors for every synchronized entity. These mirror the source
// of record's relational schema column for column; foreign keys carry the
// referenced mirror table and key column so constraint generation stays
// deterministic. The registry is built once at init and read-only afterwards.

var registry []*Entity

func init() {
	registry = []*Entity{
		mustEntity("users.User", "auth_user", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "password", Kind: KindVarChar, MaxLength: 128},
			{Name: "last_login", Kind: KindTimestamp, Nullable: true},
			{Name: "is_superuser", Kind: KindBoolean, Default: &Default{Value: false}},
			{Name: "username", Kind: KindVarChar, MaxLength: 150},
			{Name: "first_name", Kind: KindVarChar, MaxLength: 150, Default: &Default{Value: ""}},
			{Name: "last_name", Kind: KindVarChar, MaxLength: 150, Default: &Default{Value: ""}},
			{Name: "email", Kind: KindVarChar, MaxLength: 254, Default: &Default{Value: ""}},
			{Name: "is_staff", Kind: KindBoolean, Default: &Default{Value: false}},
			{Name: "is_active", Kind: KindBoolean, Default: &Default{Value: true}},
			{Name: "date_joined", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("users.UserProfile", "user_profile", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "user_id", Kind: KindForeignKey, Ref: &Reference{Table: "auth_user", Column: "id"}},
			{Name: "bio", Kind: KindText, Default: &Default{Value: ""}},
			{Name: "date_of_birth", Kind: KindDate, Nullable: true},
			{Name: "avatar_url", Kind: KindVarChar, MaxLength: 200, Nullable: true},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("quiz.Category", "quiz_category", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "name", Kind: KindVarChar, MaxLength: 100},
			{Name: "slug", Kind: KindVarChar, MaxLength: 100},
			{Name: "description", Kind: KindText, Default: &Default{Value: ""}},
			{Name: "icon", Kind: KindVarChar, MaxLength: 50, Default: &Default{Value: ""}},
			{Name: "display_order", Kind: KindInteger, Default: &Default{Value: 0}},
			{Name: "is_active", Kind: KindBoolean, Default: &Default{Value: true}},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("quiz.DifficultyLevel", "quiz_difficultylevel", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "name", Kind: KindVarChar, MaxLength: 50},
			{Name: "slug", Kind: KindVarChar, MaxLength: 50},
			{Name: "level", Kind: KindSmallInt},
			{Name: "description", Kind: KindText, Default: &Default{Value: ""}},
			{Name: "point_multiplier", Kind: KindInteger, Default: &Default{Value: 1}},
			{Name: "time_limit", Kind: KindInteger, Default: &Default{Value: 600}},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("quiz.Quiz", "quiz_quiz", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "category_id", Kind: KindForeignKey, Ref: &Reference{Table: "quiz_category", Column: "id"}},
			{Name: "difficulty_id", Kind: KindForeignKey, Ref: &Reference{Table: "quiz_difficultylevel", Column: "id"}},
			{Name: "title", Kind: KindVarChar, MaxLength: 200},
			{Name: "description", Kind: KindText, Default: &Default{Value: ""}},
			{Name: "time_limit", Kind: KindInteger, Default: &Default{Value: 600}},
			{Name: "pass_score", Kind: KindInteger, Default: &Default{Value: 70}},
			{Name: "is_active", Kind: KindBoolean, Default: &Default{Value: true}},
			{Name: "thumbnail_url", Kind: KindVarChar, MaxLength: 200, Default: &Default{Value: ""}},
			{Name: "banner_image_url", Kind: KindVarChar, MaxLength: 200, Default: &Default{Value: ""}},
			{Name: "media_type", Kind: KindVarChar, MaxLength: 50, Default: &Default{Value: ""}},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("quiz.Question", "quiz_question", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "quiz_id", Kind: KindForeignKey, Ref: &Reference{Table: "quiz_quiz", Column: "id"}},
			{Name: "question_text", Kind: KindText},
			{Name: "question_type", Kind: KindVarChar, MaxLength: 20, Default: &Default{Value: "single_choice"}},
			{Name: "hint", Kind: KindText, Default: &Default{Value: ""}},
			{Name: "explanation", Kind: KindText, Default: &Default{Value: ""}},
			{Name: "points", Kind: KindInteger, Default: &Default{Value: 10}},
			{Name: "display_order", Kind: KindInteger, Default: &Default{Value: 0}},
			{Name: "code_snippet", Kind: KindText, Default: &Default{Value: ""}},
			{Name: "image_url", Kind: KindVarChar, MaxLength: 200, Default: &Default{Value: ""}},
			{Name: "media_type", Kind: KindVarChar, MaxLength: 10, Default: &Default{Value: "none"}},
			{Name: "syntax_highlight", Kind: KindVarChar, MaxLength: 30, Default: &Default{Value: ""}},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("quiz.Answer", "quiz_answer", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "question_id", Kind: KindForeignKey, Ref: &Reference{Table: "quiz_question", Column: "id"}},
			{Name: "answer_text", Kind: KindText},
			{Name: "is_correct", Kind: KindBoolean, Default: &Default{Value: false}},
			{Name: "feedback", Kind: KindText, Default: &Default{Value: ""}},
			{Name: "display_order", Kind: KindInteger, Default: &Default{Value: 0}},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("quiz.QuizResult", "quiz_quizresult", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "user_id", Kind: KindForeignKey, Ref: &Reference{Table: "auth_user", Column: "id"}},
			{Name: "quiz_id", Kind: KindForeignKey, Ref: &Reference{Table: "quiz_quiz", Column: "id"}},
			{Name: "score", Kind: KindInteger},
			{Name: "total_possible", Kind: KindInteger},
			{Name: "percentage", Kind: KindFloat},
			{Name: "time_taken", Kind: KindInteger},
			{Name: "passed", Kind: KindBoolean, Default: &Default{Value: false}},
			{Name: "completed_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("quiz.UserStatistics", "quiz_userstatistics", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "user_id", Kind: KindForeignKey, Ref: &Reference{Table: "auth_user", Column: "id"}},
			{Name: "category_id", Kind: KindForeignKey, Nullable: true, Ref: &Reference{Table: "quiz_category", Column: "id"}},
			{Name: "difficulty_id", Kind: KindForeignKey, Nullable: true, Ref: &Reference{Table: "quiz_difficultylevel", Column: "id"}},
			{Name: "quizzes_completed", Kind: KindInteger, Default: &Default{Value: 0}},
			{Name: "total_points", Kind: KindInteger, Default: &Default{Value: 0}},
			{Name: "avg_score", Kind: KindFloat, Default: &Default{Value: 0.0}},
			{Name: "highest_score", Kind: KindInteger, Default: &Default{Value: 0}},
			{Name: "last_quiz_date", Kind: KindTimestamp, Nullable: true},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
		mustEntity("quiz.ActivityHistory", "quiz_activityhistory", "id", []*Column{
			{Name: "id", Kind: KindBigInt},
			{Name: "user_id", Kind: KindForeignKey, Ref: &Reference{Table: "auth_user", Column: "id"}},
			{Name: "quiz_id", Kind: KindForeignKey, Ref: &Reference{Table: "quiz_quiz", Column: "id"}},
			{Name: "category_id", Kind: KindForeignKey, Nullable: true, Ref: &Reference{Table: "quiz_category", Column: "id"}},
			{Name: "difficulty_id", Kind: KindForeignKey, Nullable: true, Ref: &Reference{Table: "quiz_difficultylevel", Column: "id"}},
			{Name: "score", Kind: KindInteger, Default: &Default{Value: 0}},
			{Name: "percentage", Kind: KindFloat, Default: &Default{Value: 0.0}},
			{Name: "activity_date", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "activity_type", Kind: KindVarChar, MaxLength: 20, Default: &Default{Value: "quiz_completed"}},
			{Name: "created_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
			{Name: "updated_at", Kind: KindTimestamp, Default: &Default{Expr: "now()"}},
		}),
	}
}

func mustEntity(name, table, pk string, cols []*Column) *Entity {
	e, err := NewEntity(name, table, pk, cols)
	if err != nil {
		panic(err)
	}
	return e
}

// Registry returns every synchronized entity in dependency-friendly order
// (referenced tables before referencing tables).
func Registry() []*Entity {
	out := make([]*Entity, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds an entity by its stable name or its mirror table name.
func Lookup(name string) *Entity {
	for _, e := range registry {
		if e.Name == name || e.Table == name {
			return e
		}
	}
	return nil
}
