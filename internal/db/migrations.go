package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dfarias/linguaflash/internal/authz"
)

// A migration is one step of the ordered, append-only schema log. Every
// step guards against its own prior application, so the full log is safe to
// replay from empty or from any prefix-applied state.
type migration struct {
	name string
	run  func(ctx context.Context, tx *sql.Tx) error
}

// Migrate applies the full migration log, each step in its own
// transaction. It runs at every startup.
func (db *DB) Migrate(ctx context.Context) error {
	for _, m := range migrations {
		db.log.Debug("applying migration: %s", m.name)
		if err := Tx(ctx, db, func(tx *sql.Tx) error {
			return m.run(ctx, tx)
		}); err != nil {
			db.log.Error("migration %s failed: %v", m.name, err)
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}
	db.log.Info("migration log applied (%d steps)", len(migrations))
	return nil
}

var migrations = []migration{
	{"0001_levels", createLevels},
	{"0002_flashcards", createFlashcards},
	{"0003_quizzes", createQuizzes},
	{"0004_user_progress", createUserProgress},
	{"0005_user_levels", createUserLevels},
	{"0006_quiz_attempts", createQuizAttempts},
	{"0007_level_required_score", addLevelRequiredScore},
	{"0008_access_policies", createAccessPolicies},
	{"0009_seed_policies", seedPolicies},
	{"0010_seed_levels", seedLevels},
	{"0011_seed_flashcards", seedFlashcards},
	{"0012_seed_quizzes", seedQuizzes},
	{"0013_lookup_indexes", addLookupIndexes},
}

func createLevels(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS levels (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT,
    sort_order INTEGER NOT NULL UNIQUE
)`)
	return err
}

func createFlashcards(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS flashcards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    word TEXT NOT NULL UNIQUE,
    translation TEXT NOT NULL,
    category TEXT NOT NULL,
    level_id INTEGER REFERENCES levels(id),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
	return err
}

func createQuizzes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS quizzes (
    id TEXT PRIMARY KEY,
    level_id INTEGER NOT NULL REFERENCES levels(id),
    question TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    options_json TEXT NOT NULL
)`)
	return err
}

func createUserProgress(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS user_progress (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    flashcard_id INTEGER NOT NULL REFERENCES flashcards(id),
    known INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, flashcard_id)
)`)
	return err
}

func createUserLevels(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS user_levels (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    level_id INTEGER NOT NULL REFERENCES levels(id),
    completed INTEGER NOT NULL DEFAULT 0,
    score INTEGER NOT NULL DEFAULT 0,
    accuracy REAL NOT NULL DEFAULT 0,
    UNIQUE (user_id, level_id)
)`)
	return err
}

func createQuizAttempts(ctx context.Context, tx *sql.Tx) error {
	// Append-only: no uniqueness beyond the primary key, a user may attempt
	// the same quiz any number of times.
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS quiz_attempts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    quiz_id TEXT NOT NULL REFERENCES quizzes(id),
    answer TEXT NOT NULL,
    is_correct INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
	return err
}

func addLevelRequiredScore(ctx context.Context, tx *sql.Tx) error {
	exists, err := columnExists(ctx, tx, "levels", "required_score")
	if err != nil || exists {
		return err
	}
	_, err = tx.ExecContext(ctx, `ALTER TABLE levels ADD COLUMN required_score INTEGER NOT NULL DEFAULT 70`)
	return err
}

func createAccessPolicies(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS access_policies (
    name TEXT NOT NULL,
    table_name TEXT NOT NULL,
    operation TEXT NOT NULL,
    rule TEXT NOT NULL,
    UNIQUE (table_name, name)
)`)
	return err
}

func seedPolicies(ctx context.Context, tx *sql.Tx) error {
	policies := []authz.Policy{
		{Name: "flashcards_select_authenticated", Table: authz.TableFlashcards, Operation: authz.OpSelect, Rule: authz.RuleAuthenticated},
		{Name: "levels_select_authenticated", Table: authz.TableLevels, Operation: authz.OpSelect, Rule: authz.RuleAuthenticated},
		{Name: "quizzes_select_authenticated", Table: authz.TableQuizzes, Operation: authz.OpSelect, Rule: authz.RuleAuthenticated},
		{Name: "user_progress_select_own", Table: authz.TableUserProgress, Operation: authz.OpSelect, Rule: authz.RuleOwner},
		{Name: "user_progress_insert_own", Table: authz.TableUserProgress, Operation: authz.OpInsert, Rule: authz.RuleOwner},
		{Name: "user_progress_update_own", Table: authz.TableUserProgress, Operation: authz.OpUpdate, Rule: authz.RuleOwner},
		{Name: "user_levels_select_own", Table: authz.TableUserLevels, Operation: authz.OpSelect, Rule: authz.RuleOwner},
		{Name: "user_levels_insert_own", Table: authz.TableUserLevels, Operation: authz.OpInsert, Rule: authz.RuleOwner},
		{Name: "user_levels_update_own", Table: authz.TableUserLevels, Operation: authz.OpUpdate, Rule: authz.RuleOwner},
		{Name: "quiz_attempts_select_own", Table: authz.TableQuizAttempts, Operation: authz.OpSelect, Rule: authz.RuleOwner},
		{Name: "quiz_attempts_insert_own", Table: authz.TableQuizAttempts, Operation: authz.OpInsert, Rule: authz.RuleOwner},
	}
	// Catalog tables get no insert/update/delete policies: absent policy
	// means denied.
	for _, p := range policies {
		exists, err := policyExists(ctx, tx, p.Table, p.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_policies (name, table_name, operation, rule)
VALUES (?, ?, ?, ?)
`, p.Name, p.Table, string(p.Operation), p.Rule); err != nil {
			return err
		}
	}
	return nil
}

func seedLevels(ctx context.Context, tx *sql.Tx) error {
	levels := []struct {
		name        string
		description string
		sortOrder   int
	}{
		{"Beginner", "Greetings and everyday basics", 1},
		{"Elementary", "Food, numbers and daily life", 2},
		{"Intermediate", "Travel and getting around", 3},
		{"Advanced", "Abstract and idiomatic vocabulary", 4},
	}
	for _, l := range levels {
		exists, err := rowExists(ctx, tx, `SELECT 1 FROM levels WHERE sort_order = ?`, l.sortOrder)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO levels (name, description, sort_order) VALUES (?, ?, ?)
`, l.name, l.description, l.sortOrder); err != nil {
			return err
		}
	}
	return nil
}

func seedFlashcards(ctx context.Context, tx *sql.Tx) error {
	cards := []struct {
		word        string
		translation string
		category    string
		levelOrder  int
	}{
		{"Hola", "Hello", "greetings", 1},
		{"Adiós", "Goodbye", "greetings", 1},
		{"Gracias", "Thank you", "greetings", 1},
		{"Por favor", "Please", "greetings", 1},
		{"Manzana", "Apple", "food", 2},
		{"Pan", "Bread", "food", 2},
		{"Agua", "Water", "food", 2},
		{"Queso", "Cheese", "food", 2},
		{"Tren", "Train", "travel", 3},
		{"Aeropuerto", "Airport", "travel", 3},
		{"Billete", "Ticket", "travel", 3},
		{"Esperanza", "Hope", "abstract", 4},
	}
	for _, c := range cards {
		exists, err := rowExists(ctx, tx, `SELECT 1 FROM flashcards WHERE word = ?`, c.word)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		levelID, err := levelIDByOrder(ctx, tx, c.levelOrder)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO flashcards (word, translation, category, level_id) VALUES (?, ?, ?, ?)
`, c.word, c.translation, c.category, levelID); err != nil {
			return err
		}
	}
	return nil
}

func seedQuizzes(ctx context.Context, tx *sql.Tx) error {
	quizzes := []struct {
		levelOrder int
		question   string
		correct    string
		options    []string
	}{
		{1, `How do you say "hello" in Spanish?`, "Hola", []string{"Hola", "Adiós", "Gracias", "Por favor"}},
		{1, `What does "gracias" mean?`, "Thank you", []string{"Thank you", "Please", "Goodbye", "Hello"}},
		{2, `What is "manzana" in English?`, "Apple", []string{"Apple", "Bread", "Water", "Cheese"}},
		{2, `How do you say "water" in Spanish?`, "Agua", []string{"Agua", "Pan", "Queso", "Vino"}},
		{3, `Which word means "train"?`, "Tren", []string{"Tren", "Aeropuerto", "Billete", "Coche"}},
		{4, `What does "esperanza" mean?`, "Hope", []string{"Hope", "Fear", "Anger", "Joy"}},
	}
	for _, q := range quizzes {
		exists, err := rowExists(ctx, tx, `SELECT 1 FROM quizzes WHERE question = ?`, q.question)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if !optionsContain(q.options, q.correct) {
			return fmt.Errorf("seed quiz %q: correct answer %q not among options", q.question, q.correct)
		}
		levelID, err := levelIDByOrder(ctx, tx, q.levelOrder)
		if err != nil {
			return err
		}
		optionsJSON, err := json.Marshal(q.options)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO quizzes (id, level_id, question, correct_answer, options_json) VALUES (?, ?, ?, ?, ?)
`, uuid.NewString(), levelID, q.question, q.correct, string(optionsJSON)); err != nil {
			return err
		}
	}
	return nil
}

func addLookupIndexes(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_user_progress_user ON user_progress(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_levels_user ON user_levels(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_quiz ON quiz_attempts(user_id, quiz_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_level ON quizzes(level_id)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func policyExists(ctx context.Context, tx *sql.Tx, table, name string) (bool, error) {
	return rowExists(ctx, tx, `SELECT 1 FROM access_policies WHERE table_name = ? AND name = ?`, table, name)
}

func rowExists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func levelIDByOrder(ctx context.Context, tx *sql.Tx, sortOrder int) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM levels WHERE sort_order = ?`, sortOrder).Scan(&id)
	return id, err
}

func optionsContain(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
