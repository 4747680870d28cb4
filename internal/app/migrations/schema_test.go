package migrations

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The repositories address columns by name in raw SQL, so the initial
// schema must declare every column they read or write. The fakes used
// by the service tests never touch the DDL, which is how a missing
// column would otherwise slip through.
func TestInitialSchemaDeclaresRepositoryColumns(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	schema := string(content)

	tables := map[string][]string{
		"users":               {"id", "username", "email", "password_hash", "role", "created_at"},
		"profiles":            {"user_id", "first_name", "middle_name", "last_name", "department", "employee_id", "phone", "address", "date_of_birth", "profile_picture"},
		"school_years":        {"id", "year"},
		"semesters":           {"id", "name", "school_year_id"},
		"grade_levels":        {"id", "name", "semester_id"},
		"sections":            {"id", "name", "grade_level_id"},
		"subjects":            {"id", "name", "code", "section_id"},
		"subject_instructors": {"id", "subject_id", "user_id"},
		"subject_students":    {"id", "subject_id", "user_id"},
		"subject_folders":     {"id", "name", "subject_id", "created_at"},
		"subject_submissions": {"id", "folder_id", "name", "description", "due_date", "due_time", "max_attempts", "is_visible", "created_at"},
		"student_submissions": {"id", "submission_id", "student_id", "attempt_number", "submitted_at", "grade", "feedback", "graded_at"},
		"submission_files":    {"id", "parent_submission_id", "file_name", "file_type", "file_url"},
		"activity_logs":       {"id", "user_id", "action_type", "description", "created_at"},
		"attendance_sessions": {"id", "subject_id", "session_date", "created_at"},
		"attendance_records":  {"id", "session_id", "student_id", "status", "marked_at"},
	}

	for table, columns := range tables {
		body, ok := tableBody(schema, table)
		require.True(t, ok, "table %s is not created by the initial migration", table)
		for _, column := range columns {
			assert.True(t, declaresColumn(body, column),
				"table %s is missing column %s", table, column)
		}
	}
}

// tableBody extracts the body of a CREATE TABLE statement.
func tableBody(schema, table string) (string, bool) {
	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(schema, marker)
	if start < 0 {
		return "", false
	}
	rest := schema[start+len(marker):]
	end := strings.Index(rest, "\n);")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// declaresColumn reports whether the body has a column definition line
// starting with the given name. Constraint lines (UNIQUE, CHECK) never
// start with a column name, so a plain line-prefix match suffices.
func declaresColumn(body, column string) bool {
	re := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(column) + `\s`)
	return re.MatchString(body)
}
