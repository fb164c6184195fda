package mysqldialect

import "testing"

func TestSplitStatementsDropsEmptyAndTrimsWhitespace(t *testing.T) {
	ddl := "CREATE TABLE a (x INT);\n\nCREATE TABLE b (y INT);\n  ;\n"
	got := splitStatements(ddl)
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(got), got)
	}
	if got[0] != "CREATE TABLE a (x INT)" {
		t.Errorf("unexpected first statement: %q", got[0])
	}
	if got[1] != "CREATE TABLE b (y INT)" {
		t.Errorf("unexpected second statement: %q", got[1])
	}
}

func TestSplitStatementsOfBootstrapSchemaProducesNoEmptyEntries(t *testing.T) {
	for _, stmt := range splitStatements(schema) {
		if stmt == "" {
			t.Fatal("splitStatements left a blank entry, which ExecContext would reject")
		}
	}
}
