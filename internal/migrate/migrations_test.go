package migrate

import (
	"testing"

	"gabinete/internal/db"
)

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := Migrate(conn); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var version int
	if err := conn.QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version < 1 {
		t.Fatalf("schema_version = %d, want at least 1", version)
	}
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		t.Fatalf("activities table missing: %v", err)
	}
}

func TestStepVersion(t *testing.T) {
	if v, err := stepVersion("001_init.sql"); err != nil || v != 1 {
		t.Fatalf("stepVersion(001_init.sql) = %d, %v", v, err)
	}
	if _, err := stepVersion("init.sql"); err == nil {
		t.Fatal("expected error for missing prefix")
	}
	if _, err := stepVersion("x_init.sql"); err == nil {
		t.Fatal("expected error for non-numeric prefix")
	}
}
