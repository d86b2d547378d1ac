package db

import (
	"path/filepath"
	"testing"
)

func TestDSN(t *testing.T) {
	got := dsn("/tmp/portal.db")
	want := "file:/tmp/portal.db?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}

func TestInitDB_PragmasSurviveNewConnections(t *testing.T) {
	conn, err := InitDB(filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	// no idle connections: every query below runs on a fresh one
	conn.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var fk, timeout int
		if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("read foreign_keys: %v", err)
		}
		if err := conn.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("read busy_timeout: %v", err)
		}
		if fk != 1 || timeout != 5000 {
			t.Fatalf("connection %d: foreign_keys=%d busy_timeout=%d", i, fk, timeout)
		}
	}

	// foreign keys are enforced
	if _, err := conn.Exec(`INSERT INTO jobs (title, posted_by) VALUES ('orphan', 999)`); err == nil {
		t.Fatalf("insert with a dangling posted_by should fail")
	}
}
