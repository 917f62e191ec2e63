package cmd

import (
	"testing"
)

func TestDB_List(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("db")
	env.contains(out, "revdrill.db  shared")
}

func TestDB_ListMultiple(t *testing.T) {
	env := newTestEnv(t)
	env.run("init", "--db", "team")

	out := env.run("db")
	env.contains(out, "revdrill.db  shared")
	env.contains(out, "revdrill-team.db  shared")
}

func TestDB_MarkLocalAndShare(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("db", "--local")
	env.contains(out, "revdrill.db marked as local")
	env.contains(env.run("db"), "revdrill.db  local")

	out = env.run("db", "--share")
	env.contains(out, "revdrill.db marked as shared")
	env.contains(env.run("db"), "revdrill.db  shared")
}

func TestDB_NamedStatus(t *testing.T) {
	env := newTestEnv(t)
	env.run("init", "--db", "team")
	env.run("db", "team", "--local")

	env.contains(env.run("db", "team"), "revdrill-team.db: local")
}

func TestDB_SeparateDatabasesSeparateAccounts(t *testing.T) {
	// --db selects which database a command runs against; accounts in one
	// are invisible to the other.
	env := newTestEnv(t)
	env.run("init", "--db", "team")

	env.runStdin(testPassword+"\n", "register", "-u", "alice", "--db", "team")

	out, err := env.runErr("whoami")
	if err == nil {
		t.Fatalf("expected whoami against the default database to fail, got: %s", out)
	}
	env.contains(out, "not found in this database")

	env.equals(env.run("whoami", "--db", "team"), "alice")
}
