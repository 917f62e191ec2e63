package cmd

import (
	"testing"
)

func TestVacuum_DryRunEmpty(t *testing.T) {
	env := newTestEnv(t)

	env.contains(env.run("vacuum", "--dry-run"), "No exercises to vacuum")
}

func TestVacuum_ForceEmpty(t *testing.T) {
	env := newTestEnv(t)

	env.contains(env.run("vacuum", "--force"), "No exercises to vacuum")
}

func TestVacuum_Cancelled(t *testing.T) {
	env := newTestEnv(t)

	out := env.runStdin("n\n", "vacuum")
	env.contains(out, "Permanently delete abandoned exercises?")
	env.contains(out, "Cancelled")
}

func TestVacuum_InvalidDuration(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("vacuum", "--force", "--older-than", "5parsecs")
	if err == nil {
		t.Fatalf("expected an error for a bad duration, got: %s", out)
	}
	env.contains(out, "parse duration")
}
