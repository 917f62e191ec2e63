// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full stack:
// command parsing -> service layer -> store layer -> SQLite.
//
// Some internal packages show "[no test files]" - this is intentional.
// These packages are covered by the CLI integration tests:
//   - internal/validate: covered by register/generate tests (invalid inputs fail)
//   - internal/repo: covered by init/db tests (databases land where expected)
//   - internal/format: covered by output assertions across list/stats tests
//
// Packages with real logic (store, auth, badge, review, taxonomy, snippet)
// carry their own unit tests. Anything that needs a live LLM lives in
// llm_integration_test.go and skips unless a provider key is supplied.

package cmd

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// testPassword satisfies the minimum password length for register/login.
const testPassword = "password123"

// buildBinary compiles the revdrill binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		// Build to a temp location
		tmpDir, err := os.MkdirTemp("", "revdrill-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "revdrill"
		if os.PathSeparator == '\\' {
			binaryName = "revdrill.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string // working directory commands run in
	home   string // isolated HOME so global config never touches the real one
	binary string
}

// newTestEnv creates a temporary directory with an initialised revdrill store.
//
// Note: init does not create config. Config is managed separately via
// "revdrill config", so a fresh env is not logged in and has no API key.
func newTestEnv(t *testing.T) *testEnv {
	env := newBareEnv(t)
	env.run("init")
	return env
}

// newBareEnv creates the environment without running init, for commands
// that must work before a store exists (guide, taxonomy, version).
func newBareEnv(t *testing.T) *testEnv {
	t.Helper()

	binary := buildBinary(t)
	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	if err := os.MkdirAll(home, 0755); err != nil {
		t.Fatalf("create test home: %v", err)
	}

	return &testEnv{t: t, dir: dir, binary: binary, home: home}
}

// environ builds the child process environment. HOME points at the isolated
// test home, and provider keys are scrubbed so no test silently burns real
// API quota - the LLM integration test passes its key through config instead.
func (e *testEnv) environ() []string {
	var out []string
	for _, kv := range os.Environ() {
		switch {
		case strings.HasPrefix(kv, "HOME="),
			strings.HasPrefix(kv, "USERPROFILE="),
			strings.HasPrefix(kv, "GROQ_API_KEY="),
			strings.HasPrefix(kv, "GEMINI_API_KEY="),
			strings.HasPrefix(kv, "REVDRILL_DB="),
			strings.HasPrefix(kv, "REVDRILL_DIR="):
		default:
			out = append(out, kv)
		}
	}
	return append(out, "HOME="+e.home, "USERPROFILE="+e.home)
}

// run executes revdrill with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("revdrill %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes revdrill and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = e.environ()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runStdin executes revdrill with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	if err != nil {
		e.t.Fatalf("revdrill %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes revdrill with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = e.environ()
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON executes revdrill and returns stdout only. JSON assertions parse
// the payload, so stderr noise must stay out of it.
func (e *testEnv) runJSON(args ...string) string {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = e.environ()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		e.t.Fatalf("revdrill %v failed: %v\nstdout: %s\nstderr: %s", args, err, stdout.String(), stderr.String())
	}
	return stdout.String()
}

// register creates an account and leaves the environment logged in as it.
// The password arrives on stdin because register prompts when piped.
func (e *testEnv) register(username string) {
	e.t.Helper()
	e.runStdin(testPassword+"\n", "register", "-u", username)
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}
