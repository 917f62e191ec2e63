package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesAccountAndLogsIn(t *testing.T) {
	env := newTestEnv(t)

	out := env.runStdin(testPassword+"\n", "register", "-u", "alice")
	env.contains(out, "Registered alice - you are now logged in")

	env.equals(env.run("whoami"), "alice")
}

func TestRegister_RequiresUsername(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runStdinErr(testPassword+"\n", "register")
	assert.Error(t, err)
	env.contains(out, "requires --username")
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runStdinErr("short\n", "register", "-u", "bob")
	assert.Error(t, err)
	env.contains(out, "invalid password")
}

func TestRegister_RejectsInvalidUsername(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runStdinErr(testPassword+"\n", "register", "-u", "9lives")
	assert.Error(t, err)
	env.contains(out, "must start with a lowercase letter")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	out, err := env.runStdinErr(testPassword+"\n", "register", "-u", "alice")
	assert.Error(t, err)
	env.contains(out, "already exists")
}

func TestRegister_UsernameIsLowercased(t *testing.T) {
	env := newTestEnv(t)

	out := env.runStdin(testPassword+"\n", "register", "-u", "Alice")
	env.contains(out, "Registered alice")
	env.equals(env.run("whoami"), "alice")
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")
	env.run("logout")

	out, err := env.runStdinErr("wrongwrong\n", "login", "-u", "alice")
	assert.Error(t, err)
	env.contains(out, "invalid username or password")
}

func TestLogin_SwitchesAccount(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")
	env.register("bob")
	env.equals(env.run("whoami"), "bob")

	out := env.runStdin(testPassword+"\n", "login", "-u", "alice")
	env.contains(out, "Logged in as alice")
	env.equals(env.run("whoami"), "alice")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	out := env.run("logout")
	env.contains(out, "Logged out alice")

	out, err := env.runErr("whoami")
	assert.Error(t, err)
	env.contains(out, "not logged in")

	// Second logout has no session to clear.
	out, err = env.runErr("logout")
	assert.Error(t, err)
	env.contains(out, "not logged in")
}

func TestWhoami_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	var u struct {
		Username string `json:"username"`
		Level    string `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(env.runJSON("whoami", "-o", "json")), &u))
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "basic", u.Level)
}

func TestProfile_ShowsAccountSummary(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	out := env.run("profile")
	env.contains(out, "Username:      alice")
	env.contains(out, "Level:         basic")
	env.contains(out, "Reviews:       0")
	env.contains(out, "Points:        0")
	env.contains(out, "Member since:")
}

func TestProfile_UpdateDisplayAndEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	out := env.run("profile", "--display", "Alice Example", "--email", "alice@example.com")
	env.contains(out, "Display name:  Alice Example")
	env.contains(out, "Email:         alice@example.com")

	// Changes persist.
	out = env.run("profile")
	env.contains(out, "Alice Example")
	env.contains(out, "alice@example.com")
}

func TestProfile_OtherUser(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")
	env.register("bob")

	out := env.run("profile", "alice")
	env.contains(out, "Username:      alice")
}

func TestProfile_UpdateWithUsernameArgFails(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")
	env.register("bob")

	out, err := env.runErr("profile", "alice", "--display", "Who")
	assert.Error(t, err)
	env.contains(out, "drop the username argument")
}

func TestProfile_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	out, err := env.runErr("profile", "ghost")
	assert.Error(t, err)
	env.contains(out, "not found")
}
