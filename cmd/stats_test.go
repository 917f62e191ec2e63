package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboard_Empty(t *testing.T) {
	env := newTestEnv(t)

	env.contains(env.run("leaderboard"), "No users on the leaderboard yet")
}

func TestLeaderboard_ListsUsers(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")
	env.register("bob")

	out := env.run("leaderboard")
	env.contains(out, "RANK")
	env.contains(out, "alice")
	env.contains(out, "bob")
	env.contains(out, "basic")
}

func TestLeaderboard_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	var entries []struct {
		Rank        int    `json:"rank"`
		Username    string `json:"username"`
		TotalPoints int    `json:"total_points"`
	}
	require.NoError(t, json.Unmarshal([]byte(env.runJSON("leaderboard", "-o", "json")), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 0, entries[0].TotalPoints)
}

func TestBadges_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("badges")
	assert.Error(t, err)
	env.contains(out, "not logged in")
}

func TestBadges_NoneEarned(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	env.contains(env.run("badges"), "No badges earned yet")
}

func TestBadges_CatalogListsEverything(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	out := env.run("badges", "-A")
	env.contains(out, "Bug Hunter")
	env.contains(out, "Reviewer Novice")
	env.contains(out, "Rising Star")
	env.contains(out, "0 of 14 badges earned")
}

func TestBadges_CatalogWorksLoggedOut(t *testing.T) {
	// The earned view needs an account; the catalog view degrades to
	// an unmarked listing.
	env := newTestEnv(t)

	out := env.run("badges", "-A")
	env.contains(out, "Bug Hunter")
	env.contains(out, "0 of 14 badges earned")
}

func TestMastery_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("mastery")
	assert.Error(t, err)
	env.contains(out, "not logged in")
}

func TestMastery_Empty(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	env.contains(env.run("mastery"), "No category stats yet - complete an exercise first")
}

func TestActivity_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("activity")
	assert.Error(t, err)
	env.contains(out, "not logged in")
}

func TestActivity_Empty(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	env.contains(env.run("activity"), "No activity recorded yet")
}
