package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	env := newBareEnv(t)

	out := env.run("version")
	env.contains(out, "Build Tag:")
	env.contains(out, "Go Version:")
	env.contains(out, "Platform:")
}

func TestVersion_JSON(t *testing.T) {
	env := newBareEnv(t)

	var info struct {
		BuildTag  string `json:"build_tag"`
		GoVersion string `json:"go_version"`
		Platform  string `json:"platform"`
	}
	require.NoError(t, json.Unmarshal([]byte(env.runJSON("version", "-o", "json")), &info))
	assert.Equal(t, "dev", info.BuildTag)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
}
