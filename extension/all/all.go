// Package all imports all core revdrill extensions.
// Import this package to register all built-in commands.
package all

import (
	// Core extensions - each registers itself via init()
	_ "github.com/jpl-au/revdrill/extension/core"
	_ "github.com/jpl-au/revdrill/extension/exercise"
	_ "github.com/jpl-au/revdrill/extension/stats"
	_ "github.com/jpl-au/revdrill/extension/taxonomy"
	_ "github.com/jpl-au/revdrill/extension/user"
)
